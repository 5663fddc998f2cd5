package storage

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/arsenal/compute/internal/utils"
	"golang.org/x/exp/slog"
)

// BytesStorageFlags indicate specific BytesStorage behaviors to activate or deactivate
type BytesStorageFlags int32

var bytesStorageFlagsMapping = make(map[BytesStorageFlags]string)

func (f BytesStorageFlags) String() string {
	if f == 0 {
		return "None"
	}

	var str string
	for flag := BytesStorageFlags(1); flag <= f && flag != 0; flag <<= 1 {
		if f&flag == 0 {
			continue
		}
		name, ok := bytesStorageFlagsMapping[flag]
		if !ok {
			name = fmt.Sprintf("BytesStorageFlags(%d)", int32(flag))
		}
		if str != "" {
			str += "|"
		}
		str += name
	}
	return str
}

const (
	// BytesStorageExternallySynchronized ensures that the storage will not be synchronized internally. The
	// consumer must guarantee it is used from only one goroutine at a time.
	BytesStorageExternallySynchronized BytesStorageFlags = 1 << iota
)

func init() {
	bytesStorageFlagsMapping[BytesStorageExternallySynchronized] = "BytesStorageExternallySynchronized"
}

// BytesStorageOptions contains optional settings when creating a BytesStorage
type BytesStorageOptions struct {
	// Flags indicates specific storage behaviors to activate or deactivate
	Flags BytesStorageFlags
	// Limit is the maximum number of bytes that may be allocated at once. Allocations beyond the limit
	// fail with ErrOutOfMemory. 0 indicates no limit.
	Limit int
}

// BytesResource is the resource BytesStorage resolves handles to: a window of Size bytes at Offset within
// the allocation's Chunk
type BytesResource struct {
	Chunk  []byte
	Offset int
	Size   int
}

// Bytes returns the bytes addressed by the handle the resource was resolved from. Appending to the
// result never writes into the allocation.
func (r BytesResource) Bytes() []byte {
	end := r.Offset + r.Size
	return r.Chunk[r.Offset:end:end]
}

// Tail returns every byte from the resource's offset to the end of the physical allocation, ignoring
// the handle's size
func (r BytesResource) Tail() []byte {
	return r.Chunk[r.Offset:]
}

// BytesStorage is a ComputeStorage that keeps allocations in host memory. It is the storage used by
// the cpu backend, and is useful anywhere a simulated device is wanted.
type BytesStorage struct {
	logger *slog.Logger
	mutex  utils.RWLocker

	ids    IDPool
	memory *swiss.Map[StorageID, []byte]

	limit          int
	allocatedBytes int64
}

var _ ComputeStorage[BytesResource] = &BytesStorage{}

// NewBytesStorage creates an empty BytesStorage
func NewBytesStorage(logger *slog.Logger, options BytesStorageOptions) (*BytesStorage, error) {
	if options.Limit < 0 {
		return nil, errors.Newf("BytesStorageOptions.Limit must be 0 or positive, but was %d", options.Limit)
	}

	return &BytesStorage{
		logger: logger,
		mutex:  utils.NewRWLocker(options.Flags&BytesStorageExternallySynchronized != 0),
		memory: swiss.NewMap[StorageID, []byte](64),
		limit:  options.Limit,
	}, nil
}

func (s *BytesStorage) reserveBudget(size int) error {
	if s.limit == 0 {
		atomic.AddInt64(&s.allocatedBytes, int64(size))
		return nil
	}

	for {
		currentVal := atomic.LoadInt64(&s.allocatedBytes)
		targetVal := currentVal + int64(size)

		if targetVal > int64(s.limit) {
			return errors.Wrapf(ErrOutOfMemory, "requested %d bytes with %d of %d available",
				size, int64(s.limit)-currentVal, s.limit)
		}

		if atomic.CompareAndSwapInt64(&s.allocatedBytes, currentVal, targetVal) {
			return nil
		}
	}
}

func (s *BytesStorage) releaseBudget(size int) {
	newVal := atomic.AddInt64(&s.allocatedBytes, int64(-size))
	if newVal < 0 {
		panic(fmt.Sprintf("allocated bytes for storage went negative: %d", newVal))
	}
}

// Alloc reserves size bytes of zeroed host memory
func (s *BytesStorage) Alloc(size int) (Handle, error) {
	if size < 0 {
		return Handle{}, errors.Newf("attempted to allocate %d bytes", size)
	}

	err := s.reserveBudget(size)
	if err != nil {
		return Handle{}, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := s.ids.Next()
	s.memory.Put(id, make([]byte, size))

	return NewHandle(id, FullUtilization(size)), nil
}

// Get resolves a handle to the window of host memory it addresses
func (s *BytesStorage) Get(handle Handle) BytesResource {
	s.mutex.RLock()
	chunk, ok := s.memory.Get(handle.ID)
	s.mutex.RUnlock()

	if !ok {
		panic(fmt.Sprintf("attempted to resolve %s, but its storage is not live", handle))
	}

	start, end := handle.Range()
	if end > len(chunk) {
		panic(fmt.Sprintf("attempted to resolve %s, but its allocation is only %d bytes", handle, len(chunk)))
	}

	return BytesResource{
		Chunk:  chunk,
		Offset: start,
		Size:   end - start,
	}
}

// Map returns the bytes addressed by a handle
func (s *BytesStorage) Map(handle Handle) []byte {
	return s.Get(handle).Bytes()
}

// Dealloc releases the memory of an allocation
func (s *BytesStorage) Dealloc(id StorageID) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	chunk, ok := s.memory.Get(id)
	if !ok {
		panic(fmt.Sprintf("attempted to deallocate %s, but it is not live", id))
	}

	s.memory.Delete(id)
	s.ids.Retire(id)
	s.releaseBudget(len(chunk))
}

// Usage returns the number of live allocations and the bytes they occupy
func (s *BytesStorage) Usage() (allocations int, bytes int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.ids.Live(), int(atomic.LoadInt64(&s.allocatedBytes))
}

// Destroy releases every allocation. Allocations that are still live are logged, and an error is
// returned if there were any.
func (s *BytesStorage) Destroy() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	leaked := 0
	s.memory.Iter(func(id StorageID, chunk []byte) bool {
		leaked++
		s.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] storage still allocated",
			slog.String("id", id.String()),
			slog.Int("size", len(chunk)),
		)
		return false
	})

	s.memory = swiss.NewMap[StorageID, []byte](64)
	s.ids = IDPool{}
	atomic.StoreInt64(&s.allocatedBytes, 0)

	if leaked > 0 {
		return errors.Newf("%d allocations were not deallocated before the destruction of this storage", leaked)
	}
	return nil
}
