package memory

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/arsenal/compute/internal/utils"
	"github.com/vkngwrapper/arsenal/compute/storage"
	"golang.org/x/exp/slog"
)

// HostMapped is implemented by storages whose memory can be addressed directly from the host. Management
// uses it to write and verify debug margins when built with the debug_mem_utils tag.
type HostMapped interface {
	Map(handle storage.Handle) []byte
}

type validateFunc func() error

func (f validateFunc) Validate() error { return f() }

// Management carves slices out of large chunks allocated from a storage.ComputeStorage. It tracks which
// slices are still referenced and is the only thing that deallocates storage: a chunk is deallocated
// only once every slice within it has been released.
type Management[R any] struct {
	logger  *slog.Logger
	mutex   sync.Locker
	storage storage.ComputeStorage[R]
	options Options

	chunks      []*chunk
	slices      *swiss.Map[SliceID, *slice]
	nextSliceID SliceID
}

// New creates a Management that allocates chunks from the provided storage
//
// logger - Chunk lifecycle is logged at debug level, and unreleased memory at error level
//
// store - The storage that chunks will be allocated from
//
// options - Optional parameters: it is valid to leave all the fields blank
func New[R any](logger *slog.Logger, store storage.ComputeStorage[R], options Options) (*Management[R], error) {
	if store == nil {
		return nil, errors.New("attempted to create a memory management with a nil storage")
	}

	options, err := options.withDefaults()
	if err != nil {
		return nil, err
	}

	return &Management[R]{
		logger:  logger,
		mutex:   utils.NewLocker(options.Flags&ManagementExternallySynchronized != 0),
		storage: store,
		options: options,
		slices:  swiss.NewMap[SliceID, *slice](64),
	}, nil
}

// Storage returns the storage chunks are allocated from
func (m *Management[R]) Storage() storage.ComputeStorage[R] {
	return m.storage
}

// Reserve claims a slice of at least size bytes. If the storage is out of memory, chunks that no longer
// hold any live slice are deallocated and the allocation is retried once; if it still fails, an error
// matching storage.ErrOutOfMemory is returned.
func (m *Management[R]) Reserve(size int) (*SliceHandle, error) {
	if size < 0 {
		return nil, errors.Newf("attempted to reserve %d bytes", size)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.sweep()

	padded := AlignUp(size+DebugMargin, m.options.Alignment)
	if padded == 0 {
		padded = m.options.Alignment
	}

	c, offset, err := m.findOrAllocate(padded)
	if err != nil {
		return nil, err
	}

	m.nextSliceID++
	handle := newSliceHandle(m.nextSliceID, size)
	s := &slice{
		handle:  handle,
		chunk:   c,
		storage: c.handle.OffsetStart(offset).OffsetEnd(c.Size() - offset - size),
		padded:  padded,
	}
	m.slices.Put(handle.id, s)

	if DebugMargin > 0 {
		m.writeMargin(s)
	}

	debugValidate(validateFunc(m.validate))

	return handle, nil
}

func (m *Management[R]) findOrAllocate(padded int) (*chunk, int, error) {
	for _, c := range m.chunks {
		if c.dedicated {
			continue
		}

		offset, ok := c.Alloc(padded)
		if ok {
			return c, offset, nil
		}
	}

	chunkSize := m.options.ChunkSize
	dedicated := padded > chunkSize
	if dedicated {
		chunkSize = padded
	}

	handle, err := m.storage.Alloc(chunkSize)
	if errors.Is(err, storage.ErrOutOfMemory) && m.cleanup() > 0 {
		handle, err = m.storage.Alloc(chunkSize)
	}
	if err != nil {
		return nil, 0, errors.Wrapf(err, "failed to allocate a chunk of %d bytes", chunkSize)
	}

	c := newChunk(handle, dedicated)
	m.chunks = append(m.chunks, c)

	m.logger.LogAttrs(context.Background(), slog.LevelDebug, "allocated chunk",
		slog.String("id", handle.ID.String()),
		slog.Int("size", chunkSize),
		slog.Bool("dedicated", dedicated),
	)

	offset, ok := c.Alloc(padded)
	if !ok {
		panic("a freshly allocated chunk could not hold the reservation it was sized for")
	}

	return c, offset, nil
}

// sweep returns every slice whose references have all been released to its chunk
func (m *Management[R]) sweep() int {
	var released []*slice
	m.slices.Iter(func(id SliceID, s *slice) bool {
		if s.handle.IsFree() {
			released = append(released, s)
		}
		return false
	})

	for _, s := range released {
		if DebugMargin > 0 && !m.validateMargin(s) {
			panic("MEMORY CORRUPTION DETECTED AFTER FREED ALLOCATION")
		}

		s.chunk.Free(s.offset(), s.padded)
		m.slices.Delete(s.handle.id)
	}

	if len(released) > 0 {
		m.deallocEmptyChunks(true)
	}

	return len(released)
}

func (m *Management[R]) cleanup() int {
	before := len(m.chunks)
	m.sweep()
	m.deallocEmptyChunks(false)
	return before - len(m.chunks)
}

// deallocEmptyChunks returns empty chunks to the storage. Dedicated chunks are never reused for other
// slices, so they are deallocated as soon as they are empty, while shared chunks wait for a cleanup.
func (m *Management[R]) deallocEmptyChunks(dedicatedOnly bool) int {
	freed := 0
	remaining := m.chunks[:0]
	for _, c := range m.chunks {
		if !c.IsEmpty() || (dedicatedOnly && !c.dedicated) {
			remaining = append(remaining, c)
			continue
		}

		m.storage.Dealloc(c.handle.ID)
		freed++

		m.logger.LogAttrs(context.Background(), slog.LevelDebug, "deallocated chunk",
			slog.String("id", c.handle.ID.String()),
			slog.Int("size", c.Size()),
			slog.Bool("dedicated", c.dedicated),
		)
	}

	for i := len(remaining); i < len(m.chunks); i++ {
		m.chunks[i] = nil
	}
	m.chunks = remaining

	return freed
}

// Cleanup reclaims released slices and deallocates every chunk that no longer holds a live slice. It
// returns the number of chunks deallocated.
func (m *Management[R]) Cleanup() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	freed := m.cleanup()
	debugValidate(validateFunc(m.validate))
	return freed
}

func (m *Management[R]) get(binding SliceBinding) (storage.Handle, error) {
	s, ok := m.slices.Get(binding.id)
	if !ok {
		return storage.Handle{}, errors.Wrapf(ErrUnknownSlice, "slice %d", binding.id)
	}

	return s.storage, nil
}

// Get returns the storage handle addressing a slice. Slices that have been released are resolvable until
// they are reclaimed by a later Reserve or Cleanup.
func (m *Management[R]) Get(binding SliceBinding) (storage.Handle, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.get(binding)
}

// GetResource resolves a slice to its storage resource
func (m *Management[R]) GetResource(binding SliceBinding) (R, error) {
	handle, err := m.Get(binding)
	if err != nil {
		var zero R
		return zero, err
	}

	return m.storage.Get(handle), nil
}

// Usage reports the memory held by this Management
func (m *Management[R]) Usage() Usage {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.usage()
}

func (m *Management[R]) usage() Usage {
	m.sweep()

	var usage Usage
	m.slices.Iter(func(id SliceID, s *slice) bool {
		usage.NumberAllocs++
		usage.BytesInUse += s.handle.size
		usage.BytesPadding += s.padded - s.handle.size
		return false
	})

	for _, c := range m.chunks {
		usage.BytesReserved += c.Size()
	}

	return usage
}

// BuildStatsString returns a json document describing the memory held by this Management. If detailed
// is true, every chunk and its unused ranges are included.
func (m *Management[R]) BuildStatsString(detailed bool) string {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	writer := jwriter.NewWriter()
	obj := writer.Object()

	total := obj.Name("Total").Object()
	m.usage().writeFields(&total)
	total.End()

	obj.Name("ChunkCount").Int(len(m.chunks))

	if detailed {
		chunks := obj.Name("Chunks").Array()
		for _, c := range m.chunks {
			chunkObj := chunks.Object()
			c.printParameters(&chunkObj)

			freeRanges := chunkObj.Name("FreeRanges").Array()
			c.printFreeRanges(&freeRanges)
			freeRanges.End()

			chunkObj.End()
		}
		chunks.End()
	}

	obj.End()
	return string(writer.Bytes())
}

// Validate performs internal consistency checks. When the Management is functioning correctly it
// should not be possible for this method to return an error.
func (m *Management[R]) Validate() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.validate()
}

func (m *Management[R]) validate() error {
	sliceCounts := make(map[*chunk]int, len(m.chunks))
	for _, c := range m.chunks {
		sliceCounts[c] = 0
	}

	var err error
	m.slices.Iter(func(id SliceID, s *slice) bool {
		count, ok := sliceCounts[s.chunk]
		if !ok {
			err = errors.Newf("slice %d belongs to a chunk that is not managed", id)
			return true
		}
		sliceCounts[s.chunk] = count + 1

		start, end := s.storage.Range()
		if s.padded < s.handle.size+DebugMargin || start+s.padded > s.chunk.Size() || end > s.chunk.Size() {
			err = errors.Newf("slice %d at %s does not fit within its chunk of %d bytes", id, s.storage, s.chunk.Size())
			return true
		}
		return false
	})
	if err != nil {
		return err
	}

	for _, c := range m.chunks {
		if sliceCounts[c] != c.sliceCount {
			return errors.Newf("chunk %s reports %d slices, but %d are live", c.handle.ID, c.sliceCount, sliceCounts[c])
		}

		err = c.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *Management[R]) writeMargin(s *slice) {
	mapped, ok := m.storage.(HostMapped)
	if !ok {
		return
	}

	writeMagicValue(mapped.Map(s.chunk.handle), s.offset()+s.handle.size)
}

func (m *Management[R]) validateMargin(s *slice) bool {
	mapped, ok := m.storage.(HostMapped)
	if !ok {
		return true
	}

	return validateMagicValue(mapped.Map(s.chunk.handle), s.offset()+s.handle.size)
}

// CheckCorruption verifies the debug margin after every live slice. It always succeeds unless the
// debug_mem_utils build tag is present.
func (m *Management[R]) CheckCorruption() error {
	if DebugMargin == 0 {
		return nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.storage.(HostMapped); !ok {
		return errors.New("attempted to check for corruption on a storage that cannot be mapped")
	}

	var err error
	m.slices.Iter(func(id SliceID, s *slice) bool {
		if !m.validateMargin(s) {
			err = errors.Newf("memory corruption detected after slice %d at %s", id, s.storage)
			return true
		}
		return false
	})

	return err
}

// Destroy deallocates every chunk. Slices that are still referenced are logged, and an error is
// returned if there were any.
func (m *Management[R]) Destroy() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.sweep()

	leaked := m.slices.Count()
	m.slices.Iter(func(id SliceID, s *slice) bool {
		m.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] unreleased slice",
			slog.Uint64("id", uint64(id)),
			slog.Int("offset", s.offset()),
			slog.Int("size", s.handle.size),
			slog.Int("references", s.handle.References()),
		)
		return false
	})

	for _, c := range m.chunks {
		m.storage.Dealloc(c.handle.ID)
	}
	m.chunks = nil
	m.slices = swiss.NewMap[SliceID, *slice](64)

	if leaked > 0 {
		return errors.Newf("%d slices were not released before the destruction of this memory management", leaked)
	}
	return nil
}
