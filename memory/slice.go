package memory

import (
	"fmt"
	"sync/atomic"

	"github.com/vkngwrapper/arsenal/compute/storage"
)

// SliceID identifies a slice reserved from a Management. SliceIDs are never reused by the Management
// that minted them.
type SliceID uint64

// SliceHandle is a reference-counted claim on a slice. It is created with a single reference, which is
// dropped with Release. The slice is reclaimed by its Management some time after the last reference
// is dropped.
//
// SliceHandle is safe for concurrent use.
type SliceHandle struct {
	id   SliceID
	size int
	refs atomic.Int32
}

func newSliceHandle(id SliceID, size int) *SliceHandle {
	handle := &SliceHandle{id: id, size: size}
	handle.refs.Store(1)
	return handle
}

// ID returns the id of the slice this handle refers to
func (h *SliceHandle) ID() SliceID { return h.id }

// Size returns the number of bytes requested when the slice was reserved
func (h *SliceHandle) Size() int { return h.size }

// Clone adds a reference to the slice and returns the handle. Cloning a handle whose references have
// all been released panics.
func (h *SliceHandle) Clone() *SliceHandle {
	for {
		refs := h.refs.Load()
		if refs <= 0 {
			panic(fmt.Sprintf("attempted to clone slice %d after it was released", h.id))
		}
		if h.refs.CompareAndSwap(refs, refs+1) {
			return h
		}
	}
}

// Release drops a reference to the slice. Releasing more times than the handle was cloned, plus one,
// panics.
func (h *SliceHandle) Release() {
	refs := h.refs.Add(-1)
	if refs < 0 {
		panic(fmt.Sprintf("slice %d was released more times than it was referenced", h.id))
	}
}

// References returns the number of live references to the slice
func (h *SliceHandle) References() int {
	return int(h.refs.Load())
}

// IsFree returns true once every reference to the slice has been released
func (h *SliceHandle) IsFree() bool {
	return h.refs.Load() <= 0
}

// Binding returns a SliceBinding for the slice. The binding does not hold a reference: it can only
// be resolved while the slice is live.
func (h *SliceHandle) Binding() SliceBinding {
	return SliceBinding{id: h.id, size: h.size}
}

// SliceBinding is a non-owning reference to a slice, resolved by a Management
type SliceBinding struct {
	id   SliceID
	size int
}

// ID returns the id of the slice this binding refers to
func (b SliceBinding) ID() SliceID { return b.id }

// Size returns the number of bytes requested when the slice was reserved
func (b SliceBinding) Size() int { return b.size }

type slice struct {
	handle  *SliceHandle
	chunk   *chunk
	storage storage.Handle
	// padded is the number of bytes taken from the chunk, including alignment padding and the debug margin
	padded int
}

func (s *slice) offset() int {
	return s.storage.Offset()
}
