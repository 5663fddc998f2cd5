package server

import (
	"fmt"

	"github.com/vkngwrapper/arsenal/compute/memory"
	"github.com/vkngwrapper/arsenal/compute/storage"
)

// Handle is the client-side reference to memory created through a ComputeServer or channel. It holds
// one reference to a slice from the server's memory management, plus an optional trimmed window
// within that slice.
type Handle struct {
	Memory *memory.SliceHandle

	offsetStart int
	offsetEnd   int
}

// NewHandle creates a Handle spanning an entire slice
func NewHandle(slice *memory.SliceHandle) Handle {
	return Handle{Memory: slice}
}

// Size returns the number of bytes the handle addresses
func (h Handle) Size() int {
	return h.Memory.Size() - h.offsetStart - h.offsetEnd
}

// OffsetStart returns a handle whose window begins bytes later. It panics if bytes is negative or larger
// than the handle's size.
func (h Handle) OffsetStart(bytes int) Handle {
	if bytes < 0 || bytes > h.Size() {
		panic(fmt.Sprintf("OffsetStart(%d) called on a handle of %d bytes", bytes, h.Size()))
	}
	h.offsetStart += bytes
	return h
}

// OffsetEnd returns a handle whose window ends bytes earlier. It panics if bytes is negative or larger
// than the handle's size.
func (h Handle) OffsetEnd(bytes int) Handle {
	if bytes < 0 || bytes > h.Size() {
		panic(fmt.Sprintf("OffsetEnd(%d) called on a handle of %d bytes", bytes, h.Size()))
	}
	h.offsetEnd += bytes
	return h
}

// Binding returns a Binding for the handle's window. The Binding can be resolved while the handle
// is live.
func (h Handle) Binding() Binding {
	return Binding{
		Memory:      h.Memory.Binding(),
		OffsetStart: h.offsetStart,
		OffsetEnd:   h.offsetEnd,
	}
}

// Clone adds a reference to the underlying slice and returns a handle with the same window
func (h Handle) Clone() Handle {
	h.Memory.Clone()
	return h
}

// Release drops this handle's reference to the underlying slice
func (h Handle) Release() {
	h.Memory.Release()
}

// CanMutate returns true if this handle holds the only reference to its slice
func (h Handle) CanMutate() bool {
	return h.Memory.References() == 1
}

// Binding is a resolved reference to a window of memory, passed to kernel executions and reads
type Binding struct {
	Memory      memory.SliceBinding
	OffsetStart int
	OffsetEnd   int
}

// Size returns the number of bytes the binding addresses
func (b Binding) Size() int {
	return b.Memory.Size() - b.OffsetStart - b.OffsetEnd
}

// Apply narrows the storage handle of the binding's slice down to the binding's window
func (b Binding) Apply(handle storage.Handle) storage.Handle {
	return handle.OffsetStart(b.OffsetStart).OffsetEnd(b.OffsetEnd)
}

// BindingResource is a binding resolved to a backend's native resource
type BindingResource[R any] struct {
	Resource R
	Handle   storage.Handle
}
