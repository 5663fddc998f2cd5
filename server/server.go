package server

//go:generate mockgen -destination=./mocks/server.go -package=mocks . ComputeServer

import (
	"time"

	"github.com/vkngwrapper/arsenal/compute/memory"
)

// ComputeServer is a compute backend. K is the backend's kernel type and R is its native resource type.
//
// A ComputeServer does not need to be safe for concurrent use: channel implementations are responsible
// for serializing calls into it. Operations must take effect in the order they are called, so that a
// Read observes every earlier Create and Execute touching the same memory.
type ComputeServer[K, R any] interface {
	// Read copies the bytes addressed by binding back to the host once every earlier operation has run
	Read(binding Binding) *Future[[]byte]
	// GetResource resolves a binding to its resource without waiting for pending work
	GetResource(binding Binding) (BindingResource[R], error)
	// Create allocates memory sized to data and schedules an upload of data into it
	Create(data []byte) (Handle, error)
	// Empty allocates size bytes of uninitialized memory
	Empty(size int) (Handle, error)
	// Execute schedules kernel over count using bindings. With ExecutionModeUnchecked, out-of-bounds
	// accesses are not detected.
	Execute(kernel K, count CubeCount, bindings []Binding, mode ExecutionMode) error
	// Flush hands off all locally-buffered work to the execution queue without waiting for it
	Flush() error
	// Sync resolves once all submitted work has run, with the approximate work time since the last Sync
	Sync() *Future[time.Duration]
	// MemoryUsage reports the server's memory management statistics
	MemoryUsage() memory.Usage
}
