package channel

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vkngwrapper/arsenal/compute/memory"
	"github.com/vkngwrapper/arsenal/compute/server"
)

// ErrChannelClosed is returned by every operation on an MPSCChannel after Close
var ErrChannelClosed error = errors.New("compute channel closed")

// ComputeChannel is the client-facing, goroutine-safe entry point to a ComputeServer. Copies of a channel
// share the same server.
//
// Operations submitted through one channel take effect in the order they were submitted: a Read observes
// every Create and Execute submitted before it. Nothing is ordered across different channels. A ctx only
// bounds how long the caller waits, it never cancels submitted work.
type ComputeChannel[K, R any] interface {
	// Read waits until every earlier submission has run, then returns a copy of the bytes addressed by binding
	Read(ctx context.Context, binding server.Binding) ([]byte, error)
	// GetResource resolves a binding to the server's resource without waiting for pending work
	GetResource(binding server.Binding) (server.BindingResource[R], error)
	// Create allocates memory and uploads data into it before any later submission runs
	Create(data []byte) (server.Handle, error)
	// Empty allocates size bytes of uninitialized memory
	Empty(size int) (server.Handle, error)
	// Execute submits kernel. With server.ExecutionModeUnchecked the caller guarantees that the kernel
	// stays within its bindings.
	Execute(kernel K, count server.CubeCount, bindings []server.Binding, mode server.ExecutionMode) error
	// Flush hands off buffered work without waiting for it
	Flush() error
	// Sync waits until every earlier submission has run and returns the approximate time spent working
	Sync(ctx context.Context) (time.Duration, error)
	// MemoryUsage reports the server's memory statistics
	MemoryUsage() memory.Usage
}
