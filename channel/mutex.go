package channel

import (
	"context"
	"sync"
	"time"

	"github.com/vkngwrapper/arsenal/compute/memory"
	"github.com/vkngwrapper/arsenal/compute/server"
)

type mutexState[K, R any] struct {
	mutex  sync.Mutex
	server server.ComputeServer[K, R]
}

// MutexChannel serializes access to a server with a mutex. Submissions happen while holding the
// lock, but waiting on Read and Sync happens outside it, so a caller waiting on results does not block
// other callers from submitting.
type MutexChannel[K, R any] struct {
	state *mutexState[K, R]
}

var _ ComputeChannel[any, any] = MutexChannel[any, any]{}

// NewMutexChannel creates a MutexChannel. The channel takes ownership of srv: it must not be used
// directly afterward.
func NewMutexChannel[K, R any](srv server.ComputeServer[K, R]) MutexChannel[K, R] {
	return MutexChannel[K, R]{state: &mutexState[K, R]{server: srv}}
}

func (c MutexChannel[K, R]) Read(ctx context.Context, binding server.Binding) ([]byte, error) {
	c.state.mutex.Lock()
	future := c.state.server.Read(binding)
	c.state.mutex.Unlock()

	return future.Wait(ctx)
}

func (c MutexChannel[K, R]) GetResource(binding server.Binding) (server.BindingResource[R], error) {
	c.state.mutex.Lock()
	defer c.state.mutex.Unlock()

	return c.state.server.GetResource(binding)
}

func (c MutexChannel[K, R]) Create(data []byte) (server.Handle, error) {
	c.state.mutex.Lock()
	defer c.state.mutex.Unlock()

	return c.state.server.Create(data)
}

func (c MutexChannel[K, R]) Empty(size int) (server.Handle, error) {
	c.state.mutex.Lock()
	defer c.state.mutex.Unlock()

	return c.state.server.Empty(size)
}

func (c MutexChannel[K, R]) Execute(kernel K, count server.CubeCount, bindings []server.Binding, mode server.ExecutionMode) error {
	c.state.mutex.Lock()
	defer c.state.mutex.Unlock()

	return c.state.server.Execute(kernel, count, bindings, mode)
}

func (c MutexChannel[K, R]) Flush() error {
	c.state.mutex.Lock()
	defer c.state.mutex.Unlock()

	return c.state.server.Flush()
}

func (c MutexChannel[K, R]) Sync(ctx context.Context) (time.Duration, error) {
	c.state.mutex.Lock()
	future := c.state.server.Sync()
	c.state.mutex.Unlock()

	return future.Wait(ctx)
}

func (c MutexChannel[K, R]) MemoryUsage() memory.Usage {
	c.state.mutex.Lock()
	defer c.state.mutex.Unlock()

	return c.state.server.MemoryUsage()
}
