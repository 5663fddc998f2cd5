package server

import (
	"context"
	"sync"
)

// Future is the result of an asynchronous server operation
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// NewFuture creates an unresolved Future
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// ResolvedFuture creates a Future that has already resolved
func ResolvedFuture[T any](value T, err error) *Future[T] {
	future := NewFuture[T]()
	future.Resolve(value, err)
	return future
}

// Resolve completes the future. Only the first call has any effect.
func (f *Future[T]) Resolve(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the future resolves
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves or ctx is done. Giving up on the wait does not cancel the
// operation.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
