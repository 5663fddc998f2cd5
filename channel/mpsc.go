package channel

import (
	"context"
	"sync"
	"time"

	"github.com/vkngwrapper/arsenal/compute/memory"
	"github.com/vkngwrapper/arsenal/compute/server"
	"golang.org/x/exp/slog"
)

type message[K, R any] func(srv server.ComputeServer[K, R])

type mpscState[K, R any] struct {
	logger *slog.Logger

	messages  chan message[K, R]
	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// MPSCChannel gives a server to a dedicated dispatcher goroutine. Callers send their operations to the
// dispatcher over a Go channel and wait for its reply, so the server is only ever touched by one goroutine.
type MPSCChannel[K, R any] struct {
	state *mpscState[K, R]
}

var _ ComputeChannel[any, any] = MPSCChannel[any, any]{}

// NewMPSCChannel starts a dispatcher goroutine that owns srv
//
// logger - The dispatcher's shutdown is logged at debug level
//
// srv - The server operations are dispatched to. It must not be used directly afterward.
//
// queueDepth - The number of operations that may be waiting for the dispatcher before senders block
func NewMPSCChannel[K, R any](logger *slog.Logger, srv server.ComputeServer[K, R], queueDepth int) MPSCChannel[K, R] {
	state := &mpscState[K, R]{
		logger:   logger,
		messages: make(chan message[K, R], queueDepth),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
	}

	go state.dispatch(srv)

	return MPSCChannel[K, R]{state: state}
}

func (s *mpscState[K, R]) dispatch(srv server.ComputeServer[K, R]) {
	defer close(s.done)

	for {
		select {
		case msg := <-s.messages:
			msg(srv)
		case <-s.closing:
			drained := 0
			for {
				select {
				case msg := <-s.messages:
					msg(srv)
					drained++
				default:
					s.logger.LogAttrs(context.Background(), slog.LevelDebug, "compute channel dispatcher stopped",
						slog.Int("drained", drained),
					)
					return
				}
			}
		}
	}
}

func call[K, R, T any](s *mpscState[K, R], fn func(srv server.ComputeServer[K, R]) T) (T, error) {
	var zero T
	reply := make(chan T, 1)

	select {
	case s.messages <- func(srv server.ComputeServer[K, R]) { reply <- fn(srv) }:
	case <-s.closing:
		return zero, ErrChannelClosed
	}

	select {
	case value := <-reply:
		return value, nil
	case <-s.done:
		select {
		case value := <-reply:
			return value, nil
		default:
			return zero, ErrChannelClosed
		}
	}
}

type result[T any] struct {
	value T
	err   error
}

func callErr[K, R, T any](s *mpscState[K, R], fn func(srv server.ComputeServer[K, R]) (T, error)) (T, error) {
	res, err := call(s, func(srv server.ComputeServer[K, R]) result[T] {
		value, err := fn(srv)
		return result[T]{value: value, err: err}
	})
	if err != nil {
		return res.value, err
	}
	return res.value, res.err
}

func (c MPSCChannel[K, R]) Read(ctx context.Context, binding server.Binding) ([]byte, error) {
	future, err := call(c.state, func(srv server.ComputeServer[K, R]) *server.Future[[]byte] {
		return srv.Read(binding)
	})
	if err != nil {
		return nil, err
	}

	return future.Wait(ctx)
}

func (c MPSCChannel[K, R]) GetResource(binding server.Binding) (server.BindingResource[R], error) {
	return callErr(c.state, func(srv server.ComputeServer[K, R]) (server.BindingResource[R], error) {
		return srv.GetResource(binding)
	})
}

func (c MPSCChannel[K, R]) Create(data []byte) (server.Handle, error) {
	return callErr(c.state, func(srv server.ComputeServer[K, R]) (server.Handle, error) {
		return srv.Create(data)
	})
}

func (c MPSCChannel[K, R]) Empty(size int) (server.Handle, error) {
	return callErr(c.state, func(srv server.ComputeServer[K, R]) (server.Handle, error) {
		return srv.Empty(size)
	})
}

func (c MPSCChannel[K, R]) Execute(kernel K, count server.CubeCount, bindings []server.Binding, mode server.ExecutionMode) error {
	_, err := callErr(c.state, func(srv server.ComputeServer[K, R]) (struct{}, error) {
		return struct{}{}, srv.Execute(kernel, count, bindings, mode)
	})
	return err
}

func (c MPSCChannel[K, R]) Flush() error {
	_, err := callErr(c.state, func(srv server.ComputeServer[K, R]) (struct{}, error) {
		return struct{}{}, srv.Flush()
	})
	return err
}

func (c MPSCChannel[K, R]) Sync(ctx context.Context) (time.Duration, error) {
	future, err := call(c.state, func(srv server.ComputeServer[K, R]) *server.Future[time.Duration] {
		return srv.Sync()
	})
	if err != nil {
		return 0, err
	}

	return future.Wait(ctx)
}

// MemoryUsage reports the server's memory statistics, or an empty Usage once the channel is closed
func (c MPSCChannel[K, R]) MemoryUsage() memory.Usage {
	usage, _ := call(c.state, func(srv server.ComputeServer[K, R]) memory.Usage {
		return srv.MemoryUsage()
	})
	return usage
}

// Close stops the dispatcher once every operation already sent to it has run. Operations sent after
// Close return ErrChannelClosed. Close does not close the server.
func (c MPSCChannel[K, R]) Close() {
	c.state.closeOnce.Do(func() {
		close(c.state.closing)
	})
	<-c.state.done
}
