package cpu

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/compute/server"
	"golang.org/x/exp/slog"
)

type task struct {
	kind string
	run  func() error
	sync *server.Future[time.Duration]
}

// stream runs tasks in submission order on a single worker goroutine. Tasks are buffered locally
// and handed to the worker in batches by flush.
type stream struct {
	logger  *slog.Logger
	metrics *metrics

	pending    []task
	maxPending int

	batches chan []task
	done    chan struct{}

	// owned by the worker
	elapsed time.Duration
	err     error
}

func newStream(logger *slog.Logger, metrics *metrics, maxPending, queueDepth int) *stream {
	s := &stream{
		logger:     logger,
		metrics:    metrics,
		maxPending: maxPending,
		batches:    make(chan []task, queueDepth),
		done:       make(chan struct{}),
	}

	go s.worker()

	return s
}

func (s *stream) worker() {
	for batch := range s.batches {
		for _, t := range batch {
			s.metrics.tasks.WithLabelValues(t.kind).Inc()

			if t.sync != nil {
				t.sync.Resolve(s.elapsed, s.err)
				s.elapsed = 0
				s.err = nil
				continue
			}

			start := time.Now()
			err := s.run(t)
			s.elapsed += time.Since(start)

			if err != nil && s.err == nil {
				s.err = err
			}
		}
	}
	close(s.done)
}

func (s *stream) run(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.faults.Inc()
			err = errors.Wrapf(ErrKernelFault, "%s task panicked: %s", t.kind, fmt.Sprint(r))
			s.logger.LogAttrs(context.Background(), slog.LevelWarn, "task panicked",
				slog.String("kind", t.kind),
				slog.Any("panic", r),
			)
		}
	}()

	return t.run()
}

func (s *stream) submit(t task) {
	s.pending = append(s.pending, t)
	if len(s.pending) >= s.maxPending {
		s.flush()
	}
}

func (s *stream) flush() {
	if len(s.pending) == 0 {
		return
	}

	s.batches <- s.pending
	s.pending = nil
}

func (s *stream) sync() *server.Future[time.Duration] {
	future := server.NewFuture[time.Duration]()
	s.submit(task{kind: taskSync, sync: future})
	s.flush()
	return future
}

// close flushes everything pending and waits for the worker to finish
func (s *stream) close() {
	s.flush()
	close(s.batches)
	<-s.done
}
