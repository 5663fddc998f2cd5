package cpu

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vkngwrapper/arsenal/compute/memory"
	"github.com/vkngwrapper/arsenal/compute/server"
	"github.com/vkngwrapper/arsenal/compute/storage"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// Server is a ComputeServer that runs kernels on the host. Memory is reserved from a memory.Management
// backed by a storage.BytesStorage, and all work runs on a single ordered stream.
//
// Server is not safe for concurrent use. Wrap it in a channel to share it between goroutines.
type Server struct {
	logger  *slog.Logger
	options CreateOptions

	storage *storage.BytesStorage
	memory  *memory.Management[storage.BytesResource]
	stream  *stream
	metrics *metrics

	closed bool
}

var _ server.ComputeServer[Kernel, storage.BytesResource] = &Server{}

// New creates a Server and starts its stream worker
//
// logger - Memory lifecycle and kernel faults are logged here
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, options CreateOptions) (*Server, error) {
	options, err := options.withDefaults()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewBytesStorage(logger, storage.BytesStorageOptions{
		Flags: storage.BytesStorageExternallySynchronized,
		Limit: options.MemoryLimit,
	})
	if err != nil {
		return nil, err
	}

	memoryOptions := options.Memory
	memoryOptions.Flags |= memory.ManagementExternallySynchronized
	management, err := memory.New[storage.BytesResource](logger, store, memoryOptions)
	if err != nil {
		return nil, err
	}

	metrics, err := newMetrics(options.Registerer)
	if err != nil {
		return nil, err
	}

	return &Server{
		logger:  logger,
		options: options,
		storage: store,
		memory:  management,
		stream:  newStream(logger, metrics, options.MaxTasksPerFlush, options.QueueDepth),
		metrics: metrics,
	}, nil
}

// GetResource resolves a binding to the host memory it addresses
func (s *Server) GetResource(binding server.Binding) (server.BindingResource[storage.BytesResource], error) {
	if s.closed {
		return server.BindingResource[storage.BytesResource]{}, ErrClosed
	}

	handle, err := s.memory.Get(binding.Memory)
	if err != nil {
		return server.BindingResource[storage.BytesResource]{}, err
	}

	handle = binding.Apply(handle)
	return server.BindingResource[storage.BytesResource]{
		Resource: s.storage.Get(handle),
		Handle:   handle,
	}, nil
}

// Read copies the bytes addressed by binding once every earlier task has run
func (s *Server) Read(binding server.Binding) *server.Future[[]byte] {
	resource, err := s.GetResource(binding)
	if err != nil {
		return server.ResolvedFuture[[]byte](nil, err)
	}

	future := server.NewFuture[[]byte]()
	s.stream.submit(task{
		kind: taskRead,
		run: func() error {
			data := slices.Clone(resource.Resource.Bytes())
			s.metrics.read.Add(float64(len(data)))
			future.Resolve(data, nil)
			return nil
		},
	})
	s.stream.flush()

	return future
}

// Create reserves memory sized to data and schedules an upload of a copy of data into it
func (s *Server) Create(data []byte) (server.Handle, error) {
	handle, err := s.Empty(len(data))
	if err != nil {
		return server.Handle{}, err
	}

	resource, err := s.GetResource(handle.Binding())
	if err != nil {
		handle.Release()
		return server.Handle{}, err
	}

	upload := slices.Clone(data)
	s.stream.submit(task{
		kind: taskUpload,
		run: func() error {
			copy(resource.Resource.Bytes(), upload)
			s.metrics.uploaded.Add(float64(len(upload)))
			return nil
		},
	})

	return handle, nil
}

// Empty reserves size bytes of uninitialized memory
func (s *Server) Empty(size int) (server.Handle, error) {
	if s.closed {
		return server.Handle{}, ErrClosed
	}

	slice, err := s.memory.Reserve(size)
	if err != nil {
		return server.Handle{}, err
	}

	return server.NewHandle(slice), nil
}

// Execute schedules kernel over count. Bindings are resolved immediately, while a dynamic count is
// read when the task runs.
func (s *Server) Execute(kernel Kernel, count server.CubeCount, bindings []server.Binding, mode server.ExecutionMode) error {
	if s.closed {
		return ErrClosed
	}
	if kernel == nil {
		return errors.New("attempted to execute a nil kernel")
	}

	checked := mode == server.ExecutionModeChecked
	buffers := make([]*Buffer, 0, len(bindings))
	for index, binding := range bindings {
		resource, err := s.GetResource(binding)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve binding %d of kernel %s", index, kernel.Name())
		}

		data := resource.Resource.Bytes()
		if !checked {
			data = resource.Resource.Tail()
		}
		buffers = append(buffers, newBuffer(data, resource.Resource.Size, checked))
	}

	var countData []byte
	if !count.IsDynamic() {
		_, _, err := s.resolveShape(count, nil)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve the cube count of kernel %s", kernel.Name())
		}
	} else {
		resource, err := s.GetResource(count.Binding())
		if err != nil {
			return errors.Wrapf(err, "failed to resolve the cube count of kernel %s", kernel.Name())
		}
		countData = resource.Resource.Bytes()
	}

	s.stream.submit(task{
		kind: taskExecute,
		run: func() error {
			shape, total, err := s.resolveShape(count, countData)
			if err != nil {
				return errors.Wrapf(err, "failed to resolve the cube count of kernel %s", kernel.Name())
			}

			err = s.launch(kernel, shape, total, buffers)
			if err != nil {
				return err
			}

			return s.checkViolations(kernel, buffers)
		},
	})

	return nil
}

func (s *Server) resolveShape(count server.CubeCount, countData []byte) (server.Shape, int, error) {
	var shape server.Shape
	if count.IsDynamic() {
		var err error
		shape, err = server.ParseShape(countData)
		if err != nil {
			return server.Shape{}, 0, err
		}
	} else {
		shape = count.Shape()
	}

	total, err := shape.Total()
	if err != nil {
		return server.Shape{}, 0, err
	}
	if total > s.options.MaxCubesPerLaunch {
		return server.Shape{}, 0, errors.Wrapf(server.ErrInvalidCubeCount, "%s is %d cubes, but at most %d may be launched",
			shape, total, s.options.MaxCubesPerLaunch)
	}

	return shape, total, nil
}

func (s *Server) launch(kernel Kernel, shape server.Shape, total int, buffers []*Buffer) error {
	if total == 0 {
		return nil
	}

	workers := s.options.Workers
	if workers > total {
		workers = total
	}
	per := (total + workers - 1) / workers

	var group errgroup.Group
	for first := 0; first < total; first += per {
		first := first
		last := first + per
		if last > total {
			last = total
		}

		group.Go(func() error {
			return computeCubes(kernel, shape, buffers, first, last)
		})
	}

	err := group.Wait()
	if errors.Is(err, ErrKernelFault) {
		s.metrics.faults.Inc()
		s.logger.LogAttrs(context.Background(), slog.LevelWarn, "kernel panicked",
			slog.String("kernel", kernel.Name()),
			slog.String("error", err.Error()),
		)
	}

	return err
}

func computeCubes(kernel Kernel, shape server.Shape, buffers []*Buffer, first, last int) (err error) {
	index := first
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrKernelFault, "kernel %s panicked in cube %s: %s", kernel.Name(), shape.Pos(index), fmt.Sprint(r))
		}
	}()

	for ; index < last; index++ {
		kernel.Compute(shape.Pos(index), shape, buffers)
	}

	return nil
}

func (s *Server) checkViolations(kernel Kernel, buffers []*Buffer) error {
	for index, buffer := range buffers {
		violation := buffer.firstViolation()
		if violation == nil {
			continue
		}

		s.metrics.violations.Inc()
		s.logger.LogAttrs(context.Background(), slog.LevelWarn, "checked kernel attempted out-of-bounds access",
			slog.String("kernel", kernel.Name()),
			slog.Int("binding", index),
			slog.Int("element", violation.index),
			slog.Int("width", violation.width),
			slog.Int("size", buffer.Len()),
		)
		return errors.Wrapf(ErrBoundsViolation, "kernel %s accessed element %d (%d bytes wide) of binding %d, which is %d bytes",
			kernel.Name(), violation.index, violation.width, index, buffer.Len())
	}

	return nil
}

// Flush hands every buffered task to the stream worker
func (s *Server) Flush() error {
	if s.closed {
		return ErrClosed
	}

	s.stream.flush()
	return nil
}

// Sync resolves once every submitted task has run. The result is the time spent running tasks since
// the previous Sync, and the error is the first one any of those tasks reported.
func (s *Server) Sync() *server.Future[time.Duration] {
	if s.closed {
		return server.ResolvedFuture[time.Duration](0, ErrClosed)
	}

	return s.stream.sync()
}

// MemoryUsage reports the statistics of the server's memory management
func (s *Server) MemoryUsage() memory.Usage {
	if s.closed {
		return memory.Usage{}
	}

	return s.memory.Usage()
}

// BuildStatsString returns a JSON document describing the server's memory
func (s *Server) BuildStatsString(detailed bool) string {
	return s.memory.BuildStatsString(detailed)
}

// Collectors returns the server's metrics, for registries other than the one in CreateOptions
func (s *Server) Collectors() []prometheus.Collector {
	return s.metrics.collectors()
}

// Close waits for every submitted task to run, then releases all memory. Handles that were not
// released before Close are logged and reported as an error.
func (s *Server) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.stream.close()
	s.metrics.unregister(s.options.Registerer)

	err := s.memory.Destroy()
	return errors.CombineErrors(err, s.storage.Destroy())
}
