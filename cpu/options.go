package cpu

import (
	"math"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vkngwrapper/arsenal/compute/memory"
)

const (
	// DefaultMaxTasksPerFlush is the number of tasks buffered locally before they are handed to the
	// stream worker without an explicit Flush
	DefaultMaxTasksPerFlush = 32
	// DefaultQueueDepth is the number of flushed batches that may wait on the stream worker before Flush blocks
	DefaultQueueDepth = 64
	// DefaultMaxCubesPerLaunch is the largest number of cubes a single execution may launch
	DefaultMaxCubesPerLaunch = math.MaxInt32
)

// CreateOptions contains optional settings when creating a Server
type CreateOptions struct {
	// Memory configures the memory management slices are reserved from
	Memory memory.Options
	// MemoryLimit is the maximum number of bytes of host memory the server may allocate. 0 indicates
	// no limit.
	MemoryLimit int
	// Workers is the number of goroutines a single kernel execution is spread across. Defaults to GOMAXPROCS.
	Workers int
	// MaxTasksPerFlush is the number of tasks that may be buffered before they are flushed automatically.
	// Defaults to DefaultMaxTasksPerFlush.
	MaxTasksPerFlush int
	// QueueDepth is the number of flushed batches that may be waiting on the stream. Defaults to
	// DefaultQueueDepth.
	QueueDepth int
	// MaxCubesPerLaunch is the largest number of cubes a single execution may launch. Executions over
	// the limit are rejected with server.ErrInvalidCubeCount. Defaults to DefaultMaxCubesPerLaunch.
	MaxCubesPerLaunch int
	// Registerer receives the server's metrics. If nil, metrics are collected but not registered.
	Registerer prometheus.Registerer
}

func (o CreateOptions) withDefaults() (CreateOptions, error) {
	if o.MemoryLimit < 0 || o.Workers < 0 || o.MaxTasksPerFlush < 0 || o.QueueDepth < 0 || o.MaxCubesPerLaunch < 0 {
		return o, errors.Newf("CreateOptions fields must be 0 or positive: %+v", o)
	}

	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.MaxTasksPerFlush == 0 {
		o.MaxTasksPerFlush = DefaultMaxTasksPerFlush
	}
	if o.QueueDepth == 0 {
		o.QueueDepth = DefaultQueueDepth
	}
	if o.MaxCubesPerLaunch == 0 {
		o.MaxCubesPerLaunch = DefaultMaxCubesPerLaunch
	}

	return o, nil
}
