package cpu

import "github.com/pkg/errors"

// ErrBoundsViolation is reported by Sync when a kernel executed in checked mode attempted to access
// memory outside one of its bindings. The offending access was skipped.
var ErrBoundsViolation error = errors.New("out-of-bounds access in checked kernel execution")

// ErrKernelFault is reported by Sync when a kernel panicked while executing
var ErrKernelFault error = errors.New("kernel faulted during execution")

// ErrClosed is returned by operations on a Server that has been closed
var ErrClosed error = errors.New("cpu server is closed")
