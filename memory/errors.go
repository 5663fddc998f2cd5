package memory

import "github.com/pkg/errors"

// ErrNotPowerOfTwo is returned from CheckPow2, or from option validation, when a number is required to
// be a power of two and is not
var ErrNotPowerOfTwo error = errors.New("number must be a power of two")

// ErrUnknownSlice is returned when resolving a SliceBinding whose slice has been released and reclaimed
var ErrUnknownSlice error = errors.New("binding does not refer to a live slice")
