package storage

import "github.com/pkg/errors"

// ErrOutOfMemory is returned from ComputeStorage.Alloc, or wrapped by callers that propagate it, when
// there is not enough memory remaining to satisfy an allocation
var ErrOutOfMemory error = errors.New("out of device memory")
