package server

import "github.com/pkg/errors"

// ErrInvalidCubeCount is returned when a launch shape has more cubes than can be launched
var ErrInvalidCubeCount error = errors.New("invalid cube count")
