package server

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	"github.com/cockroachdb/errors"
)

// DynamicCubeCountSize is the number of bytes read from a binding to determine a dynamic CubeCount
const DynamicCubeCountSize = 12

// Shape is the number of cubes to launch along each axis
type Shape struct {
	X, Y, Z uint32
}

// Total is the number of cubes in the shape. Shapes whose total does not fit in an int return an error
// matching ErrInvalidCubeCount.
func (s Shape) Total() (int, error) {
	_, xy := bits.Mul64(uint64(s.X), uint64(s.Y))
	hi, total := bits.Mul64(xy, uint64(s.Z))
	if hi != 0 || total > math.MaxInt {
		return 0, errors.Wrapf(ErrInvalidCubeCount, "%s cubes overflow int", s)
	}

	return int(total), nil
}

// Pos returns the position of the cube at a linear index within the shape, x-major. The shape's Total
// must not have failed.
func (s Shape) Pos(index int) Shape {
	x := uint32(index % int(s.X))
	y := uint32(index / int(s.X) % int(s.Y))
	z := uint32(index / (int(s.X) * int(s.Y)))
	return Shape{X: x, Y: y, Z: z}
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.X, s.Y, s.Z)
}

// CubeCount is the launch shape of a kernel execution: either known at submission (StaticCubeCount)
// or read from device memory when the execution runs (DynamicCubeCount)
type CubeCount struct {
	dynamic bool
	shape   Shape
	binding Binding
}

// StaticCubeCount launches x*y*z cubes
func StaticCubeCount(x, y, z uint32) CubeCount {
	return CubeCount{shape: Shape{X: x, Y: y, Z: z}}
}

// DynamicCubeCount launches a number of cubes read from the first DynamicCubeCountSize bytes of the
// binding, as three little-endian uint32 values. The bytes are read after every earlier submission
// on the same channel has run.
func DynamicCubeCount(binding Binding) CubeCount {
	return CubeCount{dynamic: true, binding: binding}
}

// IsDynamic returns true if the count is read from device memory
func (c CubeCount) IsDynamic() bool {
	return c.dynamic
}

// Shape returns the launch shape of a static count. It panics if the count is dynamic.
func (c CubeCount) Shape() Shape {
	if c.dynamic {
		panic("attempted to retrieve the shape of a dynamic cube count")
	}
	return c.shape
}

// Binding returns the binding a dynamic count is read from. It panics if the count is static.
func (c CubeCount) Binding() Binding {
	if !c.dynamic {
		panic("attempted to retrieve the binding of a static cube count")
	}
	return c.binding
}

func (c CubeCount) String() string {
	if c.dynamic {
		return "Dynamic"
	}
	return "Static" + c.shape.String()
}

// ParseShape decodes a launch shape from the bytes backing a dynamic cube count
func ParseShape(data []byte) (Shape, error) {
	if len(data) < DynamicCubeCountSize {
		return Shape{}, errors.Wrapf(ErrInvalidCubeCount, "dynamic cube count requires %d bytes, but the binding has %d", DynamicCubeCountSize, len(data))
	}

	shape := Shape{
		X: binary.LittleEndian.Uint32(data[0:]),
		Y: binary.LittleEndian.Uint32(data[4:]),
		Z: binary.LittleEndian.Uint32(data[8:]),
	}
	if _, err := shape.Total(); err != nil {
		return Shape{}, err
	}

	return shape, nil
}
