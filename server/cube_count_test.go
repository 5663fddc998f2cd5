package server_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/arsenal/compute/server"
)

func TestStaticCubeCount(t *testing.T) {
	count := server.StaticCubeCount(4, 3, 2)
	require.False(t, count.IsDynamic())
	total, err := count.Shape().Total()
	require.NoError(t, err)
	require.Equal(t, 24, total)
	require.Equal(t, "Static(4, 3, 2)", count.String())
	require.Panics(t, func() {
		count.Binding()
	})
}

func TestDynamicCubeCount(t *testing.T) {
	count := server.DynamicCubeCount(server.Binding{OffsetStart: 4})
	require.True(t, count.IsDynamic())
	require.Equal(t, 4, count.Binding().OffsetStart)
	require.Panics(t, func() {
		count.Shape()
	})
}

func TestShapePos(t *testing.T) {
	shape := server.Shape{X: 4, Y: 3, Z: 2}
	require.Equal(t, server.Shape{X: 0, Y: 0, Z: 0}, shape.Pos(0))
	require.Equal(t, server.Shape{X: 3, Y: 0, Z: 0}, shape.Pos(3))
	require.Equal(t, server.Shape{X: 1, Y: 1, Z: 0}, shape.Pos(5))
	require.Equal(t, server.Shape{X: 3, Y: 2, Z: 1}, shape.Pos(23))
}

func TestParseShape(t *testing.T) {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint32(data[0:], 7)
	binary.LittleEndian.PutUint32(data[4:], 1)
	binary.LittleEndian.PutUint32(data[8:], 2)

	shape, err := server.ParseShape(data)
	require.NoError(t, err)
	require.Equal(t, server.Shape{X: 7, Y: 1, Z: 2}, shape)

	_, err = server.ParseShape(data[:11])
	require.Error(t, err)
}

func TestExecutionModeString(t *testing.T) {
	require.Equal(t, "ExecutionModeChecked", server.ExecutionModeChecked.String())
	require.Equal(t, "ExecutionModeUnchecked", server.ExecutionModeUnchecked.String())
}

func TestShapeTotalOverflow(t *testing.T) {
	_, err := server.Shape{X: 1 << 21, Y: 1 << 21, Z: 1 << 21}.Total()
	require.ErrorIs(t, err, server.ErrInvalidCubeCount)

	_, err = server.Shape{X: math.MaxUint32, Y: math.MaxUint32, Z: math.MaxUint32}.Total()
	require.ErrorIs(t, err, server.ErrInvalidCubeCount)

	total, err := server.Shape{X: 0, Y: math.MaxUint32, Z: math.MaxUint32}.Total()
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestParseShapeRejectsOverflow(t *testing.T) {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:], 1<<21)
	binary.LittleEndian.PutUint32(data[4:], 1<<21)
	binary.LittleEndian.PutUint32(data[8:], 1<<21)

	_, err := server.ParseShape(data)
	require.ErrorIs(t, err, server.ErrInvalidCubeCount)
}
