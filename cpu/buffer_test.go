package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckedBufferRecordsFirstViolation(t *testing.T) {
	buffer := newBuffer(make([]byte, 8), 8, true)

	buffer.SetUint32(1, 7)
	require.Equal(t, uint32(7), buffer.Uint32(1))
	require.Nil(t, buffer.firstViolation())

	buffer.SetUint32(2, 9)
	require.Equal(t, uint32(0), buffer.Uint32(-1))
	require.Equal(t, byte(0), buffer.Byte(8))

	violation := buffer.firstViolation()
	require.NotNil(t, violation)
	require.Equal(t, 2, violation.index)
	require.Equal(t, 4, violation.width)
}

func TestCheckedBufferRejectsWrappingIndex(t *testing.T) {
	data := []byte{1, 0, 0, 0, 2, 0, 0, 0}
	buffer := newBuffer(data, 8, true)

	buffer.SetUint32(1<<62, 0xdead)
	buffer.SetUint32(-(1 << 62), 0xbeef)
	require.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0}, data)

	violation := buffer.firstViolation()
	require.NotNil(t, violation)
	require.Equal(t, 1<<62, violation.index)
}

func TestCheckedBufferSmallerThanElement(t *testing.T) {
	buffer := newBuffer(make([]byte, 2), 2, true)

	require.Equal(t, uint32(0), buffer.Uint32(0))
	require.NotNil(t, buffer.firstViolation())
	require.Equal(t, byte(0), buffer.Byte(1))
}

func TestCheckedBufferUnalignedSize(t *testing.T) {
	buffer := newBuffer(make([]byte, 10), 10, true)

	buffer.SetUint32(1, 3)
	require.Nil(t, buffer.firstViolation())

	buffer.SetUint32(2, 3)
	require.NotNil(t, buffer.firstViolation())
}

func TestUncheckedBufferReachesPastBinding(t *testing.T) {
	data := make([]byte, 16)
	buffer := newBuffer(data, 4, false)

	buffer.SetFloat32(2, 1.5)
	require.Equal(t, float32(1.5), buffer.Float32(2))
	require.Equal(t, 4, buffer.Len())
	require.Nil(t, buffer.firstViolation())
	require.NotZero(t, data[11])
}
