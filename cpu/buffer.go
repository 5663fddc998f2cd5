package cpu

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

type boundsViolation struct {
	index int
	width int
}

// Buffer is a kernel's view of one of its bindings. Typed accessors index by element: Uint32(i) reads
// the 4 bytes at byte offset 4*i. All values are little-endian.
//
// A checked Buffer skips any access that would leave the binding, reads zero in its place, and records
// the first such access. An unchecked Buffer addresses everything from the binding's start to the end
// of its physical allocation, so accesses beyond the binding silently touch neighboring memory.
type Buffer struct {
	data    []byte
	size    int
	checked bool

	violation atomic.Pointer[boundsViolation]
}

func newBuffer(data []byte, size int, checked bool) *Buffer {
	return &Buffer{data: data, size: size, checked: checked}
}

// Len returns the size of the binding in bytes
func (b *Buffer) Len() int {
	return b.size
}

// access reports whether the element of the given width at index lies within the binding. Bounds are
// compared in element units so that no byte offset is computed for an out-of-range index.
func (b *Buffer) access(index, width int) bool {
	if !b.checked {
		return true
	}

	if index >= 0 && b.size >= width && index <= (b.size-width)/width {
		return true
	}

	b.violation.CompareAndSwap(nil, &boundsViolation{index: index, width: width})
	return false
}

func (b *Buffer) firstViolation() *boundsViolation {
	return b.violation.Load()
}

// Byte reads the byte at index
func (b *Buffer) Byte(index int) byte {
	if !b.access(index, 1) {
		return 0
	}
	return b.data[index]
}

// SetByte writes the byte at index
func (b *Buffer) SetByte(index int, value byte) {
	if !b.access(index, 1) {
		return
	}
	b.data[index] = value
}

// Uint32 reads the uint32 element at index
func (b *Buffer) Uint32(index int) uint32 {
	if !b.access(index, 4) {
		return 0
	}
	return binary.LittleEndian.Uint32(b.data[index*4:])
}

// SetUint32 writes the uint32 element at index
func (b *Buffer) SetUint32(index int, value uint32) {
	if !b.access(index, 4) {
		return
	}
	binary.LittleEndian.PutUint32(b.data[index*4:], value)
}

// Float32 reads the float32 element at index
func (b *Buffer) Float32(index int) float32 {
	return math.Float32frombits(b.Uint32(index))
}

// SetFloat32 writes the float32 element at index
func (b *Buffer) SetFloat32(index int, value float32) {
	b.SetUint32(index, math.Float32bits(value))
}
