package storage

import (
	"fmt"
)

type utilizationKind byte

const (
	utilizationFull utilizationKind = iota
	utilizationSlice
)

var utilizationKindMapping = make(map[utilizationKind]string)

func (k utilizationKind) String() string {
	return utilizationKindMapping[k]
}

func init() {
	utilizationKindMapping[utilizationFull] = "Full"
	utilizationKindMapping[utilizationSlice] = "Slice"
}

// Utilization describes how a Handle addresses the memory of its StorageID: either the entire allocation
// (see FullUtilization) or a byte range within it (see SliceUtilization).
type Utilization struct {
	kind   utilizationKind
	offset int
	size   int
}

// FullUtilization creates a Utilization spanning an entire allocation of size bytes
func FullUtilization(size int) Utilization {
	if size < 0 {
		panic(fmt.Sprintf("attempted to create a full utilization with negative size %d", size))
	}
	return Utilization{kind: utilizationFull, size: size}
}

// SliceUtilization creates a Utilization spanning the bytes [offset, offset+size) within an allocation
func SliceUtilization(offset, size int) Utilization {
	if offset < 0 || size < 0 {
		panic(fmt.Sprintf("attempted to create a slice utilization with offset %d and size %d", offset, size))
	}
	return Utilization{kind: utilizationSlice, offset: offset, size: size}
}

// IsFull returns true if this Utilization spans an entire allocation
func (u Utilization) IsFull() bool {
	return u.kind == utilizationFull
}

func (u Utilization) String() string {
	if u.kind == utilizationFull {
		return fmt.Sprintf("Full(%d)", u.size)
	}
	return fmt.Sprintf("Slice{%d, %d}", u.offset, u.size)
}

// Handle pairs a StorageID with the Utilization describing which of its bytes are addressed.
//
// Handles are values: copying one does not allocate, and no Handle is ever freed individually. Any number
// of Handles may address the same StorageID at once, and writes through one are visible through all of
// them. Only ComputeStorage.Dealloc, called with the StorageID, releases memory.
type Handle struct {
	ID          StorageID
	Utilization Utilization
}

// NewHandle creates a Handle from an id and a utilization
func NewHandle(id StorageID, utilization Utilization) Handle {
	return Handle{ID: id, Utilization: utilization}
}

// Size returns the number of bytes the handle addresses, regardless of utilization
func (h Handle) Size() int {
	return h.Utilization.size
}

// Offset returns the offset in bytes of the start of a sliced handle within its allocation. Handles with
// full utilization have not been sliced and do not have an offset: calling Offset on one panics.
func (h Handle) Offset() int {
	if h.Utilization.kind == utilizationFull {
		panic(fmt.Sprintf("attempted to retrieve the offset of %s, which has full utilization", h))
	}
	return h.Utilization.offset
}

// start is the offset of the handle's first byte within its allocation, which is 0 for full handles
func (h Handle) start() int {
	if h.Utilization.kind == utilizationFull {
		return 0
	}
	return h.Utilization.offset
}

func (h Handle) checkShrink(method string, bytes int) {
	if bytes < 0 || bytes > h.Size() {
		panic(fmt.Sprintf("%s(%d) called on %s, which is only %d bytes", method, bytes, h, h.Size()))
	}
}

// OffsetStart returns a handle to the same allocation whose region begins bytes later and is bytes smaller.
// The result is always a slice. Shrinking by the handle's full size produces a valid empty slice; shrinking
// by more than that, or by a negative amount, panics.
func (h Handle) OffsetStart(bytes int) Handle {
	h.checkShrink("OffsetStart", bytes)

	return Handle{
		ID:          h.ID,
		Utilization: SliceUtilization(h.start()+bytes, h.Size()-bytes),
	}
}

// OffsetEnd returns a handle to the same allocation whose region begins at the same place but is bytes
// smaller. The result is always a slice. Shrinking by the handle's full size produces a valid empty slice;
// shrinking by more than that, or by a negative amount, panics.
func (h Handle) OffsetEnd(bytes int) Handle {
	h.checkShrink("OffsetEnd", bytes)

	return Handle{
		ID:          h.ID,
		Utilization: SliceUtilization(h.start(), h.Size()-bytes),
	}
}

// Range returns the first byte and one-past-the-last byte addressed by the handle within its allocation
func (h Handle) Range() (int, int) {
	start := h.start()
	return start, start + h.Size()
}

func (h Handle) String() string {
	return fmt.Sprintf("%s %s", h.ID, h.Utilization)
}
