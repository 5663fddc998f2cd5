package memory

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/arsenal/compute/storage"
	"golang.org/x/exp/slices"
)

type freeRange struct {
	offset int
	size   int
}

// chunk is a single storage allocation that slices are carved out of. Free space is kept as a list of
// ranges sorted by offset, with adjacent ranges always merged.
type chunk struct {
	handle    storage.Handle
	dedicated bool

	freeRanges []freeRange
	sliceCount int
	usedBytes  int
}

func newChunk(handle storage.Handle, dedicated bool) *chunk {
	return &chunk{
		handle:     handle,
		dedicated:  dedicated,
		freeRanges: []freeRange{{offset: 0, size: handle.Size()}},
	}
}

func (c *chunk) Size() int {
	return c.handle.Size()
}

func (c *chunk) IsEmpty() bool {
	return c.sliceCount == 0
}

func (c *chunk) SumFreeSize() int {
	return c.Size() - c.usedBytes
}

// MayHaveFreeRange is a fast check that never returns false when an allocation of size could succeed
func (c *chunk) MayHaveFreeRange(size int) bool {
	return c.SumFreeSize() >= size
}

// Alloc finds the first free range that can hold size bytes and takes them from its front
func (c *chunk) Alloc(size int) (int, bool) {
	if !c.MayHaveFreeRange(size) {
		return 0, false
	}

	index := slices.IndexFunc(c.freeRanges, func(r freeRange) bool {
		return r.size >= size
	})
	if index < 0 {
		return 0, false
	}

	offset := c.freeRanges[index].offset
	if c.freeRanges[index].size == size {
		c.freeRanges = slices.Delete(c.freeRanges, index, index+1)
	} else {
		c.freeRanges[index].offset += size
		c.freeRanges[index].size -= size
	}

	c.sliceCount++
	c.usedBytes += size
	return offset, true
}

// Free returns a range to the chunk, merging it with its neighbors
func (c *chunk) Free(offset, size int) {
	index, found := slices.BinarySearchFunc(c.freeRanges, offset, func(r freeRange, target int) int {
		return r.offset - target
	})
	if found {
		panic(fmt.Sprintf("attempted to free offset %d of chunk %s, which is already free", offset, c.handle.ID))
	}

	mergePrev := index > 0 && c.freeRanges[index-1].offset+c.freeRanges[index-1].size == offset
	mergeNext := index < len(c.freeRanges) && offset+size == c.freeRanges[index].offset

	switch {
	case mergePrev && mergeNext:
		c.freeRanges[index-1].size += size + c.freeRanges[index].size
		c.freeRanges = slices.Delete(c.freeRanges, index, index+1)
	case mergePrev:
		c.freeRanges[index-1].size += size
	case mergeNext:
		c.freeRanges[index].offset = offset
		c.freeRanges[index].size += size
	default:
		c.freeRanges = slices.Insert(c.freeRanges, index, freeRange{offset: offset, size: size})
	}

	c.sliceCount--
	c.usedBytes -= size
}

func (c *chunk) Validate() error {
	if c.sliceCount < 0 {
		return errors.Newf("chunk %s has a negative slice count %d", c.handle.ID, c.sliceCount)
	}

	freeBytes := 0
	lastEnd := -1
	for _, r := range c.freeRanges {
		if r.size <= 0 {
			return errors.Newf("chunk %s has an empty free range at offset %d", c.handle.ID, r.offset)
		}
		if r.offset <= lastEnd {
			return errors.Newf("chunk %s has free ranges that are unsorted, overlapping or unmerged at offset %d", c.handle.ID, r.offset)
		}
		lastEnd = r.offset + r.size
		freeBytes += r.size
	}

	if lastEnd > c.Size() {
		return errors.Newf("chunk %s has a free range that ends at %d, past its size %d", c.handle.ID, lastEnd, c.Size())
	}

	if freeBytes != c.SumFreeSize() {
		return errors.Newf("chunk %s has %d bytes in free ranges, but %d bytes are expected to be free", c.handle.ID, freeBytes, c.SumFreeSize())
	}

	if c.sliceCount == 0 && c.usedBytes != 0 {
		return errors.Newf("chunk %s has no slices but %d bytes in use", c.handle.ID, c.usedBytes)
	}

	return nil
}

func (c *chunk) printParameters(json *jwriter.ObjectState) {
	json.Name("Id").String(c.handle.ID.String())
	json.Name("TotalBytes").Int(c.Size())
	json.Name("UnusedBytes").Int(c.SumFreeSize())
	json.Name("Slices").Int(c.sliceCount)
	json.Name("UnusedRanges").Int(len(c.freeRanges))
	json.Name("Dedicated").Bool(c.dedicated)
}

func (c *chunk) printFreeRanges(json *jwriter.ArrayState) {
	for _, r := range c.freeRanges {
		obj := json.Object()
		obj.Name("Offset").Int(r.offset)
		obj.Name("Size").Int(r.size)
		obj.End()
	}
}
