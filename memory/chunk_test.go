package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/arsenal/compute/storage"
)

func testChunk(size int) *chunk {
	var ids storage.IDPool
	return newChunk(storage.NewHandle(ids.Next(), storage.FullUtilization(size)), false)
}

func TestChunkFirstFit(t *testing.T) {
	c := testChunk(100)

	offset, ok := c.Alloc(30)
	require.True(t, ok)
	require.Equal(t, 0, offset)

	offset, ok = c.Alloc(30)
	require.True(t, ok)
	require.Equal(t, 30, offset)

	_, ok = c.Alloc(50)
	require.False(t, ok)

	offset, ok = c.Alloc(40)
	require.True(t, ok)
	require.Equal(t, 60, offset)
	require.Equal(t, 0, c.SumFreeSize())
	require.Empty(t, c.freeRanges)
	require.NoError(t, c.Validate())
}

func TestChunkFreeMerges(t *testing.T) {
	c := testChunk(100)

	a, _ := c.Alloc(20)
	b, _ := c.Alloc(20)
	d, _ := c.Alloc(20)
	_, _ = c.Alloc(40)

	c.Free(a, 20)
	require.Equal(t, []freeRange{{0, 20}}, c.freeRanges)

	c.Free(d, 20)
	require.Equal(t, []freeRange{{0, 20}, {40, 20}}, c.freeRanges)

	// Freeing the middle merges both neighbors into one range
	c.Free(b, 20)
	require.Equal(t, []freeRange{{0, 60}}, c.freeRanges)
	require.Equal(t, 1, c.sliceCount)
	require.NoError(t, c.Validate())
}

func TestChunkFreeMergesForward(t *testing.T) {
	c := testChunk(60)

	a, _ := c.Alloc(20)
	b, _ := c.Alloc(20)

	c.Free(b, 20)
	require.Equal(t, []freeRange{{20, 40}}, c.freeRanges)

	c.Free(a, 20)
	require.Equal(t, []freeRange{{0, 60}}, c.freeRanges)
	require.True(t, c.IsEmpty())
	require.NoError(t, c.Validate())
}

func TestChunkReusesFreedRange(t *testing.T) {
	c := testChunk(64)

	a, _ := c.Alloc(32)
	_, _ = c.Alloc(32)
	c.Free(a, 32)

	offset, ok := c.Alloc(16)
	require.True(t, ok)
	require.Equal(t, 0, offset)
	require.Equal(t, []freeRange{{16, 16}}, c.freeRanges)
}

func TestChunkFreeBetweenRangesKeepsOrder(t *testing.T) {
	c := testChunk(100)

	a, _ := c.Alloc(20)
	b, _ := c.Alloc(20)
	d, _ := c.Alloc(20)
	_, _ = c.Alloc(20)

	c.Free(d, 20)
	c.Free(a, 20)
	require.Equal(t, []freeRange{{0, 20}, {40, 20}, {80, 20}}, c.freeRanges)

	require.Panics(t, func() {
		c.Free(a, 20)
	})

	c.Free(b, 20)
	require.Equal(t, []freeRange{{0, 60}, {80, 20}}, c.freeRanges)
	require.NoError(t, c.Validate())
}

func TestChunkValidateDetectsUnmergedRanges(t *testing.T) {
	c := testChunk(64)
	_, _ = c.Alloc(64)
	c.freeRanges = []freeRange{{0, 16}, {16, 16}}
	c.usedBytes = 32

	require.Error(t, c.Validate())
}

func TestAlignUp(t *testing.T) {
	require.Equal(t, 0, AlignUp(0, 32))
	require.Equal(t, 32, AlignUp(1, 32))
	require.Equal(t, 32, AlignUp(32, 32))
	require.Equal(t, 64, AlignUp(33, 32))
	require.Equal(t, uint(8), AlignUp(uint(5), uint(4)))
}

func TestCheckPow2(t *testing.T) {
	require.NoError(t, CheckPow2(1, "one"))
	require.NoError(t, CheckPow2(64, "sixty-four"))
	require.ErrorIs(t, CheckPow2(48, "forty-eight"), ErrNotPowerOfTwo)
	require.ErrorIs(t, CheckPow2(0, "zero"), ErrNotPowerOfTwo)
}
