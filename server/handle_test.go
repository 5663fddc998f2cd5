package server_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/arsenal/compute/memory"
	"github.com/vkngwrapper/arsenal/compute/server"
	"github.com/vkngwrapper/arsenal/compute/storage"
	"golang.org/x/exp/slog"
)

func readyHandle(t *testing.T, size int) (*memory.Management[storage.BytesResource], server.Handle) {
	store, err := storage.NewBytesStorage(slog.Default(), storage.BytesStorageOptions{})
	require.NoError(t, err)

	management, err := memory.New[storage.BytesResource](slog.Default(), store, memory.Options{ChunkSize: 1024})
	require.NoError(t, err)

	slice, err := management.Reserve(size)
	require.NoError(t, err)

	return management, server.NewHandle(slice)
}

func TestHandleOffsetsCompose(t *testing.T) {
	management, handle := readyHandle(t, 100)

	trimmed := handle.OffsetStart(10).OffsetEnd(20).OffsetStart(5)
	require.Equal(t, 65, trimmed.Size())
	require.Equal(t, 100, handle.Size())

	binding := trimmed.Binding()
	require.Equal(t, 15, binding.OffsetStart)
	require.Equal(t, 20, binding.OffsetEnd)
	require.Equal(t, 65, binding.Size())

	resolved, err := management.Get(binding.Memory)
	require.NoError(t, err)
	start, end := binding.Apply(resolved).Range()
	require.Equal(t, 15, start)
	require.Equal(t, 80, end)

	handle.Release()
	require.NoError(t, management.Destroy())
}

func TestHandleOffsetPastSizePanics(t *testing.T) {
	management, handle := readyHandle(t, 16)

	require.Panics(t, func() {
		handle.OffsetStart(17)
	})
	require.Panics(t, func() {
		handle.OffsetStart(10).OffsetEnd(7)
	})
	require.Panics(t, func() {
		handle.OffsetEnd(-1)
	})
	require.Equal(t, 0, handle.OffsetStart(8).OffsetEnd(8).Size())

	handle.Release()
	require.NoError(t, management.Destroy())
}

func TestHandleCanMutate(t *testing.T) {
	management, handle := readyHandle(t, 16)
	require.True(t, handle.CanMutate())

	clone := handle.OffsetStart(4).Clone()
	require.False(t, handle.CanMutate())
	require.False(t, clone.CanMutate())
	require.Equal(t, 12, clone.Size())

	clone.Release()
	require.True(t, handle.CanMutate())

	handle.Release()
	require.NoError(t, management.Destroy())
}
