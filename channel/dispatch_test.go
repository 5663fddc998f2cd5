package channel_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/arsenal/compute/channel"
	"github.com/vkngwrapper/arsenal/compute/memory"
	"github.com/vkngwrapper/arsenal/compute/server"
	"github.com/vkngwrapper/arsenal/compute/server/mocks"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

type mockChannel = channel.ComputeChannel[string, []byte]

var mockChannels = []struct {
	name string
	open func(srv server.ComputeServer[string, []byte]) (mockChannel, func())
}{
	{
		name: "Mutex",
		open: func(srv server.ComputeServer[string, []byte]) (mockChannel, func()) {
			return channel.NewMutexChannel[string, []byte](srv), func() {}
		},
	},
	{
		name: "MPSC",
		open: func(srv server.ComputeServer[string, []byte]) (mockChannel, func()) {
			ch := channel.NewMPSCChannel[string, []byte](slog.Default(), srv, 4)
			return ch, ch.Close
		},
	},
}

func TestChannelForwardsInSubmissionOrder(t *testing.T) {
	for _, c := range mockChannels {
		c := c
		t.Run(c.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			srv := mocks.NewMockComputeServer[string, []byte](ctrl)

			binding := server.Binding{OffsetStart: 4}
			count := server.StaticCubeCount(2, 1, 1)
			usage := memory.Usage{NumberAllocs: 3}

			gomock.InOrder(
				srv.EXPECT().Create([]byte{1, 2}).Return(server.Handle{}, nil),
				srv.EXPECT().Empty(8).Return(server.Handle{}, nil),
				srv.EXPECT().Execute("kernel", count, []server.Binding{binding}, server.ExecutionModeUnchecked).Return(nil),
				srv.EXPECT().Flush().Return(nil),
				srv.EXPECT().Read(binding).Return(server.ResolvedFuture([]byte{9}, nil)),
				srv.EXPECT().GetResource(binding).Return(server.BindingResource[[]byte]{Resource: []byte{7}}, nil),
				srv.EXPECT().Sync().Return(server.ResolvedFuture(time.Second, nil)),
				srv.EXPECT().MemoryUsage().Return(usage),
			)

			ch, closeChannel := c.open(srv)
			defer closeChannel()

			_, err := ch.Create([]byte{1, 2})
			require.NoError(t, err)
			_, err = ch.Empty(8)
			require.NoError(t, err)
			require.NoError(t, ch.Execute("kernel", count, []server.Binding{binding}, server.ExecutionModeUnchecked))
			require.NoError(t, ch.Flush())

			data, err := ch.Read(context.Background(), binding)
			require.NoError(t, err)
			require.Equal(t, []byte{9}, data)

			resource, err := ch.GetResource(binding)
			require.NoError(t, err)
			require.Equal(t, []byte{7}, resource.Resource)

			elapsed, err := ch.Sync(context.Background())
			require.NoError(t, err)
			require.Equal(t, time.Second, elapsed)

			require.Equal(t, usage, ch.MemoryUsage())
		})
	}
}

func TestChannelPropagatesServerErrors(t *testing.T) {
	for _, c := range mockChannels {
		c := c
		t.Run(c.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			srv := mocks.NewMockComputeServer[string, []byte](ctrl)

			failed := errors.New("device lost")
			srv.EXPECT().Empty(4).Return(server.Handle{}, failed)
			srv.EXPECT().Execute("kernel", gomock.Any(), gomock.Any(), server.ExecutionModeChecked).Return(failed)
			srv.EXPECT().Sync().Return(server.ResolvedFuture[time.Duration](0, failed))

			ch, closeChannel := c.open(srv)
			defer closeChannel()

			_, err := ch.Empty(4)
			require.ErrorIs(t, err, failed)
			require.ErrorIs(t, ch.Execute("kernel", server.StaticCubeCount(1, 1, 1), nil, server.ExecutionModeChecked), failed)
			_, err = ch.Sync(context.Background())
			require.ErrorIs(t, err, failed)
		})
	}
}
