package interaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/motion-protocol/motion-go/pkg/device"
	"github.com/motion-protocol/motion-go/pkg/interaction"
	"github.com/motion-protocol/motion-go/pkg/interaction/mocks"
	"github.com/motion-protocol/motion-go/pkg/log"
	"github.com/motion-protocol/motion-go/pkg/protocol"
	"github.com/motion-protocol/motion-go/pkg/wire"
)

func newLauncher(t *testing.T) *protocol.DeviceProtocol {
	t.Helper()
	p, err := protocol.New[*device.Simulated]("launch", device.NewSimulated("launch", "sim:1"), protocol.CapLinear)
	require.NoError(t, err)
	return p
}

func connectedClient(t *testing.T, cfg interaction.ClientConfig) *interaction.Client {
	t.Helper()
	c := interaction.NewClient(cfg)
	require.NoError(t, c.Connect(context.Background(), "local"))
	t.Cleanup(c.Disconnect)
	return c
}

func TestClientSendWhileDisconnected(t *testing.T) {
	c := interaction.NewClient(interaction.DefaultClientConfig())

	resp, err := c.Send(context.Background(), &wire.RequestDeviceList{ID: 1})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, interaction.ErrNotConnected)
	assert.Equal(t, interaction.StateDisconnected, c.State())
	assert.Nil(t, c.Server())
}

func TestClientConnectRunsInitializerOnce(t *testing.T) {
	initializer := mocks.NewMockInitializer(t)
	initializer.EXPECT().InitializeConnection(mock.Anything).Return(nil).Once()

	cfg := interaction.DefaultClientConfig()
	cfg.Initializer = initializer
	c := connectedClient(t, cfg)

	assert.Equal(t, interaction.StateConnected, c.State())
	assert.True(t, c.Connected())
	assert.NotNil(t, c.Server())
}

func TestClientInitializerCanSend(t *testing.T) {
	cfg := interaction.DefaultClientConfig()
	var c *interaction.Client

	var handshake wire.Message
	initializer := mocks.NewMockInitializer(t)
	initializer.EXPECT().InitializeConnection(mock.Anything).RunAndReturn(func(ctx context.Context) error {
		resp, err := c.Send(ctx, &wire.RequestDeviceList{ID: c.NextMessageID()})
		handshake = resp
		return err
	}).Once()

	cfg.Initializer = initializer
	c = interaction.NewClient(cfg)
	require.NoError(t, c.Connect(context.Background(), "local"))
	defer c.Disconnect()

	list, ok := handshake.(*wire.DeviceList)
	require.True(t, ok, "expected DeviceList, got %T", handshake)
	assert.Empty(t, list.Devices)
}

func TestClientConnectInitializerFailure(t *testing.T) {
	boom := errors.New("handshake refused")
	initializer := mocks.NewMockInitializer(t)
	initializer.EXPECT().InitializeConnection(mock.Anything).Return(boom).Once()

	cfg := interaction.DefaultClientConfig()
	cfg.Initializer = initializer
	c := interaction.NewClient(cfg)

	closed := 0
	c.OnClosed(func() { closed++ })

	err := c.Connect(context.Background(), "local")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, interaction.StateDisconnected, c.State())
	assert.Equal(t, 1, closed)
}

func TestClientDisconnectFiresClosedOnce(t *testing.T) {
	c := interaction.NewClient(interaction.DefaultClientConfig())
	closed := 0
	c.OnClosed(func() { closed++ })

	// Not connected yet: nothing to close.
	c.Disconnect()
	assert.Equal(t, 0, closed)

	require.NoError(t, c.Connect(context.Background(), "local"))
	c.Disconnect()
	c.Disconnect()

	assert.Equal(t, 1, closed)
	assert.Equal(t, interaction.StateDisconnected, c.State())

	_, err := c.Send(context.Background(), &wire.RequestDeviceList{ID: 1})
	assert.ErrorIs(t, err, interaction.ErrNotConnected)
}

func TestClientLinearRoundTrip(t *testing.T) {
	c := connectedClient(t, interaction.DefaultClientConfig())
	p := newLauncher(t)
	idx := c.Server().AddDevice(p)

	var events []protocol.LinearEvent
	p.OnLinear(func(e protocol.LinearEvent) { events = append(events, e) })

	id := c.NextMessageID()
	resp, err := c.Send(context.Background(), &wire.LinearCmd{
		ID:          id,
		DeviceIndex: idx,
		Vectors:     []wire.LinearVector{{Duration: 500, Position: 0.5}},
	})
	require.NoError(t, err)
	assert.Equal(t, &wire.Ok{ID: id}, resp)

	require.Len(t, events, 1)
	assert.Equal(t, uint8(49), events[0].Position)
	assert.Equal(t, uint8(19), events[0].Speed)
}

func TestClientErrorResponses(t *testing.T) {
	c := connectedClient(t, interaction.DefaultClientConfig())
	idx := c.Server().AddDevice(newLauncher(t))
	ctx := context.Background()

	t.Run("vector count", func(t *testing.T) {
		resp, err := c.Send(ctx, &wire.LinearCmd{ID: 10, DeviceIndex: idx, Vectors: []wire.LinearVector{
			{Duration: 100, Position: 0.1},
			{Duration: 100, Position: 0.9},
		}})
		require.Error(t, err)
		assert.ErrorIs(t, err, interaction.ErrDeviceRejected)

		var re *interaction.ResponseError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, uint32(10), re.ID)
		assert.Equal(t, wire.ErrorClassDevice, re.Class)
		assert.True(t, wire.IsError(resp))
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := c.Send(ctx, &wire.VibrateCmd{ID: 11, DeviceIndex: idx,
			Speeds: []wire.VibrateSubcommand{{Speed: 0.5}}})
		assert.ErrorIs(t, err, interaction.ErrMessageRejected)
	})

	t.Run("unknown device", func(t *testing.T) {
		_, err := c.Send(ctx, &wire.StopDeviceCmd{ID: 12, DeviceIndex: idx + 7})
		assert.ErrorIs(t, err, interaction.ErrDeviceRejected)
	})
}

func TestClientReconnectDiscardsDevices(t *testing.T) {
	c := connectedClient(t, interaction.DefaultClientConfig())
	c.Server().AddDevice(newLauncher(t))
	first := c.Server()

	require.NoError(t, c.Connect(context.Background(), "local"))
	assert.NotSame(t, first, c.Server())
	assert.Empty(t, c.Server().Devices())
}

func TestClientOnMessage(t *testing.T) {
	c := connectedClient(t, interaction.DefaultClientConfig())

	var seen []wire.Kind
	c.OnMessage(func(m wire.Message) { seen = append(seen, m.Kind()) })

	_, err := c.Send(context.Background(), &wire.RequestDeviceList{ID: c.NextMessageID()})
	require.NoError(t, err)
	assert.Equal(t, []wire.Kind{wire.KindDeviceList}, seen)
}

func TestClientSendCanceledContext(t *testing.T) {
	c := connectedClient(t, interaction.DefaultClientConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The response is published before Send selects, so either outcome is
	// valid; Send must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Send(ctx, &wire.RequestDeviceList{ID: 1})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on canceled context")
	}
}

func TestClientProtocolCapture(t *testing.T) {
	mem := &log.MemoryLogger{}
	cfg := interaction.DefaultClientConfig()
	cfg.ProtocolLogger = mem
	c := connectedClient(t, cfg)
	idx := c.Server().AddDevice(newLauncher(t))

	_, err := c.Send(context.Background(), &wire.StopDeviceCmd{ID: 3, DeviceIndex: idx})
	require.NoError(t, err)

	category := log.CategoryMessage
	msgs := mem.Filter(log.Filter{Category: &category})
	require.Len(t, msgs, 2)

	out, in := msgs[0], msgs[1]
	assert.Equal(t, log.DirectionOut, out.Direction)
	assert.Equal(t, wire.KindStopDeviceCmd, out.Message.Kind)
	require.NotNil(t, out.Message.DeviceIndex)
	assert.Equal(t, idx, *out.Message.DeviceIndex)

	assert.Equal(t, log.DirectionIn, in.Direction)
	assert.Equal(t, wire.KindOk, in.Message.Kind)
	assert.NotNil(t, in.Message.ProcessingTime)
	assert.Equal(t, out.ConnectionID, in.ConnectionID)
	assert.NotEmpty(t, out.ConnectionID)

	decoded, err := wire.Decode(out.Message.Data)
	require.NoError(t, err)
	assert.Equal(t, &wire.StopDeviceCmd{ID: 3, DeviceIndex: idx}, decoded)

	state := log.CategoryState
	changes := mem.Filter(log.Filter{Category: &state})
	require.NotEmpty(t, changes)
	assert.Equal(t, "CONNECTED", changes[0].StateChange.NewState)
}
