package protocol_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motion-protocol/motion-go/pkg/device"
	"github.com/motion-protocol/motion-go/pkg/protocol"
	"github.com/motion-protocol/motion-go/pkg/wire"
)

// otherDevice satisfies device.Device but is not a *device.Simulated.
type otherDevice struct{}

func (otherDevice) Name() string    { return "other" }
func (otherDevice) Address() string { return "" }

// recorder captures emitted motion events.
type recorder struct {
	vibrate []protocol.VibrateEvent
	rotate  []protocol.RotateEvent
	linear  []protocol.LinearEvent
}

func newProtocol(t *testing.T, caps protocol.Capabilities) (*protocol.DeviceProtocol, *recorder) {
	t.Helper()

	p, err := protocol.New[*device.Simulated]("Test Device", device.NewSimulated("Test Device", "00:11:22:33:44:55"), caps)
	require.NoError(t, err)

	rec := &recorder{}
	p.OnVibrate(func(e protocol.VibrateEvent) { rec.vibrate = append(rec.vibrate, e) })
	p.OnRotate(func(e protocol.RotateEvent) { rec.rotate = append(rec.rotate, e) })
	p.OnLinear(func(e protocol.LinearEvent) { rec.linear = append(rec.linear, e) })
	return p, rec
}

func handle(t *testing.T, p *protocol.DeviceProtocol, msg wire.Message) wire.Message {
	t.Helper()
	resp, err := p.HandleMessage(context.Background(), msg)
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

var (
	vibrateOnly = protocol.NewCapabilities(true, false, false)
	linearOnly  = protocol.NewCapabilities(false, true, false)
	rotateOnly  = protocol.NewCapabilities(false, false, true)
)

func TestNew_ConfigurationError(t *testing.T) {
	_, err := protocol.New[*device.Simulated]("Test Device", otherDevice{}, vibrateOnly)
	require.Error(t, err)
	assert.True(t, errors.Is(err, protocol.ErrConfiguration))

	var cfgErr *protocol.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "*device.Simulated", cfgErr.Expected)
	assert.Equal(t, "protocol_test.otherDevice", cfgErr.Actual)

	_, err = protocol.New[*device.Simulated]("Test Device", nil, vibrateOnly)
	assert.ErrorIs(t, err, protocol.ErrConfiguration)
}

func TestDispatchTable(t *testing.T) {
	tests := []struct {
		name string
		caps protocol.Capabilities
		want []wire.Kind
	}{
		{"none", 0, []wire.Kind{wire.KindStopDeviceCmd}},
		{"vibrate", vibrateOnly, []wire.Kind{wire.KindStopDeviceCmd, wire.KindSingleMotorVibrateCmd, wire.KindVibrateCmd}},
		{"linear", linearOnly, []wire.Kind{wire.KindStopDeviceCmd, wire.KindLinearCmd, wire.KindFleshlightLaunchFW12Cmd}},
		{"rotate", rotateOnly, []wire.Kind{wire.KindStopDeviceCmd, wire.KindRotateCmd}},
		{"all", protocol.CapVibrate | protocol.CapLinear | protocol.CapRotate, []wire.Kind{
			wire.KindStopDeviceCmd, wire.KindSingleMotorVibrateCmd, wire.KindVibrateCmd,
			wire.KindRotateCmd, wire.KindLinearCmd, wire.KindFleshlightLaunchFW12Cmd,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newProtocol(t, tt.caps)
			assert.Equal(t, tt.want, p.SupportedKinds())
		})
	}
}

func TestCapabilitySpecification(t *testing.T) {
	tests := []struct {
		name string
		caps protocol.Capabilities
		want map[wire.Kind]wire.MessageAttributes
	}{
		{
			name: "vibrate",
			caps: vibrateOnly,
			want: map[wire.Kind]wire.MessageAttributes{
				wire.KindVibrateCmd:            {FeatureCount: 2},
				wire.KindSingleMotorVibrateCmd: {},
				wire.KindStopDeviceCmd:         {},
			},
		},
		{
			name: "linear",
			caps: linearOnly,
			want: map[wire.Kind]wire.MessageAttributes{
				wire.KindLinearCmd:               {FeatureCount: 1},
				wire.KindFleshlightLaunchFW12Cmd: {},
				wire.KindStopDeviceCmd:           {},
			},
		},
		{
			name: "rotate",
			caps: rotateOnly,
			want: map[wire.Kind]wire.MessageAttributes{
				wire.KindRotateCmd:     {FeatureCount: 1},
				wire.KindStopDeviceCmd: {},
			},
		},
		{
			name: "none",
			caps: protocol.NewCapabilities(false, false, false),
			want: map[wire.Kind]wire.MessageAttributes{},
		},
		{
			name: "vibrate wins over linear and rotate",
			caps: protocol.NewCapabilities(true, true, true),
			want: map[wire.Kind]wire.MessageAttributes{
				wire.KindVibrateCmd:            {FeatureCount: 2},
				wire.KindSingleMotorVibrateCmd: {},
				wire.KindStopDeviceCmd:         {},
			},
		},
		{
			name: "linear wins over rotate",
			caps: protocol.NewCapabilities(false, true, true),
			want: map[wire.Kind]wire.MessageAttributes{
				wire.KindLinearCmd:               {FeatureCount: 1},
				wire.KindFleshlightLaunchFW12Cmd: {},
				wire.KindStopDeviceCmd:           {},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newProtocol(t, tt.caps)
			assert.Equal(t, tt.want, p.CapabilitySpecification())
		})
	}
}

func TestHandleMessage_Unsupported(t *testing.T) {
	p, rec := newProtocol(t, vibrateOnly)

	resp, err := p.HandleMessage(context.Background(), &wire.LinearCmd{ID: 3, Vectors: []wire.LinearVector{{Duration: 500, Position: 0.5}}})
	assert.Nil(t, resp)
	require.ErrorIs(t, err, protocol.ErrUnsupportedCommand)

	var unsupported *protocol.UnsupportedCommandError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, wire.KindLinearCmd, unsupported.Kind)
	assert.Empty(t, rec.linear)
	assert.Equal(t, protocol.MotionState{}, p.State())
}

func TestSingleMotorVibrate(t *testing.T) {
	p, rec := newProtocol(t, vibrateOnly)

	resp := handle(t, p, &wire.SingleMotorVibrateCmd{ID: 7, DeviceIndex: 1, Speed: 0.5})

	assert.Equal(t, wire.NewOk(7), resp)
	assert.Equal(t, 0.5, p.State().VibrateSpeed)
	assert.Equal(t, []protocol.VibrateEvent{{Speed: 0.5}}, rec.vibrate)
}

func TestSingleMotorVibrate_OutOfRangePassesThrough(t *testing.T) {
	p, _ := newProtocol(t, vibrateOnly)

	handle(t, p, &wire.SingleMotorVibrateCmd{ID: 1, Speed: 1.5})
	assert.Equal(t, 1.5, p.State().VibrateSpeed)
}

func TestVibrate_FirstMotorOnly(t *testing.T) {
	p, rec := newProtocol(t, vibrateOnly)

	resp := handle(t, p, &wire.VibrateCmd{ID: 9, DeviceIndex: 1, Speeds: []wire.VibrateSubcommand{
		{Index: 0, Speed: 0.3},
		{Index: 1, Speed: 0.9},
	}})

	assert.Equal(t, wire.NewOk(9), resp)
	assert.Equal(t, 0.3, p.State().VibrateSpeed)
	assert.Equal(t, []protocol.VibrateEvent{{Speed: 0.3}}, rec.vibrate)
}

func TestVibrate_NoSpeeds(t *testing.T) {
	p, rec := newProtocol(t, vibrateOnly)

	resp := handle(t, p, &wire.VibrateCmd{ID: 2})

	errMsg, ok := resp.(*wire.Error)
	require.True(t, ok)
	assert.Equal(t, wire.ErrorClassDevice, errMsg.Class)
	assert.Equal(t, uint32(2), errMsg.ID)
	assert.Empty(t, rec.vibrate)
}

func TestRotate(t *testing.T) {
	p, rec := newProtocol(t, rotateOnly)

	resp := handle(t, p, &wire.RotateCmd{ID: 4, DeviceIndex: 1, Rotations: []wire.RotateSubcommand{
		{Index: 0, Speed: 0.6, Clockwise: true},
		{Index: 1, Speed: 0.1, Clockwise: false},
	}})

	assert.Equal(t, wire.NewOk(4), resp)
	state := p.State()
	assert.Equal(t, 0.6, state.RotateSpeed)
	assert.True(t, state.RotateClockwise)

	// Rotation has its own channel; nothing goes to vibrate listeners.
	assert.Equal(t, []protocol.RotateEvent{{Speed: 0.6, Clockwise: true}}, rec.rotate)
	assert.Empty(t, rec.vibrate)
}

func TestLaunch(t *testing.T) {
	p, rec := newProtocol(t, linearOnly)

	resp := handle(t, p, &wire.FleshlightLaunchFW12Cmd{ID: 5, DeviceIndex: 1, Speed: 40, Position: 80})

	assert.Equal(t, wire.NewOk(5), resp)
	state := p.State()
	assert.Equal(t, uint8(80), state.LinearPosition)
	assert.Equal(t, uint8(40), state.LinearSpeed)
	assert.Equal(t, []protocol.LinearEvent{{Position: 80, Speed: 40}}, rec.linear)
}

func TestLaunch_OutOfRangePassesThrough(t *testing.T) {
	p, rec := newProtocol(t, linearOnly)

	handle(t, p, &wire.FleshlightLaunchFW12Cmd{ID: 6, Speed: 200, Position: 255})
	state := p.State()
	assert.Equal(t, uint8(255), state.LinearPosition)
	assert.Equal(t, uint8(200), state.LinearSpeed)
	assert.Equal(t, []protocol.LinearEvent{{Position: 255, Speed: 200}}, rec.linear)

	// A following translated move is clamped again.
	handle(t, p, &wire.LinearCmd{ID: 7, Vectors: []wire.LinearVector{{Duration: 100, Position: 1}}})
	state = p.State()
	assert.Equal(t, uint8(94), state.LinearPosition)
	assert.LessOrEqual(t, state.LinearSpeed, uint8(95))
}

func TestLinear_Translation(t *testing.T) {
	p, rec := newProtocol(t, linearOnly)

	resp := handle(t, p, &wire.LinearCmd{ID: 6, DeviceIndex: 1, Vectors: []wire.LinearVector{
		{Index: 0, Duration: 500, Position: 0.5},
	}})

	assert.Equal(t, wire.NewOk(6), resp)
	state := p.State()
	assert.Equal(t, uint8(49), state.LinearPosition)
	assert.Equal(t, uint8(19), state.LinearSpeed)
	assert.Equal(t, []protocol.LinearEvent{{Position: 49, Speed: 19}}, rec.linear)
}

func TestLinear_ZeroDelta(t *testing.T) {
	p, rec := newProtocol(t, linearOnly)

	// Park the actuator at 50, then ask for 0.5 (== 50).
	handle(t, p, &wire.FleshlightLaunchFW12Cmd{ID: 1, Speed: 10, Position: 50})
	resp := handle(t, p, &wire.LinearCmd{ID: 2, Vectors: []wire.LinearVector{{Duration: 500, Position: 0.5}}})

	assert.Equal(t, wire.NewOk(2), resp)
	state := p.State()
	assert.Equal(t, uint8(0), state.LinearSpeed)
	assert.Equal(t, uint8(49), state.LinearPosition)
	require.Len(t, rec.linear, 2)
	assert.Equal(t, protocol.LinearEvent{Position: 49, Speed: 0}, rec.linear[1])
}

func TestLinear_VectorCount(t *testing.T) {
	for _, n := range []int{0, 2} {
		p, rec := newProtocol(t, linearOnly)
		handle(t, p, &wire.FleshlightLaunchFW12Cmd{ID: 1, Speed: 30, Position: 60})
		before := p.State()

		vectors := make([]wire.LinearVector, n)
		for i := range vectors {
			vectors[i] = wire.LinearVector{Index: uint32(i), Duration: 500, Position: 0.1}
		}
		resp := handle(t, p, &wire.LinearCmd{ID: 8, Vectors: vectors})

		errMsg, ok := resp.(*wire.Error)
		require.True(t, ok, "vectors=%d", n)
		assert.Equal(t, wire.ErrorClassDevice, errMsg.Class)
		assert.Equal(t, uint32(8), errMsg.ID)
		assert.Contains(t, errMsg.Message, protocol.ErrVectorCount.Error())
		assert.Equal(t, before, p.State())
		assert.Len(t, rec.linear, 1)
	}
}

func TestLinear_Bounds(t *testing.T) {
	p, _ := newProtocol(t, linearOnly)

	for _, pos := range []float64{0, 0.01, 0.33, 0.5, 0.99, 1} {
		for _, d := range []uint32{0, 50, 500, 5000} {
			handle(t, p, &wire.LinearCmd{ID: 1, Vectors: []wire.LinearVector{{Duration: d, Position: pos}}})
			s := p.State()
			assert.LessOrEqual(t, s.LinearSpeed, uint8(95))
			assert.GreaterOrEqual(t, float64(s.LinearPosition), 4.5)
			assert.LessOrEqual(t, float64(s.LinearPosition), 94.5)
		}
	}
}

func TestStopDevice(t *testing.T) {
	t.Run("vibrate", func(t *testing.T) {
		p, rec := newProtocol(t, vibrateOnly)
		handle(t, p, &wire.SingleMotorVibrateCmd{ID: 1, Speed: 0.8})

		resp := handle(t, p, &wire.StopDeviceCmd{ID: 2})

		assert.Equal(t, wire.NewOk(2), resp)
		assert.Equal(t, 0.0, p.State().VibrateSpeed)
		assert.Equal(t, []protocol.VibrateEvent{{Speed: 0.8}, {Speed: 0}}, rec.vibrate)
	})

	t.Run("linear", func(t *testing.T) {
		p, rec := newProtocol(t, linearOnly)
		handle(t, p, &wire.FleshlightLaunchFW12Cmd{ID: 1, Speed: 20, Position: 70})

		resp := handle(t, p, &wire.StopDeviceCmd{ID: 2})

		assert.Equal(t, wire.NewOk(2), resp)
		assert.Equal(t, protocol.MotionState{LinearPosition: 70, LinearSpeed: 20}, p.State())
		assert.Equal(t, []protocol.LinearEvent{{Position: 70, Speed: 20}, {Position: 70, Speed: 20}}, rec.linear)
	})

	t.Run("rotate emits nothing", func(t *testing.T) {
		p, rec := newProtocol(t, rotateOnly)
		handle(t, p, &wire.RotateCmd{ID: 1, Rotations: []wire.RotateSubcommand{{Speed: 0.4, Clockwise: true}}})

		resp := handle(t, p, &wire.StopDeviceCmd{ID: 2})

		assert.Equal(t, wire.NewOk(2), resp)
		assert.Len(t, rec.rotate, 1)
		assert.Empty(t, rec.vibrate)
		assert.Empty(t, rec.linear)
	})
}

func TestMotionStateIsPerInstance(t *testing.T) {
	a, _ := newProtocol(t, vibrateOnly)
	b, _ := newProtocol(t, vibrateOnly)

	handle(t, a, &wire.SingleMotorVibrateCmd{ID: 1, Speed: 0.7})

	assert.Equal(t, 0.7, a.State().VibrateSpeed)
	assert.Equal(t, 0.0, b.State().VibrateSpeed)
}

func TestCapabilitiesString(t *testing.T) {
	assert.Equal(t, "none", protocol.Capabilities(0).String())
	assert.Equal(t, "vibrate|rotate", protocol.NewCapabilities(true, false, true).String())
}
