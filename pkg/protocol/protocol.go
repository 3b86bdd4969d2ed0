package protocol

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/motion-protocol/motion-go/pkg/device"
	"github.com/motion-protocol/motion-go/pkg/linear"
	"github.com/motion-protocol/motion-go/pkg/wire"
)

// DeviceProtocol routes commands for one device to the handlers its
// capabilities allow and tracks the device's MotionState.
type DeviceProtocol struct {
	name   string
	device device.Device
	caps   Capabilities
	table  dispatchTable

	// dispatchMu serializes HandleMessage calls.
	dispatchMu sync.Mutex

	stateMu sync.RWMutex
	state   MotionState

	listeners listeners

	logger *slog.Logger
}

// New creates a DeviceProtocol for dev. The handle must be of type T;
// otherwise New returns a *ConfigurationError.
func New[T device.Device](name string, dev device.Device, caps Capabilities) (*DeviceProtocol, error) {
	if _, ok := dev.(T); !ok {
		var want T
		return nil, &ConfigurationError{
			Protocol: name,
			Expected: fmt.Sprintf("%T", want),
			Actual:   fmt.Sprintf("%T", dev),
		}
	}

	p := &DeviceProtocol{
		name:   name,
		device: dev,
		caps:   caps,
	}
	p.table = buildDispatchTable(p, caps)
	return p, nil
}

// SetLogger sets the logger for dispatch debug output.
func (p *DeviceProtocol) SetLogger(logger *slog.Logger) {
	p.logger = logger
}

// Name returns the display name.
func (p *DeviceProtocol) Name() string {
	return p.name
}

// Device returns the device handle.
func (p *DeviceProtocol) Device() device.Device {
	return p.device
}

// Capabilities returns the capability set the protocol was built with.
func (p *DeviceProtocol) Capabilities() Capabilities {
	return p.caps
}

// State returns a snapshot of the motion state.
func (p *DeviceProtocol) State() MotionState {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.state
}

// Supports returns true if kind has a registered handler.
func (p *DeviceProtocol) Supports(kind wire.Kind) bool {
	return p.table.has(kind)
}

// SupportedKinds returns every kind with a registered handler.
func (p *DeviceProtocol) SupportedKinds() []wire.Kind {
	return p.table.kinds()
}

// CapabilitySpecification returns the negotiated command set. Only one
// capability is reported, with priority vibrate > linear > rotate.
func (p *DeviceProtocol) CapabilitySpecification() map[wire.Kind]wire.MessageAttributes {
	switch {
	case p.table.has(wire.KindVibrateCmd):
		return map[wire.Kind]wire.MessageAttributes{
			wire.KindVibrateCmd:            {FeatureCount: 2},
			wire.KindSingleMotorVibrateCmd: {},
			wire.KindStopDeviceCmd:         {},
		}
	case p.table.has(wire.KindLinearCmd):
		return map[wire.Kind]wire.MessageAttributes{
			wire.KindLinearCmd:               {FeatureCount: 1},
			wire.KindFleshlightLaunchFW12Cmd: {},
			wire.KindStopDeviceCmd:           {},
		}
	case p.table.has(wire.KindRotateCmd):
		return map[wire.Kind]wire.MessageAttributes{
			wire.KindRotateCmd:     {FeatureCount: 1},
			wire.KindStopDeviceCmd: {},
		}
	default:
		return map[wire.Kind]wire.MessageAttributes{}
	}
}

// HandleMessage dispatches msg to its handler and returns the response.
// The error is non-nil only when the device has no handler for the kind.
func (p *DeviceProtocol) HandleMessage(ctx context.Context, msg wire.Message) (wire.Message, error) {
	handler, ok := p.table[msg.Kind()]
	if !ok {
		p.debugLog("unsupported command", "kind", msg.Kind().String(), "id", msg.MessageID())
		return nil, &UnsupportedCommandError{Protocol: p.name, Kind: msg.Kind()}
	}

	p.dispatchMu.Lock()
	defer p.dispatchMu.Unlock()

	resp := handler(ctx, msg)
	p.debugLog("handled command", "kind", msg.Kind().String(), "id", msg.MessageID(), "response", resp.Kind().String())
	return resp, nil
}

func (p *DeviceProtocol) handleStopDevice(ctx context.Context, msg wire.Message) wire.Message {
	switch {
	case p.table.has(wire.KindSingleMotorVibrateCmd):
		p.stateMu.Lock()
		p.state.VibrateSpeed = 0
		p.stateMu.Unlock()
		p.listeners.emitVibrate(VibrateEvent{Speed: 0})

	case p.table.has(wire.KindFleshlightLaunchFW12Cmd):
		// A linear actuator stops on its own once it reaches the goal; the
		// last command is re-announced as the stop event.
		s := p.State()
		p.listeners.emitLinear(LinearEvent{Position: s.LinearPosition, Speed: s.LinearSpeed})
	}
	// Rotate-only devices emit nothing on stop.
	return wire.NewOk(msg.MessageID())
}

func (p *DeviceProtocol) handleSingleMotorVibrate(ctx context.Context, msg wire.Message) wire.Message {
	cmd, ok := msg.(*wire.SingleMotorVibrateCmd)
	if !ok {
		return malformed(msg)
	}

	p.stateMu.Lock()
	p.state.VibrateSpeed = cmd.Speed
	p.stateMu.Unlock()

	p.listeners.emitVibrate(VibrateEvent{Speed: cmd.Speed})
	return wire.NewOk(cmd.ID)
}

// handleVibrate forwards the first motor only; single-motor devices ignore
// the remaining entries.
func (p *DeviceProtocol) handleVibrate(ctx context.Context, msg wire.Message) wire.Message {
	cmd, ok := msg.(*wire.VibrateCmd)
	if !ok {
		return malformed(msg)
	}
	if len(cmd.Speeds) == 0 {
		return wire.NewError(cmd.ID, wire.ErrorClassDevice, fmt.Sprintf("%s: %v", cmd.Kind(), ErrNoSubcommands))
	}

	return p.handleSingleMotorVibrate(ctx, &wire.SingleMotorVibrateCmd{
		ID:          cmd.ID,
		DeviceIndex: cmd.DeviceIndex,
		Speed:       cmd.Speeds[0].Speed,
	})
}

func (p *DeviceProtocol) handleRotate(ctx context.Context, msg wire.Message) wire.Message {
	cmd, ok := msg.(*wire.RotateCmd)
	if !ok {
		return malformed(msg)
	}
	if len(cmd.Rotations) == 0 {
		return wire.NewError(cmd.ID, wire.ErrorClassDevice, fmt.Sprintf("%s: %v", cmd.Kind(), ErrNoSubcommands))
	}

	r := cmd.Rotations[0]
	p.stateMu.Lock()
	p.state.RotateSpeed = r.Speed
	p.state.RotateClockwise = r.Clockwise
	p.stateMu.Unlock()

	p.listeners.emitRotate(RotateEvent{Speed: r.Speed, Clockwise: r.Clockwise})
	return wire.NewOk(cmd.ID)
}

// handleLaunch is the terminal handler all linear movement funnels into.
func (p *DeviceProtocol) handleLaunch(ctx context.Context, msg wire.Message) wire.Message {
	cmd, ok := msg.(*wire.FleshlightLaunchFW12Cmd)
	if !ok {
		return malformed(msg)
	}

	p.stateMu.Lock()
	p.state.LinearPosition = cmd.Position
	p.state.LinearSpeed = cmd.Speed
	p.stateMu.Unlock()

	p.listeners.emitLinear(LinearEvent{Position: cmd.Position, Speed: cmd.Speed})
	return wire.NewOk(cmd.ID)
}

func (p *DeviceProtocol) handleLinear(ctx context.Context, msg wire.Message) wire.Message {
	cmd, ok := msg.(*wire.LinearCmd)
	if !ok {
		return malformed(msg)
	}
	if len(cmd.Vectors) != 1 {
		return wire.NewError(cmd.ID, wire.ErrorClassDevice,
			fmt.Sprintf("%s requires exactly 1 vector, got %d: %v", cmd.Kind(), len(cmd.Vectors), ErrVectorCount))
	}

	v := cmd.Vectors[0]
	out := linear.Translate(v.Duration, v.Position, p.State().LinearPosition)

	return p.handleLaunch(ctx, &wire.FleshlightLaunchFW12Cmd{
		ID:          cmd.ID,
		DeviceIndex: cmd.DeviceIndex,
		Speed:       out.Speed,
		Position:    out.Position,
	})
}

// malformed answers a message whose kind does not match its Go type.
func malformed(msg wire.Message) wire.Message {
	return wire.NewError(msg.MessageID(), wire.ErrorClassMessage,
		fmt.Sprintf("malformed %s message (%T)", msg.Kind(), msg))
}

// debugLog logs a debug message if logging is enabled.
func (p *DeviceProtocol) debugLog(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, append([]any{"device", p.name}, args...)...)
	}
}
