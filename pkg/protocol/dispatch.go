package protocol

import (
	"context"

	"github.com/motion-protocol/motion-go/pkg/wire"
)

// handlerFunc handles one message kind and always produces a response.
type handlerFunc func(ctx context.Context, msg wire.Message) wire.Message

// dispatchTable maps message kinds to handlers. It is built once in New
// and only read afterwards.
type dispatchTable map[wire.Kind]handlerFunc

// buildDispatchTable registers the handlers permitted by caps.
func buildDispatchTable(p *DeviceProtocol, caps Capabilities) dispatchTable {
	t := dispatchTable{
		wire.KindStopDeviceCmd: p.handleStopDevice,
	}
	if caps.Vibrate() {
		t[wire.KindSingleMotorVibrateCmd] = p.handleSingleMotorVibrate
		t[wire.KindVibrateCmd] = p.handleVibrate
	}
	if caps.Linear() {
		t[wire.KindFleshlightLaunchFW12Cmd] = p.handleLaunch
		t[wire.KindLinearCmd] = p.handleLinear
	}
	if caps.Rotate() {
		t[wire.KindRotateCmd] = p.handleRotate
	}
	return t
}

// has returns true if a handler is registered for kind.
func (t dispatchTable) has(kind wire.Kind) bool {
	_, ok := t[kind]
	return ok
}

// kinds returns the registered kinds in ascending order.
func (t dispatchTable) kinds() []wire.Kind {
	kinds := make([]wire.Kind, 0, len(t))
	for k := wire.KindOk; k <= wire.KindDeviceList; k++ {
		if t.has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
