// Package protocol implements capability-driven command dispatch for a
// single device.
//
// A DeviceProtocol is built from a device handle and a fixed capability set.
// Construction registers one handler per message kind the capabilities
// allow; the resulting dispatch table never changes afterwards:
//
//	caps := protocol.NewCapabilities(true, false, false) // vibrate only
//	p, err := protocol.New[*device.Simulated]("Test Vibrator", dev, caps)
//	if err != nil {
//	    // dev is not a *device.Simulated
//	}
//
//	p.OnVibrate(func(e protocol.VibrateEvent) { ... })
//	resp, err := p.HandleMessage(ctx, &wire.SingleMotorVibrateCmd{ID: 1, Speed: 0.5})
//
// HandleMessage returns an error only for message kinds the device does not
// support. Every recognized command produces an Ok or Error response;
// validation failures such as a LinearCmd with the wrong vector count come
// back as Error messages and leave the device usable.
//
// # Capability Negotiation
//
// CapabilitySpecification reports a single command set even when several
// capabilities are enabled, with priority vibrate > linear > rotate.
// Devices combining capabilities are not modeled.
//
// # Events
//
// Handlers emit typed motion events after updating MotionState. Vibration,
// rotation and linear movement each have their own listener list; listeners
// run synchronously on the dispatching goroutine in registration order.
package protocol
