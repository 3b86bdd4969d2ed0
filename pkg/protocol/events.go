package protocol

import "sync"

// VibrateEvent is emitted when the vibration speed changes.
type VibrateEvent struct {
	Speed float64
}

// RotateEvent is emitted when rotation speed or direction changes.
type RotateEvent struct {
	Speed     float64
	Clockwise bool
}

// LinearEvent is emitted when the linear actuator is commanded.
type LinearEvent struct {
	Position uint8
	Speed    uint8
}

// listeners holds the registered event callbacks of a DeviceProtocol.
type listeners struct {
	mu      sync.RWMutex
	vibrate []func(VibrateEvent)
	rotate  []func(RotateEvent)
	linear  []func(LinearEvent)
}

func (l *listeners) emitVibrate(e VibrateEvent) {
	l.mu.RLock()
	fns := l.vibrate
	l.mu.RUnlock()
	for _, fn := range fns {
		fn(e)
	}
}

func (l *listeners) emitRotate(e RotateEvent) {
	l.mu.RLock()
	fns := l.rotate
	l.mu.RUnlock()
	for _, fn := range fns {
		fn(e)
	}
}

func (l *listeners) emitLinear(e LinearEvent) {
	l.mu.RLock()
	fns := l.linear
	l.mu.RUnlock()
	for _, fn := range fns {
		fn(e)
	}
}

// OnVibrate registers a listener for vibration changes.
func (p *DeviceProtocol) OnVibrate(fn func(VibrateEvent)) {
	p.listeners.mu.Lock()
	defer p.listeners.mu.Unlock()
	p.listeners.vibrate = append(p.listeners.vibrate, fn)
}

// OnRotate registers a listener for rotation changes.
func (p *DeviceProtocol) OnRotate(fn func(RotateEvent)) {
	p.listeners.mu.Lock()
	defer p.listeners.mu.Unlock()
	p.listeners.rotate = append(p.listeners.rotate, fn)
}

// OnLinear registers a listener for linear movement.
func (p *DeviceProtocol) OnLinear(fn func(LinearEvent)) {
	p.listeners.mu.Lock()
	defer p.listeners.mu.Unlock()
	p.listeners.linear = append(p.listeners.linear, fn)
}
