package protocol

import "strings"

// Capabilities is the set of motion types a device supports.
type Capabilities uint8

const (
	// CapVibrate marks a vibrating device.
	CapVibrate Capabilities = 1 << iota

	// CapLinear marks a linear stroker.
	CapLinear

	// CapRotate marks a rotating device.
	CapRotate
)

// NewCapabilities builds a capability set from individual flags.
func NewCapabilities(vibrate, linear, rotate bool) Capabilities {
	var c Capabilities
	if vibrate {
		c |= CapVibrate
	}
	if linear {
		c |= CapLinear
	}
	if rotate {
		c |= CapRotate
	}
	return c
}

// Has returns true if every capability in want is present.
func (c Capabilities) Has(want Capabilities) bool {
	return c&want == want
}

// Vibrate reports whether the vibrate capability is set.
func (c Capabilities) Vibrate() bool { return c.Has(CapVibrate) }

// Linear reports whether the linear capability is set.
func (c Capabilities) Linear() bool { return c.Has(CapLinear) }

// Rotate reports whether the rotate capability is set.
func (c Capabilities) Rotate() bool { return c.Has(CapRotate) }

// String returns a "vibrate|linear|rotate" style list, or "none".
func (c Capabilities) String() string {
	var parts []string
	if c.Vibrate() {
		parts = append(parts, "vibrate")
	}
	if c.Linear() {
		parts = append(parts, "linear")
	}
	if c.Rotate() {
		parts = append(parts, "rotate")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
