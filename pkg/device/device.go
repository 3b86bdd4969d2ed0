// Package device defines the handle a device protocol receives for the
// hardware it drives.
//
// Transport drivers (Bluetooth, serial, USB) live outside this module and
// only need to satisfy Device. Simulated is an in-memory implementation for
// tests and the simulator.
package device

// Device is an opaque handle to the hardware behind a device protocol.
type Device interface {
	// Name returns the advertised device name.
	Name() string

	// Address returns the transport address (MAC, port path, ...).
	Address() string
}

// Simulated is an in-memory Device.
type Simulated struct {
	name    string
	address string
}

// NewSimulated creates a simulated device.
func NewSimulated(name, address string) *Simulated {
	return &Simulated{name: name, address: address}
}

// Name returns the device name.
func (d *Simulated) Name() string {
	return d.name
}

// Address returns the device address.
func (d *Simulated) Address() string {
	return d.address
}

// Compile-time interface satisfaction check.
var _ Device = (*Simulated)(nil)
