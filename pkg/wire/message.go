package wire

// Message is implemented by every protocol message.
//
// The concrete types form a closed set; use a type switch (or Kind) to
// distinguish them.
type Message interface {
	// MessageID returns the correlation ID linking a request to its response.
	MessageID() uint32

	// Kind returns the message kind.
	Kind() Kind
}

// DeviceMessage is a Message addressed to a single device.
type DeviceMessage interface {
	Message

	// Device returns the index of the target device.
	Device() uint32
}

// Ok acknowledges a request.
//
// CBOR encoding:
//
//	{
//	  1: id   // uint32
//	}
type Ok struct {
	ID uint32 `cbor:"1,keyasint"`
}

func (m *Ok) MessageID() uint32 { return m.ID }
func (m *Ok) Kind() Kind         { return KindOk }

// Error reports a failed request.
//
// CBOR encoding:
//
//	{
//	  1: id,        // uint32
//	  2: message,   // string
//	  3: class      // uint8, see ErrorClass
//	}
type Error struct {
	ID      uint32     `cbor:"1,keyasint"`
	Message string     `cbor:"2,keyasint,omitempty"`
	Class   ErrorClass `cbor:"3,keyasint"`
}

func (m *Error) MessageID() uint32 { return m.ID }
func (m *Error) Kind() Kind         { return KindError }

// StopDeviceCmd stops all motion on a device.
type StopDeviceCmd struct {
	ID          uint32 `cbor:"1,keyasint"`
	DeviceIndex uint32 `cbor:"2,keyasint"`
}

func (m *StopDeviceCmd) MessageID() uint32 { return m.ID }
func (m *StopDeviceCmd) Kind() Kind         { return KindStopDeviceCmd }
func (m *StopDeviceCmd) Device() uint32     { return m.DeviceIndex }

// SingleMotorVibrateCmd sets the vibration speed of a single-motor device.
// Speed is expected in [0, 1] but is not validated.
type SingleMotorVibrateCmd struct {
	ID          uint32  `cbor:"1,keyasint"`
	DeviceIndex uint32  `cbor:"2,keyasint"`
	Speed       float64 `cbor:"3,keyasint"`
}

func (m *SingleMotorVibrateCmd) MessageID() uint32 { return m.ID }
func (m *SingleMotorVibrateCmd) Kind() Kind         { return KindSingleMotorVibrateCmd }
func (m *SingleMotorVibrateCmd) Device() uint32     { return m.DeviceIndex }

// VibrateSubcommand is one motor entry of a VibrateCmd.
type VibrateSubcommand struct {
	Index uint32  `cbor:"1,keyasint"`
	Speed float64 `cbor:"2,keyasint"`
}

// VibrateCmd sets the vibration speed of each motor of a device.
type VibrateCmd struct {
	ID          uint32              `cbor:"1,keyasint"`
	DeviceIndex uint32              `cbor:"2,keyasint"`
	Speeds      []VibrateSubcommand `cbor:"3,keyasint"`
}

func (m *VibrateCmd) MessageID() uint32 { return m.ID }
func (m *VibrateCmd) Kind() Kind         { return KindVibrateCmd }
func (m *VibrateCmd) Device() uint32     { return m.DeviceIndex }

// RotateSubcommand is one motor entry of a RotateCmd.
type RotateSubcommand struct {
	Index     uint32  `cbor:"1,keyasint"`
	Speed     float64 `cbor:"2,keyasint"`
	Clockwise bool    `cbor:"3,keyasint"`
}

// RotateCmd sets the rotation speed and direction of each motor of a device.
type RotateCmd struct {
	ID          uint32             `cbor:"1,keyasint"`
	DeviceIndex uint32             `cbor:"2,keyasint"`
	Rotations   []RotateSubcommand `cbor:"3,keyasint"`
}

func (m *RotateCmd) MessageID() uint32 { return m.ID }
func (m *RotateCmd) Kind() Kind         { return KindRotateCmd }
func (m *RotateCmd) Device() uint32     { return m.DeviceIndex }

// LinearVector is one movement of a LinearCmd.
type LinearVector struct {
	Index uint32 `cbor:"1,keyasint"`

	// Duration of the movement in milliseconds.
	Duration uint32 `cbor:"2,keyasint"`

	// Position is the normalized target position in [0, 1].
	Position float64 `cbor:"3,keyasint"`
}

// LinearCmd moves the linear actuators of a device.
type LinearCmd struct {
	ID          uint32         `cbor:"1,keyasint"`
	DeviceIndex uint32         `cbor:"2,keyasint"`
	Vectors     []LinearVector `cbor:"3,keyasint"`
}

func (m *LinearCmd) MessageID() uint32 { return m.ID }
func (m *LinearCmd) Kind() Kind         { return KindLinearCmd }
func (m *LinearCmd) Device() uint32     { return m.DeviceIndex }

// FleshlightLaunchFW12Cmd is the legacy two-parameter actuator command.
// Speed and Position are in device units (0-99).
type FleshlightLaunchFW12Cmd struct {
	ID          uint32 `cbor:"1,keyasint"`
	DeviceIndex uint32 `cbor:"2,keyasint"`
	Speed       uint8  `cbor:"3,keyasint"`
	Position    uint8  `cbor:"4,keyasint"`
}

func (m *FleshlightLaunchFW12Cmd) MessageID() uint32 { return m.ID }
func (m *FleshlightLaunchFW12Cmd) Kind() Kind         { return KindFleshlightLaunchFW12Cmd }
func (m *FleshlightLaunchFW12Cmd) Device() uint32     { return m.DeviceIndex }

// RequestDeviceList asks the processor for the devices it manages.
type RequestDeviceList struct {
	ID uint32 `cbor:"1,keyasint"`
}

func (m *RequestDeviceList) MessageID() uint32 { return m.ID }
func (m *RequestDeviceList) Kind() Kind         { return KindRequestDeviceList }

// MessageAttributes describes how a device supports a message kind.
type MessageAttributes struct {
	// FeatureCount is the number of motors or actuators addressed by the
	// message. Zero when not applicable.
	FeatureCount uint32 `cbor:"1,keyasint,omitempty"`
}

// DeviceInfo describes one device in a DeviceList.
type DeviceInfo struct {
	Index    uint32                     `cbor:"1,keyasint"`
	Name     string                     `cbor:"2,keyasint"`
	Messages map[Kind]MessageAttributes `cbor:"3,keyasint"`
}

// DeviceList answers RequestDeviceList.
type DeviceList struct {
	ID      uint32       `cbor:"1,keyasint"`
	Devices []DeviceInfo `cbor:"2,keyasint"`
}

func (m *DeviceList) MessageID() uint32 { return m.ID }
func (m *DeviceList) Kind() Kind         { return KindDeviceList }

// NewOk returns an Ok message for the given request ID.
func NewOk(id uint32) *Ok {
	return &Ok{ID: id}
}

// NewError returns an Error message for the given request ID.
func NewError(id uint32, class ErrorClass, message string) *Error {
	return &Error{ID: id, Class: class, Message: message}
}

// IsError returns true if m is an Error message.
func IsError(m Message) bool {
	_, ok := m.(*Error)
	return ok
}

// Compile-time interface satisfaction checks.
var (
	_ Message       = (*Ok)(nil)
	_ Message       = (*Error)(nil)
	_ DeviceMessage = (*StopDeviceCmd)(nil)
	_ DeviceMessage = (*SingleMotorVibrateCmd)(nil)
	_ DeviceMessage = (*VibrateCmd)(nil)
	_ DeviceMessage = (*RotateCmd)(nil)
	_ DeviceMessage = (*LinearCmd)(nil)
	_ DeviceMessage = (*FleshlightLaunchFW12Cmd)(nil)
	_ Message       = (*RequestDeviceList)(nil)
	_ Message       = (*DeviceList)(nil)
)
