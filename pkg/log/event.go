package log

import (
	"time"

	"github.com/motion-protocol/motion-go/pkg/wire"
)

// Event is a protocol log record. Exactly one of Message, StateChange or
// Error is set.
type Event struct {
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies one Connect..Disconnect cycle (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	Direction Direction `cbor:"3,keyasint"`
	Layer     Layer     `cbor:"4,keyasint"`
	Category  Category  `cbor:"5,keyasint"`
	LocalRole Role      `cbor:"6,keyasint,omitempty"`

	// Address is the address passed to Connect.
	Address string `cbor:"7,keyasint,omitempty"`

	Message     *MessageEvent     `cbor:"8,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"9,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"10,keyasint,omitempty"`
}

// Direction indicates message flow relative to the local role.
type Direction uint8

const (
	DirectionIn  Direction = 0
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates where an event was captured.
type Layer uint8

const (
	// LayerWire is the encoded message layer.
	LayerWire Layer = 1
	// LayerService is the connection/session layer.
	LayerService Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerWire:
		return "WIRE"
	case LayerService:
		return "SERVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event.
type Category uint8

const (
	CategoryMessage Category = 0
	CategoryState   Category = 2
	CategoryError   Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Role is the local side of the connection.
type Role uint8

const (
	RoleClient    Role = 0
	RoleProcessor Role = 1
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleClient:
		return "CLIENT"
	case RoleProcessor:
		return "PROCESSOR"
	default:
		return "UNKNOWN"
	}
}

// MessageEvent captures one protocol message.
type MessageEvent struct {
	Kind      wire.Kind `cbor:"1,keyasint"`
	MessageID uint32    `cbor:"2,keyasint"`

	// DeviceIndex is set for device commands.
	DeviceIndex *uint32 `cbor:"3,keyasint,omitempty"`

	// ErrorClass is set for Error messages.
	ErrorClass *wire.ErrorClass `cbor:"4,keyasint,omitempty"`

	// Data is the encoded message, decodable with wire.Decode.
	Data []byte `cbor:"5,keyasint,omitempty"`

	// ProcessingTime is the round-trip time (responses only).
	ProcessingTime *time.Duration `cbor:"6,keyasint,omitempty"`
}

// NewMessageEvent describes msg; data is its encoding (may be nil).
func NewMessageEvent(msg wire.Message, data []byte) *MessageEvent {
	me := &MessageEvent{
		Kind:      msg.Kind(),
		MessageID: msg.MessageID(),
		Data:      data,
	}
	if dm, ok := msg.(wire.DeviceMessage); ok {
		idx := dm.Device()
		me.DeviceIndex = &idx
	}
	if e, ok := msg.(*wire.Error); ok {
		class := e.Class
		me.ErrorClass = &class
	}
	return me
}

// StateChangeEvent captures a connection state transition.
type StateChangeEvent struct {
	OldState string `cbor:"1,keyasint,omitempty"`
	NewState string `cbor:"2,keyasint"`
	Reason   string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures an error at any layer.
type ErrorEventData struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`

	// Context describes the operation in progress.
	Context string `cbor:"3,keyasint,omitempty"`
}
