package wire

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ErrUnknownKind is returned when decoding a message of an unknown kind.
var ErrUnknownKind = errors.New("unknown message kind")

// encMode is the CBOR encoder mode for protocol messages.
// Configured for deterministic encoding with integer keys.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for protocol messages.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Lenient for forward compatibility
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// envelope is the outer frame of every encoded message.
//
// CBOR encoding:
//
//	{
//	  1: kind,   // uint8
//	  2: body    // kind-specific map
//	}
type envelope struct {
	Kind Kind            `cbor:"1,keyasint"`
	Body cbor.RawMessage `cbor:"2,keyasint"`
}

// Marshal encodes a value to CBOR bytes.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR bytes into a value.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Encode encodes a message with its kind envelope.
func Encode(m Message) ([]byte, error) {
	if m == nil {
		return nil, errors.New("nil message")
	}
	if !m.Kind().IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, m.Kind())
	}
	body, err := Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", m.Kind(), err)
	}
	return Marshal(envelope{Kind: m.Kind(), Body: body})
}

// Decode decodes a message produced by Encode.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}

	m, err := New(env.Kind)
	if err != nil {
		return nil, err
	}
	if err := Unmarshal(env.Body, m); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", env.Kind, err)
	}
	return m, nil
}

// PeekKind returns the kind of an encoded message without decoding its body.
func PeekKind(data []byte) (Kind, error) {
	var env struct {
		Kind Kind `cbor:"1,keyasint"`
	}
	if err := Unmarshal(data, &env); err != nil {
		return 0, fmt.Errorf("failed to peek message: %w", err)
	}
	return env.Kind, nil
}

// New returns a zero message of the given kind.
func New(k Kind) (Message, error) {
	switch k {
	case KindOk:
		return &Ok{}, nil
	case KindError:
		return &Error{}, nil
	case KindStopDeviceCmd:
		return &StopDeviceCmd{}, nil
	case KindSingleMotorVibrateCmd:
		return &SingleMotorVibrateCmd{}, nil
	case KindVibrateCmd:
		return &VibrateCmd{}, nil
	case KindRotateCmd:
		return &RotateCmd{}, nil
	case KindLinearCmd:
		return &LinearCmd{}, nil
	case KindFleshlightLaunchFW12Cmd:
		return &FleshlightLaunchFW12Cmd{}, nil
	case KindRequestDeviceList:
		return &RequestDeviceList{}, nil
	case KindDeviceList:
		return &DeviceList{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
}
