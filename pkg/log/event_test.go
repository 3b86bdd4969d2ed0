package log

import (
	"testing"

	"github.com/motion-protocol/motion-go/pkg/wire"
)

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{DirectionIn.String(), "IN"},
		{DirectionOut.String(), "OUT"},
		{Direction(99).String(), "UNKNOWN"},
		{LayerWire.String(), "WIRE"},
		{LayerService.String(), "SERVICE"},
		{Layer(99).String(), "UNKNOWN"},
		{CategoryMessage.String(), "MESSAGE"},
		{CategoryState.String(), "STATE"},
		{CategoryError.String(), "ERROR"},
		{Category(99).String(), "UNKNOWN"},
		{RoleClient.String(), "CLIENT"},
		{RoleProcessor.String(), "PROCESSOR"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestNewMessageEvent(t *testing.T) {
	me := NewMessageEvent(&wire.LinearCmd{ID: 4, DeviceIndex: 2}, []byte{1})
	if me.Kind != wire.KindLinearCmd || me.MessageID != 4 {
		t.Errorf("unexpected event %+v", me)
	}
	if me.DeviceIndex == nil || *me.DeviceIndex != 2 {
		t.Errorf("expected device index 2, got %v", me.DeviceIndex)
	}
	if me.ErrorClass != nil {
		t.Error("device command should have no error class")
	}

	me = NewMessageEvent(wire.NewError(5, wire.ErrorClassDevice, "boom"), nil)
	if me.ErrorClass == nil || *me.ErrorClass != wire.ErrorClassDevice {
		t.Errorf("expected ERROR_DEVICE class, got %v", me.ErrorClass)
	}
	if me.DeviceIndex != nil {
		t.Error("Error message should have no device index")
	}
}

func TestEventRoundTrip(t *testing.T) {
	idx := uint32(3)
	event := Event{
		ConnectionID: "conn-1",
		Direction:    DirectionOut,
		Layer:        LayerWire,
		Category:     CategoryMessage,
		Message:      &MessageEvent{Kind: wire.KindVibrateCmd, MessageID: 9, DeviceIndex: &idx},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if decoded.Message == nil || decoded.Message.Kind != wire.KindVibrateCmd || *decoded.Message.DeviceIndex != 3 {
		t.Errorf("unexpected decoded event %+v", decoded)
	}
}
