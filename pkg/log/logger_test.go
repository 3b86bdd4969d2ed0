package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/motion-protocol/motion-go/pkg/wire"
)

func TestMultiLoggerFansOut(t *testing.T) {
	a, b := &MemoryLogger{}, &MemoryLogger{}
	m := NewMultiLogger(a, nil, b, NoopLogger{})

	m.Log(Event{ConnectionID: "x"})
	m.Log(Event{ConnectionID: "y"})

	if len(a.Events()) != 2 || len(b.Events()) != 2 {
		t.Errorf("expected 2 events each, got %d and %d", len(a.Events()), len(b.Events()))
	}
}

func TestMemoryLoggerFilter(t *testing.T) {
	m := &MemoryLogger{}
	m.Log(Event{Category: CategoryState})
	m.Log(Event{Category: CategoryMessage, Message: &MessageEvent{Kind: wire.KindOk}})

	cat := CategoryMessage
	if got := m.Filter(Filter{Category: &cat}); len(got) != 1 {
		t.Errorf("expected 1 message event, got %d", len(got))
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := NewSlogAdapter(logger)

	class := wire.ErrorClassDevice
	adapter.Log(Event{
		ConnectionID: "conn-1",
		Direction:    DirectionIn,
		Layer:        LayerWire,
		Category:     CategoryMessage,
		Message:      &MessageEvent{Kind: wire.KindError, MessageID: 3, ErrorClass: &class},
	})
	adapter.Log(Event{
		ConnectionID: "conn-1",
		Layer:        LayerService,
		Category:     CategoryState,
		StateChange:  &StateChangeEvent{OldState: "CONNECTED", NewState: "DISCONNECTED", Reason: "client"},
	})

	out := buf.String()
	for _, want := range []string{"kind=Error", "msg_id=3", "error_class=ERROR_DEVICE", "new_state=DISCONNECTED", "reason=client"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
