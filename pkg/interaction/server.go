package interaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/motion-protocol/motion-go/pkg/protocol"
	"github.com/motion-protocol/motion-go/pkg/wire"
)

// Server is the in-process command processor. It owns the device protocols
// and routes each device command to the protocol registered at its index.
//
// DeviceProtocol serializes its own dispatch, so two commands for the same
// device never run concurrently; commands for different devices may.
type Server struct {
	mu sync.RWMutex

	devices   map[uint32]*protocol.DeviceProtocol
	nextIndex uint32

	msgHandler MessageHandler
	logger     *slog.Logger
}

// MessageHandler receives encoded messages published by the server.
type MessageHandler func(data []byte)

// NewServer creates an empty processor.
func NewServer() *Server {
	return &Server{
		devices: make(map[uint32]*protocol.DeviceProtocol),
	}
}

// SetLogger sets the logger for routing debug output.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// SetMessageHandler sets the receiver of outbound messages.
func (s *Server) SetMessageHandler(handler MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgHandler = handler
}

// AddDevice registers p and returns its device index. Indices start at 0
// and are never reused.
func (s *Server) AddDevice(p *protocol.DeviceProtocol) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.nextIndex
	s.nextIndex++
	s.devices[idx] = p
	return idx
}

// RemoveDevice unregisters the device at index. Returns false if there was
// none.
func (s *Server) RemoveDevice(index uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.devices[index]; !ok {
		return false
	}
	delete(s.devices, index)
	return true
}

// Device returns the protocol at index.
func (s *Server) Device(index uint32) (*protocol.DeviceProtocol, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.devices[index]
	return p, ok
}

// Devices describes every registered device, ordered by index.
func (s *Server) Devices() []wire.DeviceInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]wire.DeviceInfo, 0, len(s.devices))
	for idx, p := range s.devices {
		infos = append(infos, wire.DeviceInfo{
			Index:    idx,
			Name:     p.Name(),
			Messages: p.CapabilitySpecification(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Index < infos[j].Index })
	return infos
}

// HandleMessage processes a request and returns its response.
func (s *Server) HandleMessage(ctx context.Context, msg wire.Message) wire.Message {
	switch m := msg.(type) {
	case *wire.RequestDeviceList:
		return &wire.DeviceList{ID: m.ID, Devices: s.Devices()}
	case wire.DeviceMessage:
		return s.handleDeviceMessage(ctx, m)
	default:
		return wire.NewError(msg.MessageID(), wire.ErrorClassMessage,
			fmt.Sprintf("%s is not a request", msg.Kind()))
	}
}

func (s *Server) handleDeviceMessage(ctx context.Context, msg wire.DeviceMessage) wire.Message {
	p, ok := s.Device(msg.Device())
	if !ok {
		s.debugLog("unknown device", "index", msg.Device(), "kind", msg.Kind().String())
		return wire.NewError(msg.MessageID(), wire.ErrorClassDevice,
			fmt.Sprintf("device index %d not found", msg.Device()))
	}

	resp, err := p.HandleMessage(ctx, msg)
	if err != nil {
		if errors.Is(err, protocol.ErrUnsupportedCommand) {
			return wire.NewError(msg.MessageID(), wire.ErrorClassMessage, err.Error())
		}
		return wire.NewError(msg.MessageID(), wire.ErrorClassUnknown, err.Error())
	}
	return resp
}

// Deliver decodes an encoded request, handles it and publishes the encoded
// response through the message handler before returning.
func (s *Server) Deliver(ctx context.Context, data []byte) error {
	msg, err := wire.Decode(data)
	if err != nil {
		return err
	}

	resp := s.HandleMessage(ctx, msg)

	out, err := wire.Encode(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	s.publish(out)
	return nil
}

func (s *Server) publish(data []byte) {
	s.mu.RLock()
	handler := s.msgHandler
	s.mu.RUnlock()

	if handler != nil {
		handler(data)
	}
}

// debugLog logs a debug message if logging is enabled.
func (s *Server) debugLog(msg string, args ...any) {
	s.mu.RLock()
	logger := s.logger
	s.mu.RUnlock()

	if logger != nil {
		logger.Debug(msg, args...)
	}
}
