package interaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/motion-protocol/motion-go/pkg/log"
	"github.com/motion-protocol/motion-go/pkg/wire"
)

// Client errors.
var (
	ErrNotConnected    = errors.New("client is not connected")
	ErrDeviceRejected  = errors.New("device rejected command")
	ErrMessageRejected = errors.New("processor rejected message")
)

// ConnectionState is the bridge connection state.
type ConnectionState uint8

const (
	StateDisconnected ConnectionState = iota
	StateConnected
)

// String returns the state name.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// Initializer performs the connection handshake. It is called once per
// Connect, after the client is connected, so it may use Send.
type Initializer interface {
	InitializeConnection(ctx context.Context) error
}

// InitializerFunc adapts a function to Initializer.
type InitializerFunc func(ctx context.Context) error

// InitializeConnection calls f.
func (f InitializerFunc) InitializeConnection(ctx context.Context) error {
	return f(ctx)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// Initializer runs the handshake on Connect. Required.
	Initializer Initializer

	// NewServer creates the processor for each Connect. Required.
	NewServer func() *Server

	// Logger receives operational logs (optional).
	Logger *slog.Logger

	// ProtocolLogger captures every message and state change (optional).
	ProtocolLogger log.Logger
}

// DefaultClientConfig returns a config with a no-op handshake and a fresh
// empty Server per connection.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Initializer: InitializerFunc(func(context.Context) error { return nil }),
		NewServer:   NewServer,
	}
}

// ResponseError is returned by Send when the processor answers with an
// Error message.
type ResponseError struct {
	ID      uint32
	Class   wire.ErrorClass
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

// Unwrap maps the error class to ErrDeviceRejected or ErrMessageRejected.
func (e *ResponseError) Unwrap() error {
	switch e.Class {
	case wire.ErrorClassDevice:
		return ErrDeviceRejected
	case wire.ErrorClassMessage:
		return ErrMessageRejected
	default:
		return nil
	}
}

// Client bridges a caller to an in-process Server.
//
// One request is in flight at a time: concurrent Send calls queue behind
// each other and each waits for the response carrying its message ID.
type Client struct {
	config ClientConfig

	mu      sync.Mutex
	state   ConnectionState
	server  *Server
	address string
	connID  string

	// sendMu keeps a single request in flight.
	sendMu sync.Mutex

	pendingMu sync.Mutex
	pendingID uint32
	pending   chan wire.Message
	sentAt    time.Time

	handlersMu     sync.RWMutex
	msgHandlers    []func(wire.Message)
	closedHandlers []func()

	nextMsgID uint32
}

// NewClient creates a disconnected client.
func NewClient(config ClientConfig) *Client {
	if config.ProtocolLogger == nil {
		config.ProtocolLogger = log.NoopLogger{}
	}
	return &Client{config: config}
}

// State returns the connection state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connected reports whether the client is connected.
func (c *Client) Connected() bool {
	return c.State() == StateConnected
}

// Server returns the current processor, or nil when disconnected.
// Register devices on it after Connect.
func (c *Client) Server() *Server {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.server
}

// NextMessageID returns a fresh message ID. IDs start at 1.
func (c *Client) NextMessageID() uint32 {
	return atomic.AddUint32(&c.nextMsgID, 1)
}

// OnMessage registers a handler for every inbound message.
func (c *Client) OnMessage(fn func(wire.Message)) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.msgHandlers = append(c.msgHandlers, fn)
}

// OnClosed registers a handler called once per transition to disconnected.
func (c *Client) OnClosed(fn func()) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.closedHandlers = append(c.closedHandlers, fn)
}

// Connect creates a new processor, subscribes to its output and runs the
// handshake. The address is recorded for diagnostics only.
//
// Calling Connect while connected replaces the processor: devices
// registered on the previous one are gone.
func (c *Client) Connect(ctx context.Context, address string) error {
	srv := c.config.NewServer()
	srv.SetMessageHandler(c.handleInbound)

	c.mu.Lock()
	old := c.state
	c.server = srv
	c.address = address
	c.connID = uuid.New().String()
	c.state = StateConnected
	c.mu.Unlock()

	c.logStateChange(old, StateConnected, "connect")
	c.debugLog("connected", "address", address)

	if err := c.config.Initializer.InitializeConnection(ctx); err != nil {
		c.logError(log.LayerService, err, "initialize connection")
		c.Disconnect()
		return fmt.Errorf("initialize connection: %w", err)
	}
	return nil
}

// Disconnect drops the processor and fires the closed handlers. It does
// nothing when already disconnected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.state != StateConnected {
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnected
	c.server = nil
	c.mu.Unlock()

	// Wake a Send waiting on the old processor.
	c.pendingMu.Lock()
	if c.pending != nil {
		close(c.pending)
		c.pending = nil
	}
	c.pendingMu.Unlock()

	c.logStateChange(StateConnected, StateDisconnected, "disconnect")
	c.debugLog("disconnected")

	c.handlersMu.RLock()
	handlers := c.closedHandlers
	c.handlersMu.RUnlock()
	for _, fn := range handlers {
		fn()
	}
}

// Send delivers msg to the processor and waits for the response with the
// same message ID. Error responses are returned together with a
// *ResponseError.
func (c *Client) Send(ctx context.Context, msg wire.Message) (wire.Message, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	srv := c.server
	connected := c.state == StateConnected
	c.mu.Unlock()
	if !connected || srv == nil {
		return nil, ErrNotConnected
	}

	data, err := wire.Encode(msg)
	if err != nil {
		return nil, err
	}

	ch := make(chan wire.Message, 1)
	c.pendingMu.Lock()
	c.pendingID = msg.MessageID()
	c.pending = ch
	c.sentAt = time.Now()
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		if c.pending == ch {
			c.pending = nil
		}
		c.pendingMu.Unlock()
	}()

	c.logMessage(log.DirectionOut, msg, data, nil)

	if err := srv.Deliver(ctx, data); err != nil {
		c.logError(log.LayerWire, err, "deliver "+msg.Kind().String())
		return nil, err
	}

	var resp wire.Message
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r, ok := <-ch:
		if !ok {
			return nil, ErrNotConnected
		}
		resp = r
	}

	if e, ok := resp.(*wire.Error); ok {
		return resp, &ResponseError{ID: e.ID, Class: e.Class, Message: e.Message}
	}
	return resp, nil
}

// handleInbound parses a message published by the processor, completes a
// matching pending Send and passes the message to the OnMessage handlers.
func (c *Client) handleInbound(data []byte) {
	msg, err := wire.Decode(data)
	if err != nil {
		c.logError(log.LayerWire, err, "decode inbound message")
		return
	}

	var rtt *time.Duration
	c.pendingMu.Lock()
	if c.pending != nil && msg.MessageID() == c.pendingID {
		d := time.Since(c.sentAt)
		rtt = &d
		c.pending <- msg
		c.pending = nil
	}
	c.pendingMu.Unlock()

	c.logMessage(log.DirectionIn, msg, data, rtt)

	c.handlersMu.RLock()
	handlers := c.msgHandlers
	c.handlersMu.RUnlock()
	for _, fn := range handlers {
		fn(msg)
	}
}

func (c *Client) baseEvent() log.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		LocalRole:    log.RoleClient,
		Address:      c.address,
	}
}

func (c *Client) logMessage(dir log.Direction, msg wire.Message, data []byte, rtt *time.Duration) {
	e := c.baseEvent()
	e.Direction = dir
	e.Layer = log.LayerWire
	e.Category = log.CategoryMessage
	e.Message = log.NewMessageEvent(msg, data)
	e.Message.ProcessingTime = rtt
	c.config.ProtocolLogger.Log(e)
}

func (c *Client) logStateChange(from, to ConnectionState, reason string) {
	e := c.baseEvent()
	e.Layer = log.LayerService
	e.Category = log.CategoryState
	e.StateChange = &log.StateChangeEvent{
		OldState: from.String(),
		NewState: to.String(),
		Reason:   reason,
	}
	c.config.ProtocolLogger.Log(e)
}

func (c *Client) logError(layer log.Layer, err error, context string) {
	e := c.baseEvent()
	e.Layer = layer
	e.Category = log.CategoryError
	e.Error = &log.ErrorEventData{Layer: layer, Message: err.Error(), Context: context}
	c.config.ProtocolLogger.Log(e)
	if c.config.Logger != nil {
		c.config.Logger.Warn("client error", "context", context, "error", err)
	}
}

// debugLog logs a debug message if logging is enabled.
func (c *Client) debugLog(msg string, args ...any) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, args...)
	}
}
