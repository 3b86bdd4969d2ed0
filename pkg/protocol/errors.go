package protocol

import (
	"errors"
	"fmt"

	"github.com/motion-protocol/motion-go/pkg/wire"
)

// Protocol errors.
var (
	ErrConfiguration      = errors.New("device configuration mismatch")
	ErrUnsupportedCommand = errors.New("unsupported command")
	ErrVectorCount        = errors.New("invalid vector count")
	ErrNoSubcommands      = errors.New("command has no subcommands")
)

// ConfigurationError is returned by New when the device handle is not of the
// type the protocol expects.
type ConfigurationError struct {
	Protocol string
	Expected string
	Actual   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: expected device %s, got %s", e.Protocol, e.Expected, e.Actual)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// UnsupportedCommandError is returned by HandleMessage for message kinds
// without a registered handler.
type UnsupportedCommandError struct {
	Protocol string
	Kind     wire.Kind
}

func (e *UnsupportedCommandError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.Protocol, e.Kind)
}

func (e *UnsupportedCommandError) Unwrap() error {
	return ErrUnsupportedCommand
}
