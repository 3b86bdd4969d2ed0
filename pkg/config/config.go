// Package config loads simulator and bridge settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/motion-protocol/motion-go/pkg/protocol"
)

// Validation errors.
var (
	ErrNoDevices         = errors.New("no devices configured")
	ErrDeviceName        = errors.New("device name is required")
	ErrDuplicateDevice   = errors.New("duplicate device name")
	ErrNoCapabilities    = errors.New("device has no capabilities")
	ErrUnknownCapability = errors.New("unknown capability")
	ErrLogLevel          = errors.New("invalid log level")
	ErrRotation          = errors.New("invalid protocol log rotation")
)

// Config is the top-level configuration file.
type Config struct {
	Bridge  BridgeConfig   `yaml:"bridge"`
	Devices []DeviceConfig `yaml:"devices"`
}

// BridgeConfig configures the client bridge. Every field can be overridden
// from the environment, see ApplyEnv.
type BridgeConfig struct {
	// Address is recorded in protocol logs; the bridge is in-process.
	Address string `yaml:"address" env:"MOTION_ADDRESS"`

	// ProtocolLog is the path of the CBOR capture file. Empty disables it.
	ProtocolLog string `yaml:"protocol_log" env:"MOTION_PROTOCOL_LOG"`

	// ProtocolLogMaxSizeMB rotates the capture file at this size. Zero
	// disables rotation.
	ProtocolLogMaxSizeMB int `yaml:"protocol_log_max_size_mb" env:"MOTION_PROTOCOL_LOG_MAX_SIZE_MB"`

	// ProtocolLogMaxBackups is the number of rotated files to keep.
	ProtocolLogMaxBackups int `yaml:"protocol_log_max_backups" env:"MOTION_PROTOCOL_LOG_MAX_BACKUPS"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"MOTION_LOG_LEVEL"`
}

// DeviceConfig describes one simulated device.
type DeviceConfig struct {
	Name         string   `yaml:"name"`
	Address      string   `yaml:"address"`
	Capabilities []string `yaml:"capabilities"`
}

// LoadError reports a configuration file that could not be used.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Default returns a configuration with one device of each capability.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Address:  "local",
			LogLevel: "info",
		},
		Devices: []DeviceConfig{
			{Name: "Test Vibrator", Address: "sim:vibrator", Capabilities: []string{"vibrate"}},
			{Name: "Test Launch", Address: "sim:launch", Capabilities: []string{"linear"}},
			{Name: "Test Rotator", Address: "sim:rotator", Capabilities: []string{"rotate"}},
		},
	}
}

// Parse parses and validates YAML configuration. Missing bridge settings
// keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{Bridge: Default().Bridge}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Message: "invalid configuration", Cause: err}
	}
	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides bridge settings from MOTION_* environment variables.
// Unset variables leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(&c.Bridge); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.Bridge.LogLevel); err != nil {
		return err
	}
	if c.Bridge.ProtocolLogMaxSizeMB < 0 || c.Bridge.ProtocolLogMaxBackups < 0 {
		return ErrRotation
	}
	if len(c.Devices) == 0 {
		return ErrNoDevices
	}

	seen := make(map[string]bool, len(c.Devices))
	for i, d := range c.Devices {
		if d.Name == "" {
			return fmt.Errorf("device %d: %w", i, ErrDeviceName)
		}
		if seen[d.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateDevice, d.Name)
		}
		seen[d.Name] = true

		if _, err := d.ParseCapabilities(); err != nil {
			return fmt.Errorf("device %q: %w", d.Name, err)
		}
	}
	return nil
}

// ParseCapabilities converts the capability names to protocol flags.
func (d DeviceConfig) ParseCapabilities() (protocol.Capabilities, error) {
	if len(d.Capabilities) == 0 {
		return 0, ErrNoCapabilities
	}

	var caps protocol.Capabilities
	for _, name := range d.Capabilities {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "vibrate":
			caps |= protocol.CapVibrate
		case "linear":
			caps |= protocol.CapLinear
		case "rotate":
			caps |= protocol.CapRotate
		default:
			return 0, fmt.Errorf("%w: %q", ErrUnknownCapability, name)
		}
	}
	return caps, nil
}

// ParseLogLevel maps a level name to a slog level. Empty means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrLogLevel, level)
	}
}
