// Command motion-sim runs simulated motion devices behind a client bridge
// and drives them from an interactive shell.
//
// Usage:
//
//	motion-sim [flags]
//
// Flags:
//
//	-config string        Configuration file path (default: built-in devices)
//	-address string       Bridge address recorded in protocol logs
//	-protocol-log string  Write a CBOR protocol capture to this file
//	-log-level string     Log level: debug, info, warn, error
//	-interactive          Start the command shell (default true)
//
// Bridge settings can also come from MOTION_ADDRESS, MOTION_PROTOCOL_LOG,
// MOTION_PROTOCOL_LOG_MAX_SIZE_MB, MOTION_PROTOCOL_LOG_MAX_BACKUPS and
// MOTION_LOG_LEVEL. Flags take precedence over the environment, which takes
// precedence over the config file.
//
// Examples:
//
//	# Start with the three built-in devices
//	motion-sim
//
//	# Load devices from a file and capture traffic
//	motion-sim -config devices.yaml -protocol-log session.mlog
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/motion-protocol/motion-go/cmd/motion-sim/interactive"
	"github.com/motion-protocol/motion-go/pkg/config"
	"github.com/motion-protocol/motion-go/pkg/interaction"
	protolog "github.com/motion-protocol/motion-go/pkg/log"
	"github.com/motion-protocol/motion-go/pkg/wire"
)

// Flags holds command-line overrides for the configuration file.
type Flags struct {
	ConfigFile  string
	Address     string
	ProtocolLog string
	LogLevel    string
	Interactive bool
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.Address, "address", "", "Bridge address recorded in protocol logs")
	flag.StringVar(&flags.ProtocolLog, "protocol-log", "", "Write a CBOR protocol capture to this file")
	flag.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&flags.Interactive, "interactive", true, "Start the command shell")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: motion-sim [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := setupLogging(cfg.Bridge.LogLevel)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Println("Motion Simulator")
	log.Println("================")
	log.Printf("Devices: %d", len(cfg.Devices))

	// Protocol events always reach slog at debug level.
	protocolLoggers := []protolog.Logger{protolog.NewSlogAdapter(logger)}
	if cfg.Bridge.ProtocolLog != "" {
		fileLogger, err := openProtocolLog(cfg.Bridge)
		if err != nil {
			log.Fatalf("Failed to open protocol log: %v", err)
		}
		defer fileLogger.Close()
		protocolLoggers = append(protocolLoggers, fileLogger)
		log.Printf("Protocol log: %s", cfg.Bridge.ProtocolLog)
	}

	var history *protolog.MemoryLogger
	if flags.Interactive {
		history = &protolog.MemoryLogger{}
		protocolLoggers = append(protocolLoggers, history)
	}

	var eventOut io.Writer = os.Stdout
	newServer, err := serverFactory(cfg.Devices, logger, func() io.Writer { return eventOut })
	if err != nil {
		log.Fatalf("Failed to create devices: %v", err)
	}

	clientCfg := interaction.DefaultClientConfig()
	clientCfg.NewServer = newServer
	clientCfg.Logger = logger
	clientCfg.ProtocolLogger = protolog.NewMultiLogger(protocolLoggers...)

	var client *interaction.Client
	clientCfg.Initializer = interaction.InitializerFunc(func(ctx context.Context) error {
		resp, err := client.Send(ctx, &wire.RequestDeviceList{ID: client.NextMessageID()})
		if err != nil {
			return err
		}
		if list, ok := resp.(*wire.DeviceList); ok {
			logger.Info("device list received", "devices", len(list.Devices))
		}
		return nil
	})
	client = interaction.NewClient(clientCfg)
	client.OnClosed(func() { log.Println("Bridge disconnected") })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var shell *interactive.Shell
	if flags.Interactive {
		shell, err = interactive.New(client)
		if err != nil {
			log.Fatalf("Failed to start shell: %v", err)
		}
		shell.SetHistory(history)
		eventOut = shell.Stdout()
		log.SetOutput(shell.Stdout())
	}

	if err := client.Connect(ctx, cfg.Bridge.Address); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Disconnect()
	log.Printf("Connected (state: %s)", client.State())

	if shell != nil {
		shell.Run(ctx, cancel)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Printf("Received signal: %v", sig)
	log.Println("Shutting down...")
}

// loadConfig reads the config file, or the built-in default, and applies
// environment and flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if flags.ConfigFile != "" {
		loaded, err := config.Load(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	// Flags win over the file and the environment.
	if flags.Address != "" {
		cfg.Bridge.Address = flags.Address
	}
	if flags.ProtocolLog != "" {
		cfg.Bridge.ProtocolLog = flags.ProtocolLog
	}
	if flags.LogLevel != "" {
		cfg.Bridge.LogLevel = flags.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openProtocolLog opens the capture file, rotating it when a size limit is
// configured.
func openProtocolLog(bridge config.BridgeConfig) (*protolog.FileLogger, error) {
	if bridge.ProtocolLogMaxSizeMB > 0 {
		return protolog.NewRotatingLogger(bridge.ProtocolLog, bridge.ProtocolLogMaxSizeMB, bridge.ProtocolLogMaxBackups), nil
	}
	return protolog.NewFileLogger(bridge.ProtocolLog)
}

func setupLogging(level string) (*slog.Logger, error) {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}

	log.SetFlags(log.Ltime | log.Lmicroseconds)
	if lvl == slog.LevelDebug {
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), nil
}
