package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/motion-protocol/motion-go/pkg/config"
	"github.com/motion-protocol/motion-go/pkg/device"
	"github.com/motion-protocol/motion-go/pkg/interaction"
	"github.com/motion-protocol/motion-go/pkg/protocol"
)

// buildProtocols creates one protocol per configured device.
func buildProtocols(devices []config.DeviceConfig) ([]*protocol.DeviceProtocol, error) {
	protocols := make([]*protocol.DeviceProtocol, 0, len(devices))
	for _, dc := range devices {
		caps, err := dc.ParseCapabilities()
		if err != nil {
			return nil, fmt.Errorf("device %q: %w", dc.Name, err)
		}
		address := dc.Address
		if address == "" {
			address = "sim:" + dc.Name
		}
		p, err := protocol.New[*device.Simulated](dc.Name, device.NewSimulated(dc.Name, address), caps)
		if err != nil {
			return nil, err
		}
		protocols = append(protocols, p)
	}
	return protocols, nil
}

// serverFactory returns a ClientConfig.NewServer that registers fresh
// protocols for every connection and prints their motion events to out.
func serverFactory(devices []config.DeviceConfig, logger *slog.Logger, out func() io.Writer) (func() *interaction.Server, error) {
	// Validate once up front so the factory itself cannot fail.
	if _, err := buildProtocols(devices); err != nil {
		return nil, err
	}

	return func() *interaction.Server {
		srv := interaction.NewServer()
		srv.SetLogger(logger)

		protocols, err := buildProtocols(devices)
		if err != nil {
			if logger != nil {
				logger.Error("failed to create devices", "error", err)
			}
			return srv
		}
		for _, p := range protocols {
			p.SetLogger(logger)
			idx := srv.AddDevice(p)
			watch(p, idx, out)
		}
		return srv
	}, nil
}

func watch(p *protocol.DeviceProtocol, idx uint32, out func() io.Writer) {
	p.OnVibrate(func(e protocol.VibrateEvent) {
		fmt.Fprintf(out(), "[EVENT] [%d] %s vibrate %.2f\n", idx, p.Name(), e.Speed)
	})
	p.OnRotate(func(e protocol.RotateEvent) {
		fmt.Fprintf(out(), "[EVENT] [%d] %s rotate %.2f clockwise=%t\n", idx, p.Name(), e.Speed, e.Clockwise)
	})
	p.OnLinear(func(e protocol.LinearEvent) {
		fmt.Fprintf(out(), "[EVENT] [%d] %s move to %d at speed %d\n", idx, p.Name(), e.Position, e.Speed)
	})
}
