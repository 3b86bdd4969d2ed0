package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motion-protocol/motion-go/pkg/config"
	"github.com/motion-protocol/motion-go/pkg/protocol"
	"github.com/motion-protocol/motion-go/pkg/wire"
)

func TestServerFactoryFreshDevices(t *testing.T) {
	var out bytes.Buffer
	newServer, err := serverFactory(config.Default().Devices, nil, func() io.Writer { return &out })
	require.NoError(t, err)

	first := newServer()
	second := newServer()
	require.Len(t, first.Devices(), 3)

	p1, ok := first.Device(0)
	require.True(t, ok)
	p2, ok := second.Device(0)
	require.True(t, ok)
	assert.NotSame(t, p1, p2)
	assert.True(t, p1.Capabilities().Has(protocol.CapVibrate))

	_, err = p1.HandleMessage(context.Background(), &wire.SingleMotorVibrateCmd{ID: 1, DeviceIndex: 0, Speed: 0.5})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "vibrate 0.50")
	assert.Equal(t, 0.0, p2.State().VibrateSpeed)
}

func TestServerFactoryInvalidDevice(t *testing.T) {
	_, err := serverFactory([]config.DeviceConfig{{Name: "x", Capabilities: []string{"tickle"}}}, nil, nil)
	assert.ErrorIs(t, err, config.ErrUnknownCapability)
}

func TestServerFactoryDevicesChangedAfterValidation(t *testing.T) {
	devices := config.Default().Devices
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	newServer, err := serverFactory(devices, logger, func() io.Writer { return io.Discard })
	require.NoError(t, err)

	devices[0].Capabilities = []string{"tickle"}
	srv := newServer()

	assert.Empty(t, srv.Devices())
	assert.Contains(t, logs.String(), "failed to create devices")
	assert.Contains(t, logs.String(), "tickle")
}
