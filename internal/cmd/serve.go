// Package cmd holds the kong command implementations.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hogpd/internal/battery"
	"hogpd/internal/bluez"
	"hogpd/internal/engine"
	"hogpd/internal/input"
	"hogpd/internal/log"
)

// DeviceConfig names the peripheral as hosts see it.
type DeviceConfig struct {
	Name       string `help:"Device name advertised to hosts" default:"hogpd" env:"HOGPD_NAME"`
	Appearance uint16 `help:"Advertised appearance code" default:"960" env:"HOGPD_APPEARANCE"`
}

// Serve runs the BLE HID peripheral.
type Serve struct {
	Device  DeviceConfig         `embed:"" prefix:"device."`
	Backoff engine.BackoffConfig `embed:"" prefix:"backoff."`
	Input   input.Config         `embed:"" prefix:"input."`
	Battery battery.Config       `embed:"" prefix:"battery."`

	Adapter string `help:"Bluetooth controller to bind (for example hci0), empty picks the first" env:"HOGPD_ADAPTER"`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting hogpd", "device", s.Device.Name, "adapter", s.Adapter)

	transport, err := bluez.New(bluez.Config{Adapter: s.Adapter}, logger, rawLogger)
	if err != nil {
		return err
	}
	defer func() { _ = transport.Close() }()

	eng := engine.New(engine.Config{
		Name:       s.Device.Name,
		Appearance: s.Device.Appearance,
		Backoff:    s.Backoff,
	}, transport, logger, rawLogger)

	backend, err := input.New(s.Input, logger)
	if err != nil {
		return err
	}

	engErr := make(chan error, 1)
	go func() { engErr <- eng.Run(ctx) }()

	go func() {
		if err := battery.NewMonitor(s.Battery, logger).Run(ctx, eng.Commands()); err != nil {
			logger.Warn("battery monitor stopped", "error", err)
		}
	}()

	inputDone := make(chan error, 1)
	if backend != nil {
		go func() { inputDone <- backend.Run(ctx, eng.Commands()) }()
	}

	select {
	case <-ctx.Done():
		return <-engErr
	case err := <-engErr:
		return err
	case err := <-inputDone:
		if err != nil {
			logger.Error("input backend failed", "error", err)
		} else {
			logger.Info("input backend finished")
		}
		stop()
		if engineErr := <-engErr; engineErr != nil {
			return engineErr
		}
		return err
	}
}
