package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hogpd/device"
	"hogpd/device/keyboard"
	"hogpd/device/mouse"
	"hogpd/gatt"
	"hogpd/internal/log"
)

// Config carries the engine parameters.
type Config struct {
	// Name is the device name advertised to hosts and exposed in the
	// Device Information service.
	Name string
	// Appearance is the advertised appearance code.
	Appearance uint16
	// Backoff is the adapter power-on retry schedule.
	Backoff BackoffConfig
}

// Engine owns the peripheral lifecycle and serializes all input commands
// onto one goroutine. Protocol state (pressed keys, mouse buttons, battery
// level) is touched only from Run, so no locking is needed.
type Engine struct {
	cfg       Config
	transport Transport
	logger    *slog.Logger
	rawLogger log.RawLogger

	profile *gatt.Profile
	machine Machine

	keys    keyboard.InputState
	buttons uint8
	battery uint8

	registered bool

	cmds chan Command
}

// New creates an engine around the given transport.
func New(cfg Config, tr Transport, logger *slog.Logger, rawLogger log.RawLogger) *Engine {
	if cfg.Appearance == 0 {
		cfg.Appearance = gatt.AppearanceHID
	}
	return &Engine{
		cfg:       cfg,
		transport: tr,
		logger:    logger,
		rawLogger: rawLogger,
		profile:   gatt.BuildProfile(cfg.Name),
		cmds:      make(chan Command, 64),
	}
}

// Commands returns the channel input producers write to.
func (e *Engine) Commands() chan<- Command {
	return e.cmds
}

// Status returns the lifecycle snapshot. Only meaningful from the Run
// goroutine or after Run returns; exposed for tests.
func (e *Engine) Status() Status {
	return e.machine.Current()
}

// Run drives the peripheral until ctx is cancelled or a fatal error occurs.
// It powers on the adapter with backoff, registers the GATT services once,
// advertises, and forwards input commands as report notifications while a
// central is connected.
func (e *Engine) Run(ctx context.Context) error {
	e.machine.Start()
	e.logger.Info("starting peripheral", "name", e.cfg.Name, "state", e.machine.Current().String())

	// Fires immediately for the first power probe; afterwards only armed
	// while PoweringOn.
	probe := time.NewTimer(0)
	defer probe.Stop()

	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return nil

		case <-probe.C:
			if err := e.probePower(probe); err != nil {
				return err
			}

		case ev, ok := <-e.transport.Events():
			if !ok {
				return fmt.Errorf("transport event stream closed")
			}
			if err := e.handleEvent(ev, probe); err != nil {
				return err
			}

		case cmd := <-e.cmds:
			e.handleCommand(cmd)
		}
	}
}

func (e *Engine) shutdown() {
	st := e.machine.Current()
	e.logger.Info("shutting down", "state", st.String())
	if st.State == Advertising || st.State == Connected {
		if err := e.transport.StopAdvertising(); err != nil {
			e.logger.Warn("failed to stop advertising", "error", err)
		}
	}
}

// probePower runs one PoweringOn iteration: check the adapter, advertise on
// success, otherwise re-arm the probe timer with the next backoff delay.
func (e *Engine) probePower(probe *time.Timer) error {
	if e.machine.Current().State != PoweringOn {
		return nil
	}

	powered, err := e.transport.Powered()
	if err == nil && powered {
		return e.goAdvertise(probe)
	}
	if err != nil {
		e.logger.Debug("adapter probe failed", "error", err)
	}
	return e.retryPower(probe)
}

// retryPower records a failed power-on attempt and arms the next probe with
// the backoff delay for the number of failures so far.
func (e *Engine) retryPower(probe *time.Timer) error {
	st := e.machine.RadioNotReady()
	if e.cfg.Backoff.MaxAttempts > 0 && st.Attempt > e.cfg.Backoff.MaxAttempts {
		return fmt.Errorf("adapter not powered after %d attempts", e.cfg.Backoff.MaxAttempts)
	}
	delay := e.cfg.Backoff.Delay(st.Attempt - 1)
	e.logger.Debug("adapter not ready", "attempt", st.Attempt, "retry_in", delay)
	probe.Reset(delay)
	return nil
}

// goAdvertise registers the services on the first pass and starts
// advertising. Registration failure is fatal, advertising failure retries
// through the backoff path.
func (e *Engine) goAdvertise(probe *time.Timer) error {
	if !e.registered {
		if err := e.transport.RegisterServices(e.profile); err != nil {
			return fmt.Errorf("register GATT services: %w", err)
		}
		e.registered = true
		e.logger.Info("GATT services registered")
	}

	adv := Advertisement{
		Name:       e.cfg.Name,
		Appearance: e.cfg.Appearance,
		Services:   gatt.AdvertisedServices(),
	}
	if err := e.transport.StartAdvertising(adv); err != nil {
		e.logger.Warn("failed to start advertising", "error", err)
		return e.retryPower(probe)
	}
	e.machine.RadioReady()
	e.logger.Info("advertising", "name", adv.Name, "appearance", adv.Appearance)
	return nil
}

func (e *Engine) handleEvent(ev Event, probe *time.Timer) error {
	e.logger.Debug("transport event", "event", ev.Kind.String())

	switch ev.Kind {
	case EventReady:
		if e.machine.Current().State == PoweringOn {
			return e.goAdvertise(probe)
		}

	case EventPowerToggle:
		e.machine.PowerToggled()
		e.resetInput()
		e.logger.Info("adapter power toggled, restarting", "state", e.machine.Current().String())
		probe.Reset(0)

	case EventConnected:
		st := e.machine.Connect(ev.Peer)
		if st.State == Connected {
			e.logger.Info("central connected", "peer", st.Peer)
		}

	case EventDisconnected:
		e.onDisconnect("central disconnected")

	case EventSendFailed:
		if e.machine.Current().State == Connected {
			e.logger.Warn("notification failed", "error", ev.Err)
			e.onDisconnect("send failure, treating central as gone")
		}
	}
	return nil
}

// onDisconnect drops back to Advertising and clears transient input state
// so a reconnecting host never sees keys that were released in between.
func (e *Engine) onDisconnect(reason string) {
	if e.machine.Current().State != Connected {
		return
	}
	e.machine.Disconnect()
	e.resetInput()
	e.logger.Info(reason, "state", e.machine.Current().String())
	if err := e.transport.StartAdvertising(Advertisement{
		Name:       e.cfg.Name,
		Appearance: e.cfg.Appearance,
		Services:   gatt.AdvertisedServices(),
	}); err != nil {
		e.logger.Warn("failed to resume advertising", "error", err)
	}
}

func (e *Engine) resetInput() {
	e.keys.Reset()
	e.buttons = 0
}

// handleCommand applies one input command. Key and button state is tracked
// in every lifecycle state; reports only go out while Connected.
func (e *Engine) handleCommand(cmd Command) {
	switch cmd.Kind {
	case KeyDown:
		e.keys.Press(cmd.Usage)
		e.sendReport(e.keys)

	case KeyUp:
		e.keys.Release(cmd.Usage)
		e.sendReport(e.keys)

	case MouseMove:
		e.sendReport(mouse.InputState{
			Buttons: e.buttons,
			DX:      mouse.Clamp(cmd.DX),
			DY:      mouse.Clamp(cmd.DY),
		})

	case MouseButton:
		st := mouse.InputState{Buttons: e.buttons}
		st.SetButton(cmd.Button, cmd.Pressed)
		e.buttons = st.Buttons
		e.sendReport(st)

	case Wheel:
		e.sendReport(mouse.InputState{
			Buttons: e.buttons,
			Wheel:   mouse.Clamp(cmd.Delta),
		})

	case BatteryLevel:
		if cmd.Percent > 100 {
			cmd.Percent = 100
		}
		if cmd.Percent == e.battery {
			return
		}
		e.battery = cmd.Percent
		if err := e.transport.SetBatteryLevel(cmd.Percent); err != nil {
			e.logger.Warn("failed to update battery level", "error", err)
		}
	}
}

// sendReport builds the Input Report and notifies the connected central.
// Outside Connected nothing is built or sent; a synchronous send error is
// an implicit disconnect.
func (e *Engine) sendReport(src device.ReportBuilder) {
	if e.machine.Current().State != Connected {
		return
	}
	report := src.BuildReport()
	e.rawLogger.Log(false, report)
	if err := e.transport.Send(report); err != nil {
		e.logger.Warn("send failed", "error", err)
		e.onDisconnect("send failure, treating central as gone")
	}
}
