//go:build linux

package input

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"

	"hogpd/device/keyboard"
	"hogpd/device/mouse"
	"hogpd/internal/engine"
)

func init() {
	Register("evdev", func(cfg Config, logger *slog.Logger) (Backend, error) {
		if cfg.Device == "" {
			return nil, fmt.Errorf("input: evdev backend needs --input.device")
		}
		return &evdevBackend{device: cfg.Device, logger: logger}, nil
	})
}

// Linux input event constants (linux/input-event-codes.h).
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	relX     = 0x00
	relY     = 0x01
	relWheel = 0x08

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112

	keyValueRelease = 0
	keyValuePress   = 1
	keyValueRepeat  = 2
)

// eviocgrab takes exclusive access so captured events do not also reach the
// local session.
const eviocgrab = 0x40044590

// inputEvent mirrors struct input_event.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// evdevBackend reads a Linux input device node and forwards its key,
// button and relative-motion events. Relative deltas accumulate until the
// device's sync event, then flush as one report per axis group.
type evdevBackend struct {
	device string
	logger *slog.Logger
}

func (b *evdevBackend) Run(ctx context.Context, cmds chan<- engine.Command) error {
	f, err := os.Open(b.device)
	if err != nil {
		return fmt.Errorf("input: open %s: %w", b.device, err)
	}
	defer f.Close()

	if err := unix.IoctlSetInt(int(f.Fd()), eviocgrab, 1); err != nil {
		b.logger.Warn("could not grab device, events also reach the local session", "error", err)
	}

	// Close unblocks the reader when ctx ends.
	go func() {
		<-ctx.Done()
		f.Close()
	}()

	b.logger.Info("capturing input device", "device", b.device)

	send := func(cmd engine.Command) bool {
		select {
		case cmds <- cmd:
			return true
		case <-ctx.Done():
			return false
		}
	}

	// held tracks what the device currently presses so the peripheral does
	// not keep keys down after the backend stops.
	held := map[uint8]bool{}
	buttons := uint8(0)
	defer func() { b.releaseAll(cmds, held, buttons) }()

	var dx, dy, wheel int
	var ev inputEvent
	for {
		if err := binary.Read(f, binary.NativeEndian, &ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("input: read %s: %w", b.device, err)
		}

		switch ev.Type {
		case evKey:
			if ev.Value == keyValueRepeat {
				continue
			}
			pressed := ev.Value == keyValuePress
			if mask, ok := buttonMask(ev.Code); ok {
				if pressed {
					buttons |= mask
				} else {
					buttons &^= mask
				}
				if !send(engine.Command{Kind: engine.MouseButton, Button: mask, Pressed: pressed}) {
					return nil
				}
				continue
			}
			usage, ok := keyboard.EvdevToUsage[ev.Code]
			if !ok {
				b.logger.Debug("unmapped key code", "code", ev.Code)
				continue
			}
			kind := engine.KeyUp
			if pressed {
				kind = engine.KeyDown
				held[usage] = true
			} else {
				delete(held, usage)
			}
			if !send(engine.Command{Kind: kind, Usage: usage}) {
				return nil
			}

		case evRel:
			switch ev.Code {
			case relX:
				dx += int(ev.Value)
			case relY:
				dy += int(ev.Value)
			case relWheel:
				wheel += int(ev.Value)
			}

		case evSyn:
			if dx != 0 || dy != 0 {
				if !send(engine.Command{Kind: engine.MouseMove, DX: dx, DY: dy}) {
					return nil
				}
				dx, dy = 0, 0
			}
			if wheel != 0 {
				if !send(engine.Command{Kind: engine.Wheel, Delta: wheel}) {
					return nil
				}
				wheel = 0
			}
		}
	}
}

// releaseAll emits release commands for everything still pressed when the
// backend stops. Non-blocking: if the engine is gone too, the commands are
// moot.
func (b *evdevBackend) releaseAll(cmds chan<- engine.Command, held map[uint8]bool, buttons uint8) {
	push := func(cmd engine.Command) {
		select {
		case cmds <- cmd:
		default:
		}
	}
	for usage := range held {
		push(engine.Command{Kind: engine.KeyUp, Usage: usage})
	}
	for _, mask := range []uint8{mouse.ButtonLeft, mouse.ButtonRight, mouse.ButtonMiddle} {
		if buttons&mask != 0 {
			push(engine.Command{Kind: engine.MouseButton, Button: mask, Pressed: false})
		}
	}
}

func buttonMask(code uint16) (uint8, bool) {
	switch code {
	case btnLeft:
		return mouse.ButtonLeft, true
	case btnRight:
		return mouse.ButtonRight, true
	case btnMiddle:
		return mouse.ButtonMiddle, true
	default:
		return 0, false
	}
}
