package input

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"hogpd/device/keyboard"
	"hogpd/internal/engine"
)

func init() {
	Register("terminal", func(cfg Config, logger *slog.Logger) (Backend, error) {
		return &terminalBackend{logger: logger}, nil
	})
}

// terminalBackend types through the peripheral: it puts the controlling
// terminal into raw mode and forwards every keystroke as a press/release
// pair. Ctrl-C stops the backend.
type terminalBackend struct {
	logger *slog.Logger
}

const (
	byteCtrlC     = 0x03
	byteEscape    = 0x1B
	byteBackspace = 0x7F

	// escTimeout separates a lone Escape press from an escape sequence.
	escTimeout = 25 * time.Millisecond
)

func (b *terminalBackend) Run(ctx context.Context, cmds chan<- engine.Command) error {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer func() { _ = term.Restore(fd, old) }()

	b.logger.Info("terminal capture active, Ctrl-C to stop")

	bytes := make(chan byte, 16)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(bytes)
				return
			}
			if n == 1 {
				select {
				case bytes <- buf[0]:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-bytes:
			if !ok {
				return nil
			}
			if c == byteCtrlC {
				return nil
			}
			b.handleByte(ctx, cmds, bytes, c)
		}
	}
}

func (b *terminalBackend) handleByte(ctx context.Context, cmds chan<- engine.Command, bytes <-chan byte, c byte) {
	switch c {
	case byteEscape:
		if usage, ok := readEscapeSequence(bytes); ok {
			b.tap(ctx, cmds, usage, false)
		} else {
			b.tap(ctx, cmds, keyboard.KeyEscape, false)
		}
	case '\r', '\n':
		b.tap(ctx, cmds, keyboard.KeyEnter, false)
	case '\t':
		b.tap(ctx, cmds, keyboard.KeyTab, false)
	case byteBackspace:
		b.tap(ctx, cmds, keyboard.KeyBackspace, false)
	default:
		usage := keyboard.CharToHID(c)
		if usage == 0 {
			b.logger.Debug("unmapped byte", "value", c)
			return
		}
		b.tap(ctx, cmds, usage, keyboard.NeedsShift(c))
	}
}

// readEscapeSequence consumes a CSI arrow sequence (ESC [ A..D) if one
// follows quickly enough. ok is false for a lone Escape press.
func readEscapeSequence(bytes <-chan byte) (usage uint8, ok bool) {
	next := func() (byte, bool) {
		select {
		case c, open := <-bytes:
			return c, open
		case <-time.After(escTimeout):
			return 0, false
		}
	}

	c, open := next()
	if !open || c != '[' {
		return 0, false
	}
	c, open = next()
	if !open {
		return 0, false
	}
	switch c {
	case 'A':
		return keyboard.KeyUp, true
	case 'B':
		return keyboard.KeyDown, true
	case 'C':
		return keyboard.KeyRight, true
	case 'D':
		return keyboard.KeyLeft, true
	default:
		return 0, false
	}
}

// tap sends a full press/release cycle, wrapping it in Shift when the
// character needs it.
func (b *terminalBackend) tap(ctx context.Context, cmds chan<- engine.Command, usage uint8, shift bool) {
	send := func(cmd engine.Command) bool {
		select {
		case cmds <- cmd:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if shift && !send(engine.Command{Kind: engine.KeyDown, Usage: keyboard.KeyLeftShift}) {
		return
	}
	if !send(engine.Command{Kind: engine.KeyDown, Usage: usage}) {
		return
	}
	if !send(engine.Command{Kind: engine.KeyUp, Usage: usage}) {
		return
	}
	if shift {
		send(engine.Command{Kind: engine.KeyUp, Usage: keyboard.KeyLeftShift})
	}
}
