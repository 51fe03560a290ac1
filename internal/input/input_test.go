package input

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hogpd/device/keyboard"
	"hogpd/internal/engine"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewNoneReturnsNilBackend(t *testing.T) {
	b, err := New(Config{Source: "none"}, testLogger())
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = New(Config{}, testLogger())
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(Config{Source: "telepathy"}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telepathy")
}

func TestRegisteredBackends(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "terminal")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register("terminal", func(Config, *slog.Logger) (Backend, error) { return nil, nil })
	})
}

func TestReadEscapeSequenceArrows(t *testing.T) {
	type testCase struct {
		seq  []byte
		want uint8
	}
	cases := []testCase{
		{[]byte{'[', 'A'}, keyboard.KeyUp},
		{[]byte{'[', 'B'}, keyboard.KeyDown},
		{[]byte{'[', 'C'}, keyboard.KeyRight},
		{[]byte{'[', 'D'}, keyboard.KeyLeft},
	}
	for _, tc := range cases {
		ch := make(chan byte, len(tc.seq))
		for _, c := range tc.seq {
			ch <- c
		}
		usage, ok := readEscapeSequence(ch)
		require.True(t, ok, "sequence %q", tc.seq)
		assert.Equal(t, tc.want, usage)
	}
}

func TestReadEscapeSequenceLoneEscape(t *testing.T) {
	ch := make(chan byte)
	_, ok := readEscapeSequence(ch)
	assert.False(t, ok)

	ch = make(chan byte, 1)
	ch <- 'x'
	_, ok = readEscapeSequence(ch)
	assert.False(t, ok)
}

func TestTerminalTapEmitsPressReleasePairs(t *testing.T) {
	b := &terminalBackend{logger: testLogger()}
	cmds := make(chan engine.Command, 8)

	b.tap(context.Background(), cmds, keyboard.KeyA, false)
	require.Len(t, cmds, 2)
	assert.Equal(t, engine.Command{Kind: engine.KeyDown, Usage: keyboard.KeyA}, <-cmds)
	assert.Equal(t, engine.Command{Kind: engine.KeyUp, Usage: keyboard.KeyA}, <-cmds)

	b.tap(context.Background(), cmds, keyboard.Key1, true)
	require.Len(t, cmds, 4)
	assert.Equal(t, engine.Command{Kind: engine.KeyDown, Usage: keyboard.KeyLeftShift}, <-cmds)
	assert.Equal(t, engine.Command{Kind: engine.KeyDown, Usage: keyboard.Key1}, <-cmds)
	assert.Equal(t, engine.Command{Kind: engine.KeyUp, Usage: keyboard.Key1}, <-cmds)
	assert.Equal(t, engine.Command{Kind: engine.KeyUp, Usage: keyboard.KeyLeftShift}, <-cmds)
}

func TestTerminalHandleByteMapsCharacters(t *testing.T) {
	b := &terminalBackend{logger: testLogger()}
	cmds := make(chan engine.Command, 8)
	bytes := make(chan byte)

	b.handleByte(context.Background(), cmds, bytes, '\r')
	assert.Equal(t, engine.Command{Kind: engine.KeyDown, Usage: keyboard.KeyEnter}, <-cmds)
	assert.Equal(t, engine.Command{Kind: engine.KeyUp, Usage: keyboard.KeyEnter}, <-cmds)

	b.handleByte(context.Background(), cmds, bytes, 'Z')
	assert.Equal(t, engine.Command{Kind: engine.KeyDown, Usage: keyboard.KeyLeftShift}, <-cmds)
	assert.Equal(t, engine.Command{Kind: engine.KeyDown, Usage: keyboard.KeyZ}, <-cmds)

	// Unmapped bytes are dropped.
	drain := make(chan engine.Command, 8)
	b.handleByte(context.Background(), drain, bytes, 0x01)
	assert.Empty(t, drain)
}
