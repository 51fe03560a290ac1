package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hogpd/device"
	"hogpd/device/keyboard"
	"hogpd/device/mouse"
	"hogpd/gatt"
	"hogpd/internal/log"
)

type fakeTransport struct {
	mu sync.Mutex

	powered    bool
	poweredErr error

	registered int
	advStarts  int
	advStops   int
	sent       [][]byte
	sendErr    error
	battery    []uint8

	events chan Event
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{events: make(chan Event, 16)}
}

func (f *fakeTransport) Powered() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.powered, f.poweredErr
}

func (f *fakeTransport) setPowered(on bool) {
	f.mu.Lock()
	f.powered = on
	f.mu.Unlock()
}

func (f *fakeTransport) RegisterServices(p *gatt.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered++
	return nil
}

func (f *fakeTransport) StartAdvertising(adv Advertisement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advStarts++
	return nil
}

func (f *fakeTransport) StopAdvertising() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advStops++
	return nil
}

func (f *fakeTransport) Send(report []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, append([]byte(nil), report...))
	return nil
}

func (f *fakeTransport) setSendErr(err error) {
	f.mu.Lock()
	f.sendErr = err
	f.mu.Unlock()
}

func (f *fakeTransport) SetBatteryLevel(percent uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.battery = append(f.battery, percent)
	return nil
}

func (f *fakeTransport) Events() <-chan Event { return f.events }
func (f *fakeTransport) Close() error        { return nil }

func (f *fakeTransport) counts() (registered, advStarts, advStops int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registered, f.advStarts, f.advStops
}

func (f *fakeTransport) sentReports() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeTransport) batteryUpdates() []uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint8(nil), f.battery...)
}

// settle gives the engine goroutine time to drain one channel before the
// test feeds the other; commands and events are selected in random order
// when both are ready.
func settle() {
	time.Sleep(20 * time.Millisecond)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{
		Name: "hogpd-test",
		Backoff: BackoffConfig{
			Base: time.Millisecond,
			Max:  5 * time.Millisecond,
		},
	}
}

// startEngine runs the engine in the background and returns a cleanup-safe
// handle. The returned done channel receives Run's result.
func startEngine(t *testing.T, cfg Config, tr *fakeTransport) (*Engine, chan error, context.CancelFunc) {
	t.Helper()
	e := New(cfg, tr, testLogger(), log.NewRaw(nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	})
	return e, done, cancel
}

func waitAdvertising(t *testing.T, tr *fakeTransport) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, starts, _ := tr.counts()
		return starts >= 1
	}, time.Second, time.Millisecond)
}

func waitSent(t *testing.T, tr *fakeTransport, n int) [][]byte {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(tr.sentReports()) >= n
	}, time.Second, time.Millisecond)
	return tr.sentReports()
}

func TestEngineRegistersOnceAndAdvertises(t *testing.T) {
	tr := newFakeTransport()
	tr.setPowered(true)

	_, _, _ = startEngine(t, testConfig(), tr)
	waitAdvertising(t, tr)

	registered, starts, _ := tr.counts()
	assert.Equal(t, 1, registered)
	assert.Equal(t, 1, starts)
}

func TestEngineBacksOffUntilPowered(t *testing.T) {
	tr := newFakeTransport()

	_, _, _ = startEngine(t, testConfig(), tr)

	// Let a few probes fail before flipping the adapter on.
	time.Sleep(10 * time.Millisecond)
	registered, starts, _ := tr.counts()
	assert.Zero(t, registered)
	assert.Zero(t, starts)

	tr.setPowered(true)
	waitAdvertising(t, tr)

	registered, _, _ = tr.counts()
	assert.Equal(t, 1, registered)
}

func TestEngineGivesUpAfterMaxAttempts(t *testing.T) {
	tr := newFakeTransport()

	cfg := testConfig()
	cfg.Backoff.MaxAttempts = 3

	_, done, _ := startEngine(t, cfg, tr)

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "3 attempts")
	case <-time.After(time.Second):
		t.Fatal("engine did not give up")
	}
}

func TestEngineSendsOnlyWhileConnected(t *testing.T) {
	tr := newFakeTransport()
	tr.setPowered(true)

	e, _, _ := startEngine(t, testConfig(), tr)
	waitAdvertising(t, tr)

	// Dropped, but the pressed set still mutates. The settle sleeps keep
	// the command and event channels from racing each other.
	e.Commands() <- Command{Kind: KeyDown, Usage: keyboard.KeyA}
	settle()

	tr.events <- Event{Kind: EventConnected, Peer: "AA:BB:CC:DD:EE:FF"}
	settle()
	e.Commands() <- Command{Kind: KeyDown, Usage: keyboard.KeyB}

	sent := waitSent(t, tr, 1)
	require.Len(t, sent, 1)

	var st keyboard.InputState
	require.NoError(t, st.UnmarshalReport(sent[0]))
	assert.True(t, st.Held(keyboard.KeyA), "pre-connect press must survive")
	assert.True(t, st.Held(keyboard.KeyB))
}

func TestEngineMouseReportsCarryButtonState(t *testing.T) {
	tr := newFakeTransport()
	tr.setPowered(true)

	e, _, _ := startEngine(t, testConfig(), tr)
	waitAdvertising(t, tr)
	tr.events <- Event{Kind: EventConnected, Peer: "peer"}
	settle()

	e.Commands() <- Command{Kind: MouseButton, Button: mouse.ButtonLeft, Pressed: true}
	e.Commands() <- Command{Kind: MouseMove, DX: 300, DY: -300}
	e.Commands() <- Command{Kind: Wheel, Delta: -2}

	sent := waitSent(t, tr, 3)
	assert.Equal(t, []byte{device.ReportIDMouse, mouse.ButtonLeft, 0, 0, 0}, sent[0])
	assert.Equal(t, []byte{device.ReportIDMouse, mouse.ButtonLeft, 127, 0x81, 0}, sent[1], "deltas clamp, button mask persists")
	assert.Equal(t, []byte{device.ReportIDMouse, mouse.ButtonLeft, 0, 0, 0xFE}, sent[2])
}

func TestEngineSendFailureActsAsDisconnect(t *testing.T) {
	tr := newFakeTransport()
	tr.setPowered(true)

	e, _, _ := startEngine(t, testConfig(), tr)
	waitAdvertising(t, tr)
	tr.events <- Event{Kind: EventConnected, Peer: "peer"}
	settle()

	e.Commands() <- Command{Kind: KeyDown, Usage: keyboard.KeyA}
	waitSent(t, tr, 1)

	tr.setSendErr(io.ErrClosedPipe)
	e.Commands() <- Command{Kind: KeyDown, Usage: keyboard.KeyB}

	// The failed send resumes advertising.
	require.Eventually(t, func() bool {
		_, starts, _ := tr.counts()
		return starts >= 2
	}, time.Second, time.Millisecond)

	// Subsequent input is dropped until a new central connects.
	tr.setSendErr(nil)
	e.Commands() <- Command{Kind: KeyDown, Usage: keyboard.KeyC}
	time.Sleep(10 * time.Millisecond)
	assert.Len(t, tr.sentReports(), 1)

	// A fresh connection starts from a clean pressed set.
	tr.events <- Event{Kind: EventConnected, Peer: "peer2"}
	settle()
	e.Commands() <- Command{Kind: KeyDown, Usage: keyboard.KeyD}
	sent := waitSent(t, tr, 2)

	var st keyboard.InputState
	require.NoError(t, st.UnmarshalReport(sent[1]))
	assert.False(t, st.Held(keyboard.KeyA))
	assert.False(t, st.Held(keyboard.KeyB))
	assert.True(t, st.Held(keyboard.KeyD))
}

func TestEngineDisconnectResumesAdvertising(t *testing.T) {
	tr := newFakeTransport()
	tr.setPowered(true)

	_, _, _ = startEngine(t, testConfig(), tr)
	waitAdvertising(t, tr)

	tr.events <- Event{Kind: EventConnected, Peer: "peer"}
	tr.events <- Event{Kind: EventDisconnected}

	require.Eventually(t, func() bool {
		_, starts, _ := tr.counts()
		return starts >= 2
	}, time.Second, time.Millisecond)
}

func TestEnginePowerToggleRestartsLifecycle(t *testing.T) {
	tr := newFakeTransport()
	tr.setPowered(true)

	_, _, _ = startEngine(t, testConfig(), tr)
	waitAdvertising(t, tr)
	tr.events <- Event{Kind: EventConnected, Peer: "peer"}

	tr.events <- Event{Kind: EventPowerToggle}

	// The power probe finds the adapter back up and re-advertises; the GATT
	// registration is not repeated.
	require.Eventually(t, func() bool {
		_, starts, _ := tr.counts()
		return starts >= 2
	}, time.Second, time.Millisecond)

	registered, _, _ := tr.counts()
	assert.Equal(t, 1, registered)
}

func TestEngineBatteryUpdatesAreDeduplicated(t *testing.T) {
	tr := newFakeTransport()
	tr.setPowered(true)

	e, _, _ := startEngine(t, testConfig(), tr)
	waitAdvertising(t, tr)

	e.Commands() <- Command{Kind: BatteryLevel, Percent: 80}
	e.Commands() <- Command{Kind: BatteryLevel, Percent: 80}
	e.Commands() <- Command{Kind: BatteryLevel, Percent: 79}
	e.Commands() <- Command{Kind: BatteryLevel, Percent: 200}

	require.Eventually(t, func() bool {
		return len(tr.batteryUpdates()) >= 3
	}, time.Second, time.Millisecond)
	assert.Equal(t, []uint8{80, 79, 100}, tr.batteryUpdates())
}

func TestEngineStopsAdvertisingOnShutdown(t *testing.T) {
	tr := newFakeTransport()
	tr.setPowered(true)

	_, done, cancel := startEngine(t, testConfig(), tr)
	waitAdvertising(t, tr)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}

	_, _, stops := tr.counts()
	assert.Equal(t, 1, stops)
}
