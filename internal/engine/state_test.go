package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelayDoublesAndCaps(t *testing.T) {
	cfg := BackoffConfig{Base: 50 * time.Millisecond, Max: time.Second}

	type testCase struct {
		attempt int
		want    time.Duration
	}
	cases := []testCase{
		{1, 50 * time.Millisecond},
		{2, 100 * time.Millisecond},
		{3, 200 * time.Millisecond},
		{4, 400 * time.Millisecond},
		{5, 800 * time.Millisecond},
		{6, time.Second},
		{7, time.Second},
		{100, time.Second},
		{0, 50 * time.Millisecond},
		{-3, 50 * time.Millisecond},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cfg.Delay(tc.attempt), "attempt %d", tc.attempt)
	}
}

func TestBackoffDelayBaseAboveMax(t *testing.T) {
	cfg := BackoffConfig{Base: 2 * time.Second, Max: time.Second}
	assert.Equal(t, time.Second, cfg.Delay(1))
}

func TestMachineHappyPath(t *testing.T) {
	var m Machine

	assert.Equal(t, PoweredOff, m.Current().State)

	st := m.Start()
	assert.Equal(t, PoweringOn, st.State)
	assert.Equal(t, 1, st.Attempt)

	st = m.RadioNotReady()
	assert.Equal(t, 2, st.Attempt)
	st = m.RadioNotReady()
	assert.Equal(t, 3, st.Attempt)

	st = m.RadioReady()
	assert.Equal(t, Advertising, st.State)
	assert.Zero(t, st.Attempt)

	st = m.Connect("AA:BB:CC:DD:EE:FF")
	assert.Equal(t, Connected, st.State)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", st.Peer)

	st = m.Disconnect()
	assert.Equal(t, Advertising, st.State)
	assert.Empty(t, st.Peer)
}

func TestMachineIgnoresStaleTransitions(t *testing.T) {
	var m Machine

	// Connect before advertising is a stray stack event.
	assert.Equal(t, PoweredOff, m.Connect("peer").State)
	assert.Equal(t, PoweredOff, m.Disconnect().State)
	assert.Equal(t, PoweredOff, m.RadioReady().State)
	assert.Equal(t, PoweredOff, m.RadioNotReady().State)

	m.Start()
	m.RadioReady()
	m.Connect("peer")

	// A ready probe result while connected changes nothing.
	assert.Equal(t, Connected, m.RadioReady().State)
	assert.Equal(t, Connected, m.Connect("other").State)
	assert.Equal(t, "peer", m.Current().Peer)
}

func TestMachinePowerToggleRestartsFromAnyState(t *testing.T) {
	var m Machine
	m.Start()
	m.RadioReady()
	m.Connect("peer")

	st := m.PowerToggled()
	assert.Equal(t, PoweringOn, st.State)
	assert.Equal(t, 1, st.Attempt)
	assert.Empty(t, st.Peer)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "powered-off", Status{}.String())
	assert.Equal(t, "powering-on(attempt=3)", Status{State: PoweringOn, Attempt: 3}.String())
	assert.Equal(t, "connected(peer=x)", Status{State: Connected, Peer: "x"}.String())
	assert.Equal(t, "advertising", Status{State: Advertising}.String())
}
