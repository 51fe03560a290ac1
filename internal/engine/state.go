package engine

import (
	"fmt"
	"time"
)

// State is the peripheral lifecycle state.
type State int

const (
	// PoweredOff is the initial state before the first power probe.
	PoweredOff State = iota
	// PoweringOn polls the adapter with backoff until it is usable.
	PoweringOn
	// Advertising waits for a central to connect.
	Advertising
	// Connected streams input reports to one central.
	Connected
)

func (s State) String() string {
	switch s {
	case PoweredOff:
		return "powered-off"
	case PoweringOn:
		return "powering-on"
	case Advertising:
		return "advertising"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// BackoffConfig controls the power-on retry schedule.
type BackoffConfig struct {
	Base        time.Duration `help:"Initial delay between adapter power probes" default:"50ms" env:"HOGPD_BACKOFF_BASE"`
	Max         time.Duration `help:"Upper bound on the probe delay" default:"1s" env:"HOGPD_BACKOFF_MAX"`
	MaxAttempts int           `help:"Give up after this many failed probes, 0 retries forever" default:"0" env:"HOGPD_BACKOFF_MAX_ATTEMPTS"`
}

// Delay returns the wait before probe number attempt (1-based): the base
// delay doubled per prior failure, capped at Max.
func (c BackoffConfig) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := c.Base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= c.Max {
			return c.Max
		}
	}
	if d > c.Max {
		return c.Max
	}
	return d
}

// Status is a state machine snapshot.
type Status struct {
	State State
	// Attempt is the current 1-based probe attempt while PoweringOn.
	Attempt int
	// Peer identifies the connected central while Connected.
	Peer string
}

func (s Status) String() string {
	switch s.State {
	case PoweringOn:
		return fmt.Sprintf("%s(attempt=%d)", s.State, s.Attempt)
	case Connected:
		return fmt.Sprintf("%s(peer=%s)", s.State, s.Peer)
	default:
		return s.State.String()
	}
}

// Machine is the peripheral lifecycle state machine. Transitions that do not
// apply to the current state leave it unchanged, so stale stack events
// cannot corrupt the lifecycle.
//
// Not safe for concurrent use; the engine owns it from a single goroutine.
type Machine struct {
	status Status
}

// Current returns the current snapshot.
func (m *Machine) Current() Status {
	return m.status
}

// Start begins powering on. Only valid from PoweredOff.
func (m *Machine) Start() Status {
	if m.status.State == PoweredOff {
		m.status = Status{State: PoweringOn, Attempt: 1}
	}
	return m.status
}

// RadioNotReady records a failed power probe and advances the attempt
// counter.
func (m *Machine) RadioNotReady() Status {
	if m.status.State == PoweringOn {
		m.status.Attempt++
	}
	return m.status
}

// RadioReady moves to Advertising once the adapter is usable.
func (m *Machine) RadioReady() Status {
	if m.status.State == PoweringOn {
		m.status = Status{State: Advertising}
	}
	return m.status
}

// Connect records a central subscribing. Only valid while Advertising.
func (m *Machine) Connect(peer string) Status {
	if m.status.State == Advertising {
		m.status = Status{State: Connected, Peer: peer}
	}
	return m.status
}

// Disconnect returns to Advertising, whether the disconnect was explicit
// or inferred from a send failure.
func (m *Machine) Disconnect() Status {
	if m.status.State == Connected {
		m.status = Status{State: Advertising}
	}
	return m.status
}

// PowerToggled restarts the power-on sequence from any state. A connected
// central is gone once the adapter cycles, so the peer is dropped too.
func (m *Machine) PowerToggled() Status {
	m.status = Status{State: PoweringOn, Attempt: 1}
	return m.status
}
