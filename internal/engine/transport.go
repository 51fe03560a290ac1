package engine

import (
	"hogpd/gatt"
)

// EventKind tags a Transport event.
type EventKind int

const (
	// EventReady reports the radio becoming usable while powering on.
	EventReady EventKind = iota
	// EventConnected reports a central subscribing to input reports.
	EventConnected
	// EventDisconnected reports the connected central going away.
	EventDisconnected
	// EventPowerToggle reports the adapter power state changing underneath
	// the peripheral (rfkill, bluetoothctl power off/on).
	EventPowerToggle
	// EventSendFailed reports an asynchronous notification failure.
	EventSendFailed
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventPowerToggle:
		return "power-toggle"
	case EventSendFailed:
		return "send-failed"
	default:
		return "unknown"
	}
}

// Event is one asynchronous notification from the BLE stack.
type Event struct {
	Kind EventKind

	// Peer identifies the remote device for EventConnected.
	Peer string

	// Err carries the failure for EventSendFailed.
	Err error
}

// Advertisement describes the advertising payload.
type Advertisement struct {
	Name       string
	Appearance uint16
	Services   []gatt.UUID16
}

// Transport is the BLE stack binding the engine drives. The BlueZ D-Bus
// transport is the production implementation; tests substitute a fake.
//
// Implementations deliver stack events on the Events channel and must not
// block the engine: Send is synchronous but is expected to return quickly.
type Transport interface {
	// Powered reports whether the underlying adapter is powered and usable.
	Powered() (bool, error)

	// RegisterServices publishes the GATT tree. Called once per process.
	RegisterServices(p *gatt.Profile) error

	// StartAdvertising begins (or resumes) connectable advertising.
	// Calling it while already advertising is a no-op.
	StartAdvertising(adv Advertisement) error

	// StopAdvertising ends advertising. Safe to call when not advertising.
	StopAdvertising() error

	// Send pushes one complete input report, Report ID prefix included,
	// to the subscribed central.
	Send(report []byte) error

	// SetBatteryLevel updates the Battery Level characteristic and
	// notifies subscribers.
	SetBatteryLevel(percent uint8) error

	// Events delivers stack events. The channel closes when the transport
	// is torn down.
	Events() <-chan Event

	// Close releases the stack connection.
	Close() error
}
