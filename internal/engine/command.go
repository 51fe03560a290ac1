// Package engine contains the HID-over-GATT protocol core: the peripheral
// lifecycle state machine and the single-threaded command processor that
// turns input commands into Input Reports.
package engine

// CommandKind tags a Command variant.
type CommandKind int

const (
	// KeyDown and KeyUp carry a HID keyboard usage code.
	KeyDown CommandKind = iota
	KeyUp
	// MouseMove carries relative pointer deltas (unclamped).
	MouseMove
	// MouseButton carries a button mask and its new pressed state.
	MouseButton
	// Wheel carries a relative scroll delta (unclamped).
	Wheel
	// BatteryLevel carries the local battery percentage (0-100).
	BatteryLevel
)

// Command is one input message for the command processor. Producers fill
// only the fields their kind uses; the processor consumes each command
// exactly once.
type Command struct {
	Kind CommandKind

	Usage   uint8 // KeyDown, KeyUp
	DX, DY  int   // MouseMove
	Delta   int   // Wheel
	Button  uint8 // MouseButton mask
	Pressed bool  // MouseButton
	Percent uint8 // BatteryLevel
}

func (k CommandKind) String() string {
	switch k {
	case KeyDown:
		return "key-down"
	case KeyUp:
		return "key-up"
	case MouseMove:
		return "mouse-move"
	case MouseButton:
		return "mouse-button"
	case Wheel:
		return "wheel"
	case BatteryLevel:
		return "battery-level"
	default:
		return "unknown"
	}
}
