// Package keyboard provides the 6-key-rollover keyboard input state and its
// Report-ID-prefixed Input Report encoding.
package keyboard

import (
	"io"

	"hogpd/device"
)

// MaxKeys is the report capacity for simultaneously held non-modifier keys
// (6-Key Rollover).
const MaxKeys = 6

// InputState represents the keyboard state used to build a report.
//
// Keys holds the currently pressed non-modifier usages in insertion order:
// Keys[0] is the oldest press. Unused slots are zero, and a usage appears at
// most once.
type InputState struct {
	Modifiers uint8 // bit 0-7: LCtrl, LShift, LAlt, LGui, RCtrl, RShift, RAlt, RGui
	Keys      [MaxKeys]uint8
}

// Press records a key-down for the given usage. Modifier usages (0xE0..0xE7)
// set their modifier bit. A usage already held is a no-op. When a seventh
// key goes down, the oldest-inserted key is evicted to keep the report
// within 6KRO.
func (st *InputState) Press(usage uint8) {
	if usage == 0 {
		return
	}
	if m, ok := UsageToModifier(usage); ok {
		st.Modifiers |= m
		return
	}
	for i, k := range st.Keys {
		if k == usage {
			return
		}
		if k == 0 {
			st.Keys[i] = usage
			return
		}
	}
	// All six slots held: evict the oldest, append the newest.
	copy(st.Keys[:], st.Keys[1:])
	st.Keys[MaxKeys-1] = usage
}

// Release records a key-up for the given usage. Later keys shift down so
// insertion order is preserved. Releasing a key that is not held is a no-op.
func (st *InputState) Release(usage uint8) {
	if m, ok := UsageToModifier(usage); ok {
		st.Modifiers &^= m
		return
	}
	for i, k := range st.Keys {
		if k == usage {
			copy(st.Keys[i:], st.Keys[i+1:])
			st.Keys[MaxKeys-1] = 0
			return
		}
	}
}

// Reset releases every held key and clears all modifiers.
func (st *InputState) Reset() {
	*st = InputState{}
}

// Held reports whether the given usage is currently down. Modifier usages
// (0xE0..0xE7) check their modifier bit, everything else the key slots.
func (st InputState) Held(usage uint8) bool {
	if m, ok := UsageToModifier(usage); ok {
		return st.Modifiers&m != 0
	}
	if usage == 0 {
		return false
	}
	for _, k := range st.Keys {
		if k == usage {
			return true
		}
	}
	return false
}

// BuildReport encodes an InputState into the 9-byte keyboard Input Report.
//
// Report layout (9 bytes):
//
//	Byte 0: Report ID (0x02)
//	Byte 1: Modifiers (8 bits)
//	Byte 2: Reserved (0x00)
//	Bytes 3-8: Keycodes, zero-padded
func (st InputState) BuildReport() []byte {
	b := make([]byte, device.KeyboardReportSize)
	b[0] = device.ReportIDKeyboard
	b[1] = st.Modifiers
	b[2] = 0x00 // Reserved
	copy(b[3:], st.Keys[:])
	return b
}

// UnmarshalReport decodes a 9-byte keyboard Input Report into InputState.
// It is the inverse of BuildReport.
func (st *InputState) UnmarshalReport(data []byte) error {
	if len(data) < device.KeyboardReportSize {
		return io.ErrUnexpectedEOF
	}
	if data[0] != device.ReportIDKeyboard {
		return errWrongReportID
	}
	st.Modifiers = data[1]
	copy(st.Keys[:], data[3:3+MaxKeys])
	return nil
}

var errWrongReportID = errorString("keyboard: not a keyboard report")

type errorString string

func (e errorString) Error() string { return string(e) }
