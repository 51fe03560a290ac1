package keyboard

// UsageToModifier returns the modifier-byte bit for a modifier usage
// (0xE0..0xE7). ok is false for every other usage.
func UsageToModifier(usage uint8) (bit uint8, ok bool) {
	if usage < KeyLeftCtrl || usage > KeyRightGUI {
		return 0, false
	}
	return 1 << (usage - KeyLeftCtrl), true
}

// IsModifier reports whether the usage is one of the eight modifier keys.
func IsModifier(usage uint8) bool {
	_, ok := UsageToModifier(usage)
	return ok
}

// CharToHID converts an ASCII character to its HID usage code.
// Returns 0 if the character is not supported.
func CharToHID(c byte) uint8 {
	return CharToKey[c]
}

// NeedsShift returns true if the character requires the Shift modifier.
func NeedsShift(c byte) bool {
	return ShiftChars[c]
}
