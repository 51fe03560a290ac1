package keyboard

// KeyName maps HID usage codes to human-readable key names.
var KeyName = map[uint8]string{
	// Letters
	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",

	// Numbers
	Key1: "1", Key2: "2", Key3: "3", Key4: "4", Key5: "5",
	Key6: "6", Key7: "7", Key8: "8", Key9: "9", Key0: "0",

	// Special keys
	KeyEnter:      "Enter",
	KeyEscape:     "Escape",
	KeyBackspace:  "Backspace",
	KeyTab:        "Tab",
	KeySpace:      "Space",
	KeyMinus:      "Minus",
	KeyEqual:      "Equal",
	KeyLeftBrace:  "LeftBrace",
	KeyRightBrace: "RightBrace",
	KeyBackslash:  "Backslash",
	KeySemicolon:  "Semicolon",
	KeyApostrophe: "Apostrophe",
	KeyGrave:      "Grave",
	KeyComma:      "Comma",
	KeyPeriod:     "Period",
	KeySlash:      "Slash",
	KeyCapsLock:   "CapsLock",

	// Function keys
	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",

	// Control keys
	KeyPrintScreen: "PrintScreen",
	KeyScrollLock:  "ScrollLock",
	KeyPause:       "Pause",
	KeyInsert:      "Insert",
	KeyHome:        "Home",
	KeyPageUp:      "PageUp",
	KeyDelete:      "Delete",
	KeyEnd:         "End",
	KeyPageDown:    "PageDown",

	// Arrow keys
	KeyRight: "Right",
	KeyLeft:  "Left",
	KeyDown:  "Down",
	KeyUp:    "Up",

	// Numpad
	KeyNumLock:    "NumLock",
	KeyKpSlash:    "Kp/",
	KeyKpAsterisk: "Kp*",
	KeyKpMinus:    "Kp-",
	KeyKpPlus:     "Kp+",
	KeyKpEnter:    "KpEnter",
	KeyKp1:        "Kp1",
	KeyKp2:        "Kp2",
	KeyKp3:        "Kp3",
	KeyKp4:        "Kp4",
	KeyKp5:        "Kp5",
	KeyKp6:        "Kp6",
	KeyKp7:        "Kp7",
	KeyKp8:        "Kp8",
	KeyKp9:        "Kp9",
	KeyKp0:        "Kp0",
	KeyKpDot:      "Kp.",

	// Modifiers
	KeyLeftCtrl:   "LeftCtrl",
	KeyLeftShift:  "LeftShift",
	KeyLeftAlt:    "LeftAlt",
	KeyLeftGUI:    "LeftGUI",
	KeyRightCtrl:  "RightCtrl",
	KeyRightShift: "RightShift",
	KeyRightAlt:   "RightAlt",
	KeyRightGUI:   "RightGUI",
}

// EvdevToUsage maps Linux input event codes (KEY_*) to HID usage codes.
// Codes absent from the table are unsupported and must be silently dropped
// by callers.
var EvdevToUsage = map[uint16]uint8{
	1:  KeyEscape,    // KEY_ESC
	2:  Key1,         // KEY_1
	3:  Key2,         // KEY_2
	4:  Key3,         // KEY_3
	5:  Key4,         // KEY_4
	6:  Key5,         // KEY_5
	7:  Key6,         // KEY_6
	8:  Key7,         // KEY_7
	9:  Key8,         // KEY_8
	10: Key9,         // KEY_9
	11: Key0,         // KEY_0
	12: KeyMinus,     // KEY_MINUS
	13: KeyEqual,     // KEY_EQUAL
	14: KeyBackspace, // KEY_BACKSPACE
	15: KeyTab,       // KEY_TAB
	16: KeyQ,
	17: KeyW,
	18: KeyE,
	19: KeyR,
	20: KeyT,
	21: KeyY,
	22: KeyU,
	23: KeyI,
	24: KeyO,
	25: KeyP,
	26: KeyLeftBrace,  // KEY_LEFTBRACE
	27: KeyRightBrace, // KEY_RIGHTBRACE
	28: KeyEnter,      // KEY_ENTER
	29: KeyLeftCtrl,   // KEY_LEFTCTRL
	30: KeyA,
	31: KeyS,
	32: KeyD,
	33: KeyF,
	34: KeyG,
	35: KeyH,
	36: KeyJ,
	37: KeyK,
	38: KeyL,
	39: KeySemicolon,  // KEY_SEMICOLON
	40: KeyApostrophe, // KEY_APOSTROPHE
	41: KeyGrave,      // KEY_GRAVE
	42: KeyLeftShift,  // KEY_LEFTSHIFT
	43: KeyBackslash,  // KEY_BACKSLASH
	44: KeyZ,
	45: KeyX,
	46: KeyC,
	47: KeyV,
	48: KeyB,
	49: KeyN,
	50: KeyM,
	51: KeyComma,      // KEY_COMMA
	52: KeyPeriod,     // KEY_DOT
	53: KeySlash,      // KEY_SLASH
	54: KeyRightShift, // KEY_RIGHTSHIFT
	55: KeyKpAsterisk, // KEY_KPASTERISK
	56: KeyLeftAlt,    // KEY_LEFTALT
	57: KeySpace,      // KEY_SPACE
	58: KeyCapsLock,   // KEY_CAPSLOCK
	59: KeyF1,
	60: KeyF2,
	61: KeyF3,
	62: KeyF4,
	63: KeyF5,
	64: KeyF6,
	65: KeyF7,
	66: KeyF8,
	67: KeyF9,
	68: KeyF10,
	69: KeyNumLock,    // KEY_NUMLOCK
	70: KeyScrollLock, // KEY_SCROLLLOCK
	71: KeyKp7,
	72: KeyKp8,
	73: KeyKp9,
	74: KeyKpMinus, // KEY_KPMINUS
	75: KeyKp4,
	76: KeyKp5,
	77: KeyKp6,
	78: KeyKpPlus, // KEY_KPPLUS
	79: KeyKp1,
	80: KeyKp2,
	81: KeyKp3,
	82: KeyKp0,
	83: KeyKpDot, // KEY_KPDOT
	87: KeyF11,
	88: KeyF12,
	96: KeyKpEnter,     // KEY_KPENTER
	97: KeyRightCtrl,   // KEY_RIGHTCTRL
	98: KeyKpSlash,     // KEY_KPSLASH
	99: KeyPrintScreen, // KEY_SYSRQ
	100: KeyRightAlt,   // KEY_RIGHTALT
	102: KeyHome,       // KEY_HOME
	103: KeyUp,         // KEY_UP
	104: KeyPageUp,     // KEY_PAGEUP
	105: KeyLeft,       // KEY_LEFT
	106: KeyRight,      // KEY_RIGHT
	107: KeyEnd,        // KEY_END
	108: KeyDown,       // KEY_DOWN
	109: KeyPageDown,   // KEY_PAGEDOWN
	110: KeyInsert,     // KEY_INSERT
	111: KeyDelete,     // KEY_DELETE
	119: KeyPause,      // KEY_PAUSE
	125: KeyLeftGUI,    // KEY_LEFTMETA
	126: KeyRightGUI,   // KEY_RIGHTMETA
}

// CharToKey maps ASCII characters to their corresponding HID usage codes.
// For shifted characters (uppercase, symbols), combine with NeedsShift.
var CharToKey = map[byte]uint8{
	// Lowercase letters
	'a': KeyA, 'b': KeyB, 'c': KeyC, 'd': KeyD, 'e': KeyE, 'f': KeyF, 'g': KeyG,
	'h': KeyH, 'i': KeyI, 'j': KeyJ, 'k': KeyK, 'l': KeyL, 'm': KeyM, 'n': KeyN,
	'o': KeyO, 'p': KeyP, 'q': KeyQ, 'r': KeyR, 's': KeyS, 't': KeyT, 'u': KeyU,
	'v': KeyV, 'w': KeyW, 'x': KeyX, 'y': KeyY, 'z': KeyZ,

	// Uppercase letters (same keys, need shift)
	'A': KeyA, 'B': KeyB, 'C': KeyC, 'D': KeyD, 'E': KeyE, 'F': KeyF, 'G': KeyG,
	'H': KeyH, 'I': KeyI, 'J': KeyJ, 'K': KeyK, 'L': KeyL, 'M': KeyM, 'N': KeyN,
	'O': KeyO, 'P': KeyP, 'Q': KeyQ, 'R': KeyR, 'S': KeyS, 'T': KeyT, 'U': KeyU,
	'V': KeyV, 'W': KeyW, 'X': KeyX, 'Y': KeyY, 'Z': KeyZ,

	// Numbers
	'1': Key1, '2': Key2, '3': Key3, '4': Key4, '5': Key5,
	'6': Key6, '7': Key7, '8': Key8, '9': Key9, '0': Key0,

	// Shifted number row symbols
	'!': Key1, '@': Key2, '#': Key3, '$': Key4, '%': Key5,
	'^': Key6, '&': Key7, '*': Key8, '(': Key9, ')': Key0,

	// Whitespace and control
	'\n': KeyEnter,
	'\t': KeyTab,
	' ':  KeySpace,

	// Punctuation
	'-': KeyMinus, '_': KeyMinus,
	'=': KeyEqual, '+': KeyEqual,
	'[': KeyLeftBrace, '{': KeyLeftBrace,
	']': KeyRightBrace, '}': KeyRightBrace,
	'\\': KeyBackslash, '|': KeyBackslash,
	';': KeySemicolon, ':': KeySemicolon,
	'\'': KeyApostrophe, '"': KeyApostrophe,
	'`': KeyGrave, '~': KeyGrave,
	',': KeyComma, '<': KeyComma,
	'.': KeyPeriod, '>': KeyPeriod,
	'/': KeySlash, '?': KeySlash,
}

// ShiftChars marks characters that require the Shift modifier.
var ShiftChars = map[byte]bool{
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true,
	'H': true, 'I': true, 'J': true, 'K': true, 'L': true, 'M': true, 'N': true,
	'O': true, 'P': true, 'Q': true, 'R': true, 'S': true, 'T': true, 'U': true,
	'V': true, 'W': true, 'X': true, 'Y': true, 'Z': true,
	'!': true, '@': true, '#': true, '$': true, '%': true,
	'^': true, '&': true, '*': true, '(': true, ')': true,
	'_': true, '+': true, '{': true, '}': true, '|': true,
	':': true, '"': true, '~': true, '<': true, '>': true, '?': true,
}
