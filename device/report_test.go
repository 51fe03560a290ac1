package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The host HID parser interprets every Input Report against these exact
// bytes, so the descriptor is pinned as a golden value.
var wantReportMap = []byte{
	// Mouse, Report ID 1
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x02, // Usage (Mouse)
	0xA1, 0x01, // Collection (Application)
	0x85, 0x01, //   Report ID (1)
	0x09, 0x01, //   Usage (Pointer)
	0xA1, 0x00, //   Collection (Physical)
	0x05, 0x09, //     Usage Page (Buttons)
	0x19, 0x01, //     Usage Minimum (Button 1)
	0x29, 0x03, //     Usage Maximum (Button 3)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x95, 0x03, //     Report Count (3)
	0x75, 0x01, //     Report Size (1)
	0x81, 0x02, //     Input (Data,Var,Abs)
	0x95, 0x01, //     Report Count (1)
	0x75, 0x05, //     Report Size (5)
	0x81, 0x03, //     Input (Const,Var,Abs)
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x09, 0x38, //     Usage (Wheel)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7F, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x03, //     Report Count (3)
	0x81, 0x06, //     Input (Data,Var,Rel)
	0xC0, //   End Collection
	0xC0, // End Collection
	// Keyboard, Report ID 2
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x06, // Usage (Keyboard)
	0xA1, 0x01, // Collection (Application)
	0x85, 0x02, //   Report ID (2)
	0x05, 0x07, //   Usage Page (Keyboard/Keypad)
	0x19, 0xE0, //   Usage Minimum (Left Ctrl)
	0x29, 0xE7, //   Usage Maximum (Right GUI)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x75, 0x01, //   Report Size (1)
	0x95, 0x08, //   Report Count (8)
	0x81, 0x02, //   Input (Data,Var,Abs)
	0x75, 0x08, //   Report Size (8)
	0x95, 0x01, //   Report Count (1)
	0x81, 0x03, //   Input (Const,Var,Abs)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x65, //   Logical Maximum (101)
	0x19, 0x00, //   Usage Minimum (0)
	0x29, 0x65, //   Usage Maximum (101)
	0x75, 0x08, //   Report Size (8)
	0x95, 0x06, //   Report Count (6)
	0x81, 0x00, //   Input (Data,Array)
	0xC0, // End Collection
}

func TestReportMapGoldenBytes(t *testing.T) {
	assert.Equal(t, wantReportMap, ReportMap())
}

func TestReportMapReturnsCopy(t *testing.T) {
	m := ReportMap()
	m[0] = 0xFF
	assert.Equal(t, wantReportMap, ReportMap())
}

// inputBitsPerReportID walks the descriptor's short items and sums the Input
// field widths per Report ID.
func inputBitsPerReportID(t *testing.T, desc []byte) map[uint8]int {
	t.Helper()

	bits := map[uint8]int{}
	var reportID uint8
	var reportSize, reportCount int
	for i := 0; i < len(desc); {
		header := desc[i]
		size := int(header & 0x03)
		if size == 3 {
			size = 4
		}
		tag := header >> 4
		typ := (header >> 2) & 0x03
		require.LessOrEqual(t, i+1+size, len(desc), "truncated item at %d", i)

		var value int
		if size >= 1 {
			value = int(desc[i+1])
		}
		if size >= 2 {
			value |= int(desc[i+2]) << 8
		}

		switch {
		case typ == 1 && tag == 7: // Report Size
			reportSize = value
		case typ == 1 && tag == 9: // Report Count
			reportCount = value
		case typ == 1 && tag == 8: // Report ID
			reportID = uint8(value)
		case typ == 0 && tag == 8: // Input
			bits[reportID] += reportSize * reportCount
		}
		i += 1 + size
	}
	return bits
}

func TestReportMapDeclaredPayloadWidths(t *testing.T) {
	bits := inputBitsPerReportID(t, ReportMap())

	// Payload widths excluding the Report ID prefix byte.
	assert.Equal(t, (MouseReportSize-1)*8, bits[ReportIDMouse])
	assert.Equal(t, (KeyboardReportSize-1)*8, bits[ReportIDKeyboard])
}
