// Package device defines the Input Report identifiers and the combined HID
// Report Map shared by the keyboard and mouse report builders.
package device

import (
	"hogpd/hid"
)

// ReportBuilder is an interface for device input states that can build
// Report-ID-prefixed Input Reports.
type ReportBuilder interface {
	// BuildReport encodes the input state into the bytes sent through its
	// GATT Report characteristic.
	BuildReport() []byte
}

// Report IDs. Every Input Report is prefixed with one of these, matching
// the Report ID declared for its collection in the Report Map and the
// Report Reference descriptor of the characteristic that carries it.
const (
	ReportIDMouse    = 0x01
	ReportIDKeyboard = 0x02
)

// Wire sizes of the Report-ID-prefixed Input Reports.
const (
	MouseReportSize    = 5 // id + buttons + dx + dy + wheel
	KeyboardReportSize = 9 // id + modifiers + reserved + 6 keycodes
)

// Report Map descriptor declaring both Input Reports:
//
//	Report ID 1 (mouse):    3 buttons, 5 pad bits, X/Y/Wheel int8 relative
//	Report ID 2 (keyboard): 8 modifier bits, reserved byte, 6 keycode array
var reportMap = hid.Report{
	Items: []hid.Item{
		// Mouse, Report ID 1
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageMouse},
		hid.Collection{
			Kind: hid.CollectionApplication,
			Items: []hid.Item{
				hid.ReportID{ID: ReportIDMouse},
				hid.Usage{Usage: hid.UsagePointer},
				hid.Collection{
					Kind: hid.CollectionPhysical,
					Items: []hid.Item{
						// Buttons 1-3, one bit each
						hid.UsagePage{Page: hid.UsagePageButtons},
						hid.UsageMinimum{Min: 0x01},
						hid.UsageMaximum{Max: 0x03},
						hid.LogicalMinimum{Min: 0},
						hid.LogicalMaximum{Max: 1},
						hid.ReportCount{Count: 3},
						hid.ReportSize{Bits: 1},
						hid.Input{Flags: hid.MainData | hid.MainVar | hid.MainAbs},
						// Padding to a full byte
						hid.ReportCount{Count: 1},
						hid.ReportSize{Bits: 5},
						hid.Input{Flags: hid.MainConst | hid.MainVar | hid.MainAbs},
						// X/Y/Wheel relative deltas
						hid.UsagePage{Page: hid.UsagePageGenericDesktop},
						hid.Usage{Usage: hid.UsageX},
						hid.Usage{Usage: hid.UsageY},
						hid.Usage{Usage: hid.UsageWheel},
						hid.LogicalMinimum{Min: -127},
						hid.LogicalMaximum{Max: 127},
						hid.ReportSize{Bits: 8},
						hid.ReportCount{Count: 3},
						hid.Input{Flags: hid.MainData | hid.MainVar | hid.MainRel},
					},
				},
			},
		},
		// Keyboard, Report ID 2
		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageKeyboard},
		hid.Collection{
			Kind: hid.CollectionApplication,
			Items: []hid.Item{
				hid.ReportID{ID: ReportIDKeyboard},
				hid.UsagePage{Page: hid.UsagePageKeyboard},
				// Modifier byte
				hid.UsageMinimum{Min: 0xE0},
				hid.UsageMaximum{Max: 0xE7},
				hid.LogicalMinimum{Min: 0},
				hid.LogicalMaximum{Max: 1},
				hid.ReportSize{Bits: 1},
				hid.ReportCount{Count: 8},
				hid.Input{Flags: hid.MainData | hid.MainVar | hid.MainAbs},
				// Reserved byte
				hid.ReportSize{Bits: 8},
				hid.ReportCount{Count: 1},
				hid.Input{Flags: hid.MainConst | hid.MainVar | hid.MainAbs},
				// 6 keycode array
				hid.LogicalMinimum{Min: 0},
				hid.LogicalMaximum{Max: 101},
				hid.UsageMinimum{Min: 0x00},
				hid.UsageMaximum{Max: 0x65},
				hid.ReportSize{Bits: 8},
				hid.ReportCount{Count: 6},
				hid.Input{Flags: hid.MainData | hid.MainArray | hid.MainAbs},
			},
		},
	},
}

var reportMapBytes = reportMap.MustBytes()

// ReportMap returns the Report Map descriptor bytes served through the GATT
// Report Map characteristic. The returned slice is a copy.
func ReportMap() []byte {
	out := make([]byte, len(reportMapBytes))
	copy(out, reportMapBytes)
	return out
}
