// Package mouse provides the mouse input state and its Report-ID-prefixed
// Input Report encoding.
package mouse

import (
	"io"

	"hogpd/device"
)

// Button bitmasks, matching the Report Map's Button 1..3 declaration.
const (
	ButtonLeft   = 0x01
	ButtonRight  = 0x02
	ButtonMiddle = 0x04

	// ButtonMask covers the declared buttons; the remaining bits are
	// descriptor padding and always zero on the wire.
	ButtonMask = 0x07
)

// InputState represents the mouse state used to build a report.
type InputState struct {
	// Button bitfield: bit 0=Left, 1=Right, 2=Middle
	Buttons uint8
	// Delta X/Y: signed 8-bit relative movement
	DX, DY int8
	// Wheel: signed 8-bit vertical scroll
	Wheel int8
}

// Clamp saturates an arbitrary delta to the signed 8-bit range declared in
// the Report Map. Values beyond the range must saturate, never wrap: a wrap
// reverses the pointer's direction on the host.
func Clamp(v int) int8 {
	if v > 127 {
		return 127
	}
	if v < -127 {
		return -127
	}
	return int8(v)
}

// SetButton sets or clears one button bit. Masks outside ButtonMask are
// ignored.
func (st *InputState) SetButton(mask uint8, pressed bool) {
	mask &= ButtonMask
	if pressed {
		st.Buttons |= mask
	} else {
		st.Buttons &^= mask
	}
}

// BuildReport encodes an InputState into the 5-byte mouse Input Report.
//
// Report layout (5 bytes):
//
//	Byte 0: Report ID (0x01)
//	Byte 1: Button bitfield (bits 3-7 padding)
//	Byte 2: DX (int8)
//	Byte 3: DY (int8)
//	Byte 4: Wheel (int8)
func (st InputState) BuildReport() []byte {
	b := make([]byte, device.MouseReportSize)
	b[0] = device.ReportIDMouse
	b[1] = st.Buttons & ButtonMask
	b[2] = byte(st.DX)
	b[3] = byte(st.DY)
	b[4] = byte(st.Wheel)
	return b
}

// UnmarshalReport decodes a 5-byte mouse Input Report into InputState.
// It is the inverse of BuildReport.
func (st *InputState) UnmarshalReport(data []byte) error {
	if len(data) < device.MouseReportSize {
		return io.ErrUnexpectedEOF
	}
	if data[0] != device.ReportIDMouse {
		return errWrongReportID
	}
	st.Buttons = data[1]
	st.DX = int8(data[2])
	st.DY = int8(data[3])
	st.Wheel = int8(data[4])
	return nil
}

var errWrongReportID = errorString("mouse: not a mouse report")

type errorString string

func (e errorString) Error() string { return string(e) }
