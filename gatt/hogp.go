package gatt

import (
	"hogpd/device"
)

// 16-bit service UUIDs.
const (
	UUIDHIDService     UUID16 = 0x1812
	UUIDBatteryService UUID16 = 0x180F
	UUIDDeviceInfo     UUID16 = 0x180A
)

// 16-bit characteristic UUIDs.
const (
	UUIDHIDInformation  UUID16 = 0x2A4A
	UUIDHIDControlPoint UUID16 = 0x2A4C
	UUIDProtocolMode    UUID16 = 0x2A4E
	UUIDReportMap       UUID16 = 0x2A4B
	UUIDReport          UUID16 = 0x2A4D
	UUIDBatteryLevel    UUID16 = 0x2A19
	UUIDManufacturer    UUID16 = 0x2A29
	UUIDModelNumber     UUID16 = 0x2A24
)

// UUIDReportReference is the Report Reference descriptor (maps a Report
// characteristic to a Report ID and type).
const UUIDReportReference UUID16 = 0x2908

// AppearanceHID is the Generic HID appearance code used when none is
// configured.
const AppearanceHID uint16 = 0x03C0

// reportRefInput is the Report Reference "Input Report" type byte.
const reportRefInput = 0x01

// Profile is the full GATT tree of the peripheral, with direct handles to
// the characteristics whose values change at runtime.
type Profile struct {
	Services []*Service

	// MouseReport and KeyboardReport are the Report characteristics, one
	// per Report ID declared in the Report Map. Their Report Reference
	// descriptors tell the host which ID each characteristic carries.
	MouseReport    *Characteristic
	KeyboardReport *Characteristic

	// BatteryLevel carries the 0-100 battery percentage.
	BatteryLevel *Characteristic
}

// inputReportChar builds one Report characteristic bound to a Report ID
// through its Report Reference descriptor.
func inputReportChar(reportID uint8) *Characteristic {
	return &Characteristic{
		UUID:  UUIDReport,
		Flags: []string{FlagEncryptRead, FlagEncryptNotify},
		Descriptors: []*Descriptor{
			{
				UUID:  UUIDReportReference,
				Flags: []string{FlagRead},
				Value: []byte{reportID, reportRefInput},
			},
		},
	}
}

// BuildProfile assembles the HID, Battery and Device Information services.
// deviceName populates the Device Information strings.
func BuildProfile(deviceName string) *Profile {
	mouseReport := inputReportChar(device.ReportIDMouse)
	keyboardReport := inputReportChar(device.ReportIDKeyboard)

	hidService := &Service{
		UUID:    UUIDHIDService,
		Primary: true,
		Characteristics: []*Characteristic{
			{
				UUID:  UUIDHIDInformation,
				Flags: []string{FlagRead},
				// bcdHID 1.11, country code 0, flags 0.
				Value: []byte{0x11, 0x01, 0x00, 0x00},
			},
			{
				UUID:  UUIDHIDControlPoint,
				Flags: []string{FlagWriteWithoutResponse},
			},
			{
				UUID:  UUIDProtocolMode,
				Flags: []string{FlagEncryptRead, FlagEncryptWrite},
				// Report Protocol mode.
				Value: []byte{0x01},
			},
			{
				UUID:  UUIDReportMap,
				Flags: []string{FlagEncryptRead},
				Value: device.ReportMap(),
			},
			mouseReport,
			keyboardReport,
		},
	}

	battery := &Characteristic{
		UUID:  UUIDBatteryLevel,
		Flags: []string{FlagEncryptRead, FlagEncryptNotify},
		Value: []byte{0},
	}

	batteryService := &Service{
		UUID:            UUIDBatteryService,
		Primary:         true,
		Characteristics: []*Characteristic{battery},
	}

	deviceInfo := &Service{
		UUID:    UUIDDeviceInfo,
		Primary: true,
		Characteristics: []*Characteristic{
			{
				UUID:  UUIDManufacturer,
				Flags: []string{FlagRead},
				Value: []byte(deviceName),
			},
			{
				UUID:  UUIDModelNumber,
				Flags: []string{FlagRead},
				Value: []byte(deviceName),
			},
		},
	}

	return &Profile{
		Services:       []*Service{hidService, batteryService, deviceInfo},
		MouseReport:    mouseReport,
		KeyboardReport: keyboardReport,
		BatteryLevel:   battery,
	}
}

// AdvertisedServices lists the service UUIDs included in the advertising
// payload for host discoverability.
func AdvertisedServices() []UUID16 {
	return []UUID16{UUIDHIDService, UUIDBatteryService, UUIDDeviceInfo}
}
