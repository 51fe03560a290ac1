// Package gatt models the GATT service tree a peripheral exposes and builds
// the HID-over-GATT, Battery and Device Information services.
//
// The model is transport-neutral: it carries UUIDs, access flags and static
// values, and a BLE stack binding (such as the BlueZ transport) maps it onto
// its own registration API.
package gatt

import (
	"fmt"
)

// UUID16 is a 16-bit Bluetooth SIG assigned UUID.
type UUID16 uint16

// String expands the 16-bit UUID onto the Bluetooth base UUID.
func (u UUID16) String() string {
	return fmt.Sprintf("0000%04x-0000-1000-8000-00805f9b34fb", uint16(u))
}

// Access flags. The names follow the BlueZ GATT flag vocabulary, which is a
// superset of the GATT property bits (it folds encryption requirements into
// the same list).
const (
	FlagRead                 = "read"
	FlagWrite                = "write"
	FlagWriteWithoutResponse = "write-without-response"
	FlagNotify               = "notify"
	FlagIndicate             = "indicate"
	FlagEncryptRead          = "encrypt-read"
	FlagEncryptWrite         = "encrypt-write"
	FlagEncryptNotify        = "encrypt-notify"
)

// Service is one primary or secondary GATT service.
type Service struct {
	UUID            UUID16
	Primary         bool
	Characteristics []*Characteristic
}

// Characteristic is a single characteristic with an optional static value
// and optional descriptors.
type Characteristic struct {
	UUID        UUID16
	Flags       []string
	Value       []byte
	Descriptors []*Descriptor
}

// Descriptor is a characteristic descriptor with a static value.
type Descriptor struct {
	UUID  UUID16
	Flags []string
	Value []byte
}

// Characteristic looks up a characteristic of the service by UUID.
// Returns nil if the service does not contain it.
func (s *Service) Characteristic(u UUID16) *Characteristic {
	for _, c := range s.Characteristics {
		if c.UUID == u {
			return c
		}
	}
	return nil
}
