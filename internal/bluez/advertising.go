package bluez

import (
	"fmt"

	dbus "github.com/godbus/dbus/v5"

	"hogpd/internal/engine"
)

// advertisement implements org.bluez.LEAdvertisement1. BlueZ reads its
// properties once at registration time and calls Release when it drops the
// advertisement.
type advertisement struct {
	t *Transport
}

// Release implements org.bluez.LEAdvertisement1. BlueZ drops registered
// advertisements when the adapter powers off, so the next StartAdvertising
// must register again.
func (a *advertisement) Release() *dbus.Error {
	a.t.mu.Lock()
	a.t.advertising = false
	a.t.mu.Unlock()
	a.t.logger.Debug("advertisement released by BlueZ")
	return nil
}

// StartAdvertising exports the advertisement object and registers it with
// the adapter. Calling it while already advertising is a no-op.
func (t *Transport) StartAdvertising(adv engine.Advertisement) error {
	t.mu.Lock()
	if t.advertising {
		t.mu.Unlock()
		return nil
	}
	uuids := make([]string, 0, len(adv.Services))
	for _, u := range adv.Services {
		uuids = append(uuids, u.String())
	}
	props := map[string]dbus.Variant{
		"Type":         dbus.MakeVariant("peripheral"),
		"ServiceUUIDs": dbus.MakeVariant(uuids),
		"LocalName":    dbus.MakeVariant(adv.Name),
		"Appearance":   dbus.MakeVariant(adv.Appearance),
		"Discoverable": dbus.MakeVariant(true),
	}
	t.advProps = props
	t.mu.Unlock()

	a := &advertisement{t: t}
	if err := t.conn.Export(a, advPath, advertisementIface); err != nil {
		return fmt.Errorf("bluez: export advertisement: %w", err)
	}
	handler := &propsHandler{iface: advertisementIface, get: func() map[string]dbus.Variant {
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.advProps
	}}
	if err := t.conn.Export(handler, advPath, propsIface); err != nil {
		return fmt.Errorf("bluez: export advertisement properties: %w", err)
	}

	adapter := t.conn.Object(bluezService, t.adapterPath)
	call := adapter.Call(advManagerIface+".RegisterAdvertisement", 0, advPath, map[string]dbus.Variant{})
	if call.Err != nil {
		return fmt.Errorf("bluez: RegisterAdvertisement: %w", call.Err)
	}

	t.mu.Lock()
	t.advertising = true
	t.mu.Unlock()
	return nil
}

// StopAdvertising unregisters the advertisement. Safe to call when not
// advertising.
func (t *Transport) StopAdvertising() error {
	t.mu.Lock()
	if !t.advertising {
		t.mu.Unlock()
		return nil
	}
	t.advertising = false
	t.mu.Unlock()

	adapter := t.conn.Object(bluezService, t.adapterPath)
	call := adapter.Call(advManagerIface+".UnregisterAdvertisement", 0, advPath)
	if call.Err != nil {
		return fmt.Errorf("bluez: UnregisterAdvertisement: %w", call.Err)
	}
	return nil
}
