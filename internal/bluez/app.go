package bluez

import (
	"fmt"
	"sync"

	dbus "github.com/godbus/dbus/v5"

	"hogpd/gatt"
	"hogpd/internal/engine"
)

// HID Control Point command values.
const (
	controlSuspend     = 0x00
	controlExitSuspend = 0x01
)

// application is the exported GATT object tree. BlueZ reads it through the
// ObjectManager interface on the app root and then talks to the individual
// service, characteristic and descriptor objects.
type application struct {
	t *Transport

	services []*service

	mouseReport    *characteristic
	keyboardReport *characteristic
	batteryLevel   *characteristic
}

type service struct {
	path    dbus.ObjectPath
	uuid    string
	primary bool
	chars   []*characteristic
}

type characteristic struct {
	t *Transport

	path        dbus.ObjectPath
	servicePath dbus.ObjectPath
	uuid        string
	flags       []string
	descriptors []*descriptor

	// onWrite handles host control writes, nil for read-only values.
	onWrite func(data []byte)
	// onSubscribe reports notify subscription changes, nil when the engine
	// does not care.
	onSubscribe func(active bool)

	mu        sync.Mutex
	value     []byte
	notifying bool
}

type descriptor struct {
	path     dbus.ObjectPath
	charPath dbus.ObjectPath
	uuid     string
	flags    []string
	value    []byte
}

// RegisterServices exports the profile as a BlueZ GATT application and
// registers it with the adapter's GattManager1.
func (t *Transport) RegisterServices(p *gatt.Profile) error {
	t.mu.Lock()
	if t.app != nil {
		t.mu.Unlock()
		return fmt.Errorf("bluez: services already registered")
	}
	app := t.buildApplication(p)
	t.app = app
	t.mu.Unlock()

	if err := t.exportApplication(app); err != nil {
		return err
	}

	adapter := t.conn.Object(bluezService, t.adapterPath)
	call := adapter.Call(gattManagerIface+".RegisterApplication", 0, appPath, map[string]dbus.Variant{})
	if call.Err != nil {
		return fmt.Errorf("bluez: RegisterApplication: %w", call.Err)
	}
	return nil
}

// buildApplication maps the transport-neutral profile onto D-Bus object
// paths and wires the runtime characteristics back to the transport.
func (t *Transport) buildApplication(p *gatt.Profile) *application {
	app := &application{t: t}

	for si, svc := range p.Services {
		svcPath := dbus.ObjectPath(fmt.Sprintf("%s/service%d", appPath, si))
		s := &service{
			path:    svcPath,
			uuid:    svc.UUID.String(),
			primary: svc.Primary,
		}
		for ci, ch := range svc.Characteristics {
			charPath := dbus.ObjectPath(fmt.Sprintf("%s/char%d", svcPath, ci))
			c := &characteristic{
				t:           t,
				path:        charPath,
				servicePath: svcPath,
				uuid:        ch.UUID.String(),
				flags:       append([]string(nil), ch.Flags...),
				value:       append([]byte(nil), ch.Value...),
			}
			for di, d := range ch.Descriptors {
				c.descriptors = append(c.descriptors, &descriptor{
					path:     dbus.ObjectPath(fmt.Sprintf("%s/desc%d", charPath, di)),
					charPath: charPath,
					uuid:     d.UUID.String(),
					flags:    append([]string(nil), d.Flags...),
					value:    append([]byte(nil), d.Value...),
				})
			}

			switch ch {
			case p.MouseReport:
				app.mouseReport = c
				c.onSubscribe = t.onSubscribe
			case p.KeyboardReport:
				app.keyboardReport = c
				c.onSubscribe = t.onSubscribe
			case p.BatteryLevel:
				app.batteryLevel = c
			}
			if ch.UUID == gatt.UUIDHIDControlPoint {
				c.onWrite = t.onControlPoint
			}
			if ch.UUID == gatt.UUIDProtocolMode {
				c.onWrite = t.onProtocolMode
			}

			s.chars = append(s.chars, c)
		}
		app.services = append(app.services, s)
	}
	return app
}

func (t *Transport) exportApplication(app *application) error {
	if err := t.conn.Export(app, appPath, objManagerIface); err != nil {
		return fmt.Errorf("bluez: export object manager: %w", err)
	}
	for _, s := range app.services {
		if err := t.exportObject(s.path, gattServiceIface, s, s.properties()); err != nil {
			return err
		}
		for _, c := range s.chars {
			if err := t.exportObject(c.path, gattCharacteristicIface, c, nil); err != nil {
				return err
			}
			for _, d := range c.descriptors {
				if err := t.exportObject(d.path, gattDescriptorIface, d, d.properties()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// exportObject publishes one GATT node: its BlueZ interface plus a
// Properties handler. props is nil for characteristics, whose property set
// changes at runtime.
func (t *Transport) exportObject(path dbus.ObjectPath, iface string, obj interface{}, props map[string]dbus.Variant) error {
	if err := t.conn.Export(obj, path, iface); err != nil {
		return fmt.Errorf("bluez: export %s: %w", path, err)
	}
	var get func() map[string]dbus.Variant
	if c, ok := obj.(*characteristic); ok {
		get = c.properties
	} else {
		snapshot := props
		get = func() map[string]dbus.Variant { return snapshot }
	}
	if err := t.conn.Export(&propsHandler{iface: iface, get: get}, path, propsIface); err != nil {
		return fmt.Errorf("bluez: export %s properties: %w", path, err)
	}
	return nil
}

// onControlPoint handles HID Control Point writes (Suspend, Exit Suspend).
func (t *Transport) onControlPoint(data []byte) {
	if len(data) == 0 {
		return
	}
	switch data[0] {
	case controlSuspend:
		t.logger.Info("host requested suspend")
	case controlExitSuspend:
		t.logger.Info("host requested exit suspend")
	default:
		t.logger.Debug("unknown control point command", "value", data[0])
	}
}

// onProtocolMode handles Protocol Mode writes. Boot protocol is not
// supported; the report map only declares Report Protocol.
func (t *Transport) onProtocolMode(data []byte) {
	if len(data) == 1 && data[0] == 0x00 {
		t.logger.Warn("host requested boot protocol, staying in report protocol")
	}
}

// GetManagedObjects implements org.freedesktop.DBus.ObjectManager for the
// application root; BlueZ uses it to enumerate the GATT tree.
func (a *application) GetManagedObjects() (map[dbus.ObjectPath]map[string]map[string]dbus.Variant, *dbus.Error) {
	out := make(map[dbus.ObjectPath]map[string]map[string]dbus.Variant)
	for _, s := range a.services {
		out[s.path] = map[string]map[string]dbus.Variant{gattServiceIface: s.properties()}
		for _, c := range s.chars {
			out[c.path] = map[string]map[string]dbus.Variant{gattCharacteristicIface: c.properties()}
			for _, d := range c.descriptors {
				out[d.path] = map[string]map[string]dbus.Variant{gattDescriptorIface: d.properties()}
			}
		}
	}
	return out, nil
}

func (s *service) properties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"UUID":    dbus.MakeVariant(s.uuid),
		"Primary": dbus.MakeVariant(s.primary),
	}
}

func (c *characteristic) properties() map[string]dbus.Variant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]dbus.Variant{
		"UUID":      dbus.MakeVariant(c.uuid),
		"Service":   dbus.MakeVariant(c.servicePath),
		"Flags":     dbus.MakeVariant(c.flags),
		"Value":     dbus.MakeVariant(append([]byte(nil), c.value...)),
		"Notifying": dbus.MakeVariant(c.notifying),
	}
}

func (d *descriptor) properties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"UUID":           dbus.MakeVariant(d.uuid),
		"Characteristic": dbus.MakeVariant(d.charPath),
		"Flags":          dbus.MakeVariant(d.flags),
		"Value":          dbus.MakeVariant(append([]byte(nil), d.value...)),
	}
}

// ReadValue implements org.bluez.GattCharacteristic1.
func (c *characteristic) ReadValue(options map[string]dbus.Variant) ([]byte, *dbus.Error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.value...), nil
}

// WriteValue implements org.bluez.GattCharacteristic1.
func (c *characteristic) WriteValue(value []byte, options map[string]dbus.Variant) *dbus.Error {
	c.t.rawLogger.Log(true, value)
	c.mu.Lock()
	c.value = append(c.value[:0], value...)
	c.mu.Unlock()
	if c.onWrite != nil {
		c.onWrite(value)
	}
	return nil
}

// StartNotify implements org.bluez.GattCharacteristic1.
func (c *characteristic) StartNotify() *dbus.Error {
	c.mu.Lock()
	was := c.notifying
	c.notifying = true
	c.mu.Unlock()
	if !was && c.onSubscribe != nil {
		c.onSubscribe(true)
	}
	return nil
}

// StopNotify implements org.bluez.GattCharacteristic1.
func (c *characteristic) StopNotify() *dbus.Error {
	c.mu.Lock()
	was := c.notifying
	c.notifying = false
	c.mu.Unlock()
	if was && c.onSubscribe != nil {
		c.onSubscribe(false)
	}
	return nil
}

// notify stores the value and emits PropertiesChanged so BlueZ pushes a
// notification to the subscribed central. Without a subscriber the value is
// stored but nothing is sent.
func (c *characteristic) notify(value []byte) error {
	c.mu.Lock()
	c.value = append(c.value[:0], value...)
	notifying := c.notifying
	snapshot := append([]byte(nil), c.value...)
	c.mu.Unlock()

	if !notifying {
		return nil
	}
	err := c.t.conn.Emit(c.path, propsIface+".PropertiesChanged",
		gattCharacteristicIface,
		map[string]dbus.Variant{"Value": dbus.MakeVariant(snapshot)},
		[]string{})
	if err != nil {
		return fmt.Errorf("bluez: notify %s: %w", c.uuid, err)
	}
	return nil
}

// ReadValue implements org.bluez.GattDescriptor1.
func (d *descriptor) ReadValue(options map[string]dbus.Variant) ([]byte, *dbus.Error) {
	return append([]byte(nil), d.value...), nil
}

// propsHandler implements org.freedesktop.DBus.Properties for one exported
// object.
type propsHandler struct {
	iface string
	get   func() map[string]dbus.Variant
}

func (p *propsHandler) Get(iface, prop string) (dbus.Variant, *dbus.Error) {
	if iface != p.iface {
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("unknown interface %s", iface))
	}
	v, ok := p.get()[prop]
	if !ok {
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("unknown property %s", prop))
	}
	return v, nil
}

func (p *propsHandler) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	if iface != p.iface {
		return nil, dbus.MakeFailedError(fmt.Errorf("unknown interface %s", iface))
	}
	return p.get(), nil
}

func (p *propsHandler) Set(iface, prop string, value dbus.Variant) *dbus.Error {
	return dbus.MakeFailedError(fmt.Errorf("property %s is read-only", prop))
}

var _ engine.Transport = (*Transport)(nil)
