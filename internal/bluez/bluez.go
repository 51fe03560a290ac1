// Package bluez binds the engine's Transport to the BlueZ D-Bus API: it
// exports the GATT application and LE advertisement objects, relays input
// report notifications, and translates bus signals (adapter power, device
// connection, notify subscriptions) into engine events.
package bluez

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	dbus "github.com/godbus/dbus/v5"

	"hogpd/device"
	"hogpd/internal/engine"
	"hogpd/internal/log"
)

const (
	bluezService     = "org.bluez"
	adapterIface     = "org.bluez.Adapter1"
	deviceIface      = "org.bluez.Device1"
	gattManagerIface = "org.bluez.GattManager1"
	advManagerIface  = "org.bluez.LEAdvertisingManager1"

	gattServiceIface        = "org.bluez.GattService1"
	gattCharacteristicIface = "org.bluez.GattCharacteristic1"
	gattDescriptorIface     = "org.bluez.GattDescriptor1"
	advertisementIface      = "org.bluez.LEAdvertisement1"

	objManagerIface = "org.freedesktop.DBus.ObjectManager"
	propsIface      = "org.freedesktop.DBus.Properties"
)

const (
	appPath = dbus.ObjectPath("/org/hogpd")
	advPath = dbus.ObjectPath("/org/hogpd/advertisement0")
)

// Config selects the adapter the peripheral binds to.
type Config struct {
	// Adapter is the controller name (for example "hci0"). Empty picks the
	// first adapter BlueZ reports.
	Adapter string
}

// Transport implements engine.Transport on top of the BlueZ D-Bus API.
type Transport struct {
	conn      *dbus.Conn
	logger    *slog.Logger
	rawLogger log.RawLogger

	adapterPath dbus.ObjectPath

	events  chan engine.Event
	signals chan *dbus.Signal

	mu          sync.Mutex
	app         *application
	advertising bool
	advProps    map[string]dbus.Variant
	lastPeer    string
	subscribers int
	closed      bool
}

// New connects to the system bus, resolves the adapter and starts the
// signal pump.
func New(cfg Config, logger *slog.Logger, rawLogger log.RawLogger) (*Transport, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("bluez: connect system bus: %w", err)
	}

	adapter, err := findAdapter(conn, cfg.Adapter)
	if err != nil {
		conn.Close()
		return nil, err
	}

	t := &Transport{
		conn:        conn,
		logger:      logger,
		rawLogger:   rawLogger,
		adapterPath: adapter,
		events:      make(chan engine.Event, 16),
		signals:     make(chan *dbus.Signal, 32),
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(propsIface),
		dbus.WithMatchMember("PropertiesChanged"),
		dbus.WithMatchSender(bluezService),
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bluez: subscribe to property changes: %w", err)
	}
	conn.Signal(t.signals)
	go t.pump()

	logger.Info("using adapter", "path", string(adapter))
	return t, nil
}

// findAdapter walks the BlueZ object tree for an Adapter1 object. name
// narrows the match to a controller name suffix like "hci0".
func findAdapter(conn *dbus.Conn, name string) (dbus.ObjectPath, error) {
	obj := conn.Object(bluezService, dbus.ObjectPath("/"))
	var objs map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	if call := obj.Call(objManagerIface+".GetManagedObjects", 0); call.Err != nil {
		return "", fmt.Errorf("bluez: GetManagedObjects: %w", call.Err)
	} else if err := call.Store(&objs); err != nil {
		return "", fmt.Errorf("bluez: decode GetManagedObjects: %w", err)
	}
	for path, ifaces := range objs {
		if _, ok := ifaces[adapterIface]; !ok {
			continue
		}
		if name == "" || strings.HasSuffix(string(path), "/"+name) {
			return path, nil
		}
	}
	if name != "" {
		return "", fmt.Errorf("bluez: adapter %q not found", name)
	}
	return "", fmt.Errorf("bluez: no Bluetooth adapter found")
}

// Powered reads the adapter Powered property.
func (t *Transport) Powered() (bool, error) {
	obj := t.conn.Object(bluezService, t.adapterPath)
	v, err := obj.GetProperty(adapterIface + ".Powered")
	if err != nil {
		return false, fmt.Errorf("bluez: read Powered: %w", err)
	}
	on, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("bluez: unexpected Powered type %T", v.Value())
	}
	return on, nil
}

// Events delivers engine events translated from bus signals.
func (t *Transport) Events() <-chan engine.Event {
	return t.events
}

// pump translates bus signals into engine events until the signal channel
// closes with the connection.
func (t *Transport) pump() {
	for sig := range t.signals {
		t.handleSignal(sig)
	}
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if !closed {
		t.logger.Warn("system bus connection lost")
	}
	close(t.events)
}

func (t *Transport) handleSignal(sig *dbus.Signal) {
	if sig == nil || len(sig.Body) < 2 {
		return
	}
	iface, _ := sig.Body[0].(string)
	changed, _ := sig.Body[1].(map[string]dbus.Variant)
	if changed == nil {
		return
	}

	switch iface {
	case adapterIface:
		if sig.Path != t.adapterPath {
			return
		}
		v, ok := changed["Powered"]
		if !ok {
			return
		}
		if on, _ := v.Value().(bool); on {
			t.logger.Info("adapter powered on")
			t.pushEvent(engine.Event{Kind: engine.EventReady})
		} else {
			t.logger.Warn("adapter powered off")
			t.pushEvent(engine.Event{Kind: engine.EventPowerToggle})
		}

	case deviceIface:
		v, ok := changed["Connected"]
		if !ok {
			return
		}
		peer := peerFromPath(sig.Path)
		if on, _ := v.Value().(bool); on {
			// Connection established; the engine learns about it once the
			// central subscribes to input reports.
			t.mu.Lock()
			t.lastPeer = peer
			t.mu.Unlock()
			t.logger.Debug("device connected", "peer", peer)
		} else {
			t.mu.Lock()
			known := t.lastPeer == peer || t.lastPeer == ""
			if known {
				t.lastPeer = ""
			}
			t.mu.Unlock()
			if known {
				t.pushEvent(engine.Event{Kind: engine.EventDisconnected})
			}
		}
	}
}

// pushEvent delivers without blocking the signal pump; the engine drains
// quickly, so a full channel means it is gone and dropping is fine.
func (t *Transport) pushEvent(ev engine.Event) {
	select {
	case t.events <- ev:
	default:
		t.logger.Warn("event dropped", "event", ev.Kind.String())
	}
}

// onSubscribe is called from a Report characteristic when a central starts
// or stops notifications. The engine sees one connection for as long as at
// least one Report characteristic has a subscriber.
func (t *Transport) onSubscribe(active bool) {
	t.mu.Lock()
	was := t.subscribers
	if active {
		t.subscribers++
	} else if t.subscribers > 0 {
		t.subscribers--
	}
	now := t.subscribers
	peer := t.lastPeer
	t.mu.Unlock()

	switch {
	case was == 0 && now == 1:
		t.pushEvent(engine.Event{Kind: engine.EventConnected, Peer: peer})
	case was == 1 && now == 0:
		t.pushEvent(engine.Event{Kind: engine.EventDisconnected})
	}
}

// Send routes the report to the Report characteristic matching its Report
// ID prefix and notifies the subscribed central. Without a subscriber the
// report is dropped.
func (t *Transport) Send(report []byte) error {
	t.mu.Lock()
	app := t.app
	t.mu.Unlock()
	if app == nil {
		return fmt.Errorf("bluez: services not registered")
	}
	if len(report) == 0 {
		return fmt.Errorf("bluez: empty report")
	}
	switch report[0] {
	case device.ReportIDMouse:
		return app.mouseReport.notify(report)
	case device.ReportIDKeyboard:
		return app.keyboardReport.notify(report)
	default:
		return fmt.Errorf("bluez: no Report characteristic for report ID 0x%02X", report[0])
	}
}

// SetBatteryLevel updates the Battery Level characteristic and notifies
// subscribers.
func (t *Transport) SetBatteryLevel(percent uint8) error {
	t.mu.Lock()
	app := t.app
	t.mu.Unlock()
	if app == nil || app.batteryLevel == nil {
		return fmt.Errorf("bluez: services not registered")
	}
	return app.batteryLevel.notify([]byte{percent})
}

// Close tears down the bus connection. Registered objects disappear with
// the connection, so unregistration is best-effort.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	advertising := t.advertising
	registered := t.app != nil
	t.mu.Unlock()

	adapter := t.conn.Object(bluezService, t.adapterPath)
	if advertising {
		_ = adapter.Call(advManagerIface+".UnregisterAdvertisement", 0, advPath).Err
	}
	if registered {
		_ = adapter.Call(gattManagerIface+".UnregisterApplication", 0, appPath).Err
	}
	return t.conn.Close()
}

// peerFromPath extracts the device address from a BlueZ device object path
// of the form .../dev_XX_XX_XX_XX_XX_XX.
func peerFromPath(p dbus.ObjectPath) string {
	s := string(p)
	idx := strings.LastIndex(s, "/dev_")
	if idx < 0 {
		return ""
	}
	return strings.ReplaceAll(s[idx+5:], "_", ":")
}
