// Package battery reads the local battery level from sysfs and feeds it to
// the engine so the Battery Service tracks the real charge state.
package battery

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"hogpd/internal/engine"
)

// DefaultSysfsRoot is where the kernel exposes power supply devices.
const DefaultSysfsRoot = "/sys/class/power_supply"

// Config selects the power supply and the poll cadence.
type Config struct {
	Device       string        `help:"Power supply name (for example BAT0), empty autodetects the first battery" env:"HOGPD_BATTERY_DEVICE"`
	PollInterval time.Duration `help:"How often to re-read the battery level, 0 disables polling" default:"30s" env:"HOGPD_BATTERY_POLL_INTERVAL"`
}

// Monitor polls one sysfs power supply device.
type Monitor struct {
	cfg    Config
	root   string
	logger *slog.Logger
}

// NewMonitor creates a monitor over DefaultSysfsRoot.
func NewMonitor(cfg Config, logger *slog.Logger) *Monitor {
	return newMonitor(cfg, DefaultSysfsRoot, logger)
}

func newMonitor(cfg Config, root string, logger *slog.Logger) *Monitor {
	return &Monitor{cfg: cfg, root: root, logger: logger}
}

// Read returns the current battery percentage.
func (m *Monitor) Read() (uint8, error) {
	dev, err := m.device()
	if err != nil {
		return 0, err
	}
	raw, err := os.ReadFile(filepath.Join(m.root, dev, "capacity"))
	if err != nil {
		return 0, fmt.Errorf("battery: read capacity: %w", err)
	}
	pct, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("battery: parse capacity: %w", err)
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return uint8(pct), nil
}

// device resolves the configured power supply, or the first one whose type
// is Battery when none is configured.
func (m *Monitor) device() (string, error) {
	if m.cfg.Device != "" {
		if _, err := os.Stat(filepath.Join(m.root, m.cfg.Device)); err != nil {
			return "", fmt.Errorf("battery: device %s: %w", m.cfg.Device, err)
		}
		return m.cfg.Device, nil
	}
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return "", fmt.Errorf("battery: list power supplies: %w", err)
	}
	for _, e := range entries {
		raw, err := os.ReadFile(filepath.Join(m.root, e.Name(), "type"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(raw)) == "Battery" {
			return e.Name(), nil
		}
	}
	return "", fmt.Errorf("battery: no battery found under %s", m.root)
}

// Run polls the battery and pushes level commands until ctx is cancelled.
// A missing battery is logged once and stops the poller; the peripheral
// keeps running with the last reported level.
func (m *Monitor) Run(ctx context.Context, cmds chan<- engine.Command) error {
	if m.cfg.PollInterval <= 0 {
		return nil
	}

	push := func() bool {
		pct, err := m.Read()
		if err != nil {
			m.logger.Warn("battery read failed, stopping poller", "error", err)
			return false
		}
		select {
		case cmds <- engine.Command{Kind: engine.BatteryLevel, Percent: pct}:
		case <-ctx.Done():
		}
		return true
	}

	if !push() {
		return nil
	}

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !push() {
				return nil
			}
		}
	}
}
