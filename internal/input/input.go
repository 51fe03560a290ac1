// Package input captures local key and pointer events and turns them into
// engine commands. Backends register themselves by name; the serve command
// picks one by configuration.
package input

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"hogpd/internal/engine"
)

// Config selects and parameterizes the capture backend.
type Config struct {
	Source string `help:"Input source (none runs the peripheral without local capture)" enum:"none,terminal,evdev" default:"none" env:"HOGPD_INPUT"`
	Device string `help:"evdev device node, for example /dev/input/event3" env:"HOGPD_INPUT_DEVICE"`
}

// Backend feeds commands to the engine until ctx is cancelled or the source
// is exhausted.
type Backend interface {
	Run(ctx context.Context, cmds chan<- engine.Command) error
}

// Factory builds a backend from the configuration.
type Factory func(cfg Config, logger *slog.Logger) (Backend, error)

var (
	mu       sync.Mutex
	backends = map[string]Factory{}
)

// Register adds a backend factory under a unique name. Called from backend
// init functions.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := backends[name]; dup {
		panic(fmt.Sprintf("input: backend %q registered twice", name))
	}
	backends[name] = f
}

// New builds the configured backend. Source "none" returns a nil backend.
func New(cfg Config, logger *slog.Logger) (Backend, error) {
	if cfg.Source == "" || cfg.Source == "none" {
		return nil, nil
	}
	mu.Lock()
	f, ok := backends[cfg.Source]
	mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("input: unknown backend %q (available: %v)", cfg.Source, Names())
	}
	return f(cfg, logger)
}

// Names lists the registered backends, sorted.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(backends))
	for name := range backends {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
