package backend

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/heliodor/duskshift/pkg/config"
)

// neutralTemp is the color temperature of an unadjusted display.
const neutralTemp = 6500

// Adapter applies a color temperature to a display device and can
// restore the state captured when it was opened. The engine owns the
// adapter exclusively: Free is called exactly once, on every exit path.
type Adapter interface {
	// SetTemperature derives a new output state from the temperature
	// and gamma correction and applies it. Safe to call repeatedly
	// with different values.
	SetTemperature(kelvin int, gamma [3]float64) error

	// Restore reapplies the state captured at initialization.
	// Best-effort; a failure is reported but not fatal.
	Restore() error

	// Free releases the adapter's resources.
	Free()
}

type initFunc func(cfg *config.Config, logger *slog.Logger) (Adapter, error)

// Probe order when no method is forced. The dummy backend always
// succeeds, so it goes last.
var methods = []struct {
	name string
	init initFunc
}{
	{"exec", func(cfg *config.Config, logger *slog.Logger) (Adapter, error) { return NewExec(cfg, logger) }},
	{"mqtt", func(cfg *config.Config, logger *slog.Logger) (Adapter, error) { return NewMQTT(cfg, logger) }},
	{"dummy", func(cfg *config.Config, logger *slog.Logger) (Adapter, error) { return NewDummy(cfg, logger) }},
}

// Open initializes the display backend named by cfg.Method. When no
// method is forced it probes all backends in order and settles on the
// first one that initializes.
func Open(cfg *config.Config, logger *slog.Logger) (Adapter, error) {
	if cfg.Method != "" {
		for _, m := range methods {
			if m.name != cfg.Method {
				continue
			}
			adapter, err := m.init(cfg, logger)
			if err != nil {
				return nil, fmt.Errorf("initialization of %s failed: %w", m.name, err)
			}
			return adapter, nil
		}
		return nil, fmt.Errorf("unknown method %q", cfg.Method)
	}

	for _, m := range methods {
		adapter, err := m.init(cfg, logger)
		if err != nil {
			logger.Warn("Backend initialization failed, trying next", "method", m.name, "error", err)
			continue
		}
		logger.Info("Display backend selected", "method", m.name)
		return adapter, nil
	}
	return nil, errors.New("no display backend could be initialized")
}
