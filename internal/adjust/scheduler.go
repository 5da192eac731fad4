package adjust

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/heliodor/duskshift/internal/backend"
	"github.com/heliodor/duskshift/internal/solar"
	"github.com/heliodor/duskshift/pkg/config"
)

// Polling granularity: tight while a fade is in flight, relaxed while
// tracking the slow-moving sun.
const (
	fadeTickInterval = 100 * time.Millisecond
	idleTickInterval = 5 * time.Second
)

// Scheduler runs the continuous adjustment loop: it consumes pending
// signal flags, advances the transition engine and pushes the blended
// temperature to the display adapter. Single-threaded; the only
// suspension point is the sleep between ticks.
type Scheduler struct {
	cfg     *config.Config
	adapter backend.Adapter
	logger  *slog.Logger

	// raised asynchronously by the signal handler, consumed once per
	// tick
	Disable  Flag
	Shutdown Flag

	// injectable for tests
	now       func() time.Time
	sleep     func(time.Duration)
	elevation func(time.Time) float64
}

// NewScheduler creates a scheduler owning the given display adapter.
// The adapter is released exactly once when Run returns.
func NewScheduler(adapter backend.Adapter, cfg *config.Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		adapter: adapter,
		logger:  logger,
		now:     time.Now,
		sleep:   time.Sleep,
		elevation: func(t time.Time) float64 {
			return solar.Elevation(t, cfg.Latitude, cfg.Longitude)
		},
	}
}

// Run adjusts the color temperature continuously until a shutdown
// request completes. The saved display state is restored and the
// adapter freed on every exit path, including a fatal adjustment
// error.
func (s *Scheduler) Run() error {
	defer func() {
		if err := s.adapter.Restore(); err != nil {
			s.logger.Error("Failed to restore saved display state", "error", err)
		}
		s.adapter.Free()
	}()

	transition := NewTransition(s.cfg.Transitions, s.now())
	s.logger.Info("Continuous adjustment started",
		"day_temp", s.cfg.DayTemp,
		"night_temp", s.cfg.NightTemp,
		"transitions", s.cfg.Transitions)

	// set while disabled with no fade in flight; the saved state has
	// been reapplied and ticks stop pushing
	restored := false

	for {
		// Flags are read and cleared exactly once per tick, disable
		// before shutdown, so a toggle affects the temperature pushed
		// in the same tick it was observed.
		toggled := s.Disable.Consume()
		quitting := s.Shutdown.Consume()

		now := s.now()
		if toggled {
			transition.ToggleDisable(now)
			s.logger.Info("Adjustment toggled", "mode", transition.Mode())
		}
		if quitting {
			transition.RequestShutdown(now)
			s.logger.Info("Shutdown requested", "mode", transition.Mode())
		}

		elevation := s.elevation(now)
		target := CalculateTemp(elevation, s.cfg.DayTemp, s.cfg.NightTemp, s.cfg.Transitions)

		transition.Tick(now)
		if transition.Mode() == ModeStopped {
			s.logger.Info("Continuous adjustment stopped")
			return nil
		}

		if transition.Mode() == ModeDisabled && !transition.Fading() {
			// Steady disabled state: reapply the saved state once
			// instead of recomputing it every tick.
			if !restored {
				if err := s.adapter.Restore(); err != nil {
					s.logger.Warn("Failed to reapply saved display state", "error", err)
				}
				restored = true
			}
		} else {
			restored = false
			temp := transition.Blend(target)
			s.logger.Debug("Applying color temperature",
				"kelvin", temp,
				"elevation", elevation,
				"period", Period(elevation),
				"alpha", transition.Alpha())
			if err := s.adapter.SetTemperature(temp, s.cfg.Gamma); err != nil {
				return fmt.Errorf("temperature adjustment failed: %w", err)
			}
		}

		if transition.Fading() {
			s.sleep(fadeTickInterval)
		} else {
			s.sleep(idleTickInterval)
		}
	}
}
