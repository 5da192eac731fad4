package adjust

import (
	"math"
	"time"
)

// NeutralTemp is the reference temperature the display fades to when
// the adjustment is disabled or the process shuts down.
const NeutralTemp = 6500

// Fade durations: the initial fade-in from neutral on startup is long,
// all later fades (toggle, shutdown) are short.
const (
	startupFadeDuration = 10 * time.Second
	shortFadeDuration   = 2 * time.Second
)

// Mode is the lifecycle state of the transition engine. Transitions
// are monotonic toward ModeStopped except for the running/disabled
// toggle.
type Mode int

const (
	ModeRunning Mode = iota
	ModeDisabled
	ModeShuttingDown
	ModeStopped
)

func (m Mode) String() string {
	switch m {
	case ModeRunning:
		return "running"
	case ModeDisabled:
		return "disabled"
	case ModeShuttingDown:
		return "shutting-down"
	case ModeStopped:
		return "stopped"
	}
	return "unknown"
}

type fadeDirection int

const (
	towardTarget fadeDirection = iota
	towardNeutral
)

// destination is the alpha value the fade settles at.
func (d fadeDirection) destination() float64 {
	if d == towardNeutral {
		return 1.0
	}
	return 0.0
}

// fade is a bounded-duration linear blend. At most one is live at a
// time; starting a new fade replaces any in-flight one.
type fade struct {
	direction fadeDirection
	end       time.Time
	duration  time.Duration
}

// Transition blends the computed target temperature with NeutralTemp.
// Alpha 0 follows the computed target exactly, alpha 1 is fully
// neutral. Alpha is recomputed from the wall clock on every tick, so
// the blend advances at the same rate regardless of tick frequency.
type Transition struct {
	mode  Mode
	fade  *fade
	alpha float64

	// fades enabled; when false every fade request jumps straight to
	// its destination alpha
	fades bool
}

// NewTransition creates the engine in ModeRunning with the implicit
// startup fade in from the neutral temperature.
func NewTransition(fades bool, now time.Time) *Transition {
	t := &Transition{mode: ModeRunning, fades: fades}
	t.beginFade(towardTarget, startupFadeDuration, now)
	return t
}

func (t *Transition) beginFade(direction fadeDirection, duration time.Duration, now time.Time) {
	if !t.fades {
		t.fade = nil
		t.alpha = direction.destination()
		return
	}
	t.fade = &fade{
		direction: direction,
		end:       now.Add(duration),
		duration:  duration,
	}
}

// ToggleDisable flips between running and disabled with a short fade.
// Ignored once a shutdown is underway.
func (t *Transition) ToggleDisable(now time.Time) {
	switch t.mode {
	case ModeRunning:
		t.mode = ModeDisabled
		t.beginFade(towardNeutral, shortFadeDuration, now)
	case ModeDisabled:
		t.mode = ModeRunning
		t.beginFade(towardTarget, shortFadeDuration, now)
	}
}

// RequestShutdown starts the graceful fade to neutral. A second
// request, or a first one while disabled, stops immediately and
// cancels any in-flight fade.
func (t *Transition) RequestShutdown(now time.Time) {
	switch t.mode {
	case ModeRunning:
		t.mode = ModeShuttingDown
		t.beginFade(towardNeutral, shortFadeDuration, now)
	case ModeDisabled, ModeShuttingDown:
		t.fade = nil
		t.mode = ModeStopped
	}
}

// Tick advances the blend to the given time. When the active fade has
// run out it is cleared, alpha settles at the fade's destination, and
// a completed shutdown fade moves the engine to ModeStopped.
func (t *Transition) Tick(now time.Time) {
	if t.fade == nil {
		// Without fades a shutdown request takes effect on the next
		// tick.
		if t.mode == ModeShuttingDown {
			t.mode = ModeStopped
		}
		return
	}

	f := t.fade
	remaining := f.end.Sub(now).Seconds() / f.duration.Seconds()
	remaining = clamp(remaining, 0.0, 1.0)

	if f.direction == towardTarget {
		t.alpha = remaining
	} else {
		t.alpha = 1.0 - remaining
	}

	if !now.Before(f.end) {
		t.fade = nil
		t.alpha = f.direction.destination()
		if t.mode == ModeShuttingDown {
			t.mode = ModeStopped
		}
	}
}

// Blend interpolates between the neutral reference and the computed
// target according to the current alpha.
func (t *Transition) Blend(target int) int {
	return int(math.Round(t.alpha*NeutralTemp + (1.0-t.alpha)*float64(target)))
}

// Mode returns the current lifecycle state.
func (t *Transition) Mode() Mode { return t.mode }

// Fading reports whether a short transition is in flight.
func (t *Transition) Fading() bool { return t.fade != nil }

// Alpha returns the current blend weight toward the neutral reference.
func (t *Transition) Alpha() float64 { return t.alpha }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
