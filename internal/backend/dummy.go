package backend

import (
	"log/slog"

	"github.com/heliodor/duskshift/pkg/config"
)

const dummyRampSize = 256

// Dummy applies adjustments to an in-memory gamma ramp and logs them.
// It stands in for a hardware backend when no other method is usable,
// and is the reference implementation of the adapter contract.
type Dummy struct {
	logger *slog.Logger

	// channel-major, 3*rampSize entries
	saved   []uint16
	current []uint16
	kelvin  int
}

// NewDummy opens the dummy backend. The ramp active at initialization
// is a linear identity ramp; Restore returns to it.
func NewDummy(cfg *config.Config, logger *slog.Logger) (*Dummy, error) {
	d := &Dummy{
		logger: logger,
		saved:  make([]uint16, 3*dummyRampSize),
		kelvin: neutralTemp,
	}

	FillRamp(
		d.saved[0*dummyRampSize:1*dummyRampSize],
		d.saved[1*dummyRampSize:2*dummyRampSize],
		d.saved[2*dummyRampSize:3*dummyRampSize],
		neutralTemp,
		[3]float64{1.0, 1.0, 1.0},
	)

	d.current = make([]uint16, len(d.saved))
	copy(d.current, d.saved)

	return d, nil
}

// SetTemperature fills a fresh ramp for the temperature and applies it.
func (d *Dummy) SetTemperature(kelvin int, gamma [3]float64) error {
	FillRamp(
		d.current[0*dummyRampSize:1*dummyRampSize],
		d.current[1*dummyRampSize:2*dummyRampSize],
		d.current[2*dummyRampSize:3*dummyRampSize],
		kelvin,
		gamma,
	)
	d.kelvin = kelvin
	d.logger.Debug("Applied color temperature", "method", "dummy", "kelvin", kelvin)
	return nil
}

// Restore reapplies the ramp captured at initialization.
func (d *Dummy) Restore() error {
	copy(d.current, d.saved)
	d.kelvin = neutralTemp
	d.logger.Debug("Restored saved gamma ramp", "method", "dummy")
	return nil
}

// Free releases the ramp buffers.
func (d *Dummy) Free() {
	d.saved = nil
	d.current = nil
}

// Kelvin returns the last applied temperature.
func (d *Dummy) Kelvin() int { return d.kelvin }

// Ramp returns the currently applied ramp for one channel (0 red,
// 1 green, 2 blue).
func (d *Dummy) Ramp(channel int) []uint16 {
	return d.current[channel*dummyRampSize : (channel+1)*dummyRampSize]
}
