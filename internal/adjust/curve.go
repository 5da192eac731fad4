package adjust

import "github.com/heliodor/duskshift/internal/solar"

// Elevation thresholds bounding the day/night transition band, in
// degrees. Between the two the target temperature is interpolated
// linearly; outside it the day or night preference applies directly.
const (
	TransitionLow  = solar.CivilTwilightElev
	TransitionHigh = 3.0
)

// CalculateTemp maps a solar elevation to a target color temperature in
// Kelvin. With interpolate false the transition band collapses into a
// hard cutover at TransitionHigh.
func CalculateTemp(elevation float64, dayTemp, nightTemp int, interpolate bool) int {
	if !interpolate {
		if elevation < TransitionHigh {
			return nightTemp
		}
		return dayTemp
	}

	switch {
	case elevation < TransitionLow:
		return nightTemp
	case elevation < TransitionHigh:
		a := (TransitionLow - elevation) / (TransitionLow - TransitionHigh)
		return int((1.0-a)*float64(nightTemp) + a*float64(dayTemp))
	default:
		return dayTemp
	}
}

// Period names the part of the day/night cycle the elevation falls in.
// Used for diagnostics only.
func Period(elevation float64) string {
	switch {
	case elevation < TransitionLow:
		return "night"
	case elevation < TransitionHigh:
		return "transition"
	default:
		return "daytime"
	}
}
