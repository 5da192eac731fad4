package solar

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// CivilTwilightElev is the solar elevation in degrees marking the lower
// edge of civil twilight. Below this the sky no longer contributes
// useful daylight.
const CivilTwilightElev = -6.0

// Elevation returns the sun's angle above the horizon in degrees at the
// given time and location. Negative when the sun is below the horizon.
func Elevation(t time.Time, lat, lon float64) float64 {
	position := suncalc.GetPosition(t, lat, lon)

	// suncalc reports altitude in radians
	return position.Altitude * (180.0 / math.Pi)
}
