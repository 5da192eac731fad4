package backend

import "math"

// whitePoint approximates the blackbody white point for a color
// temperature as RGB channel scales in [0,1], using the piecewise
// curve fit popularized by Tanner Helland.
func whitePoint(kelvin int) (r, g, b float64) {
	t := float64(kelvin) / 100.0

	if t <= 66 {
		r = 255
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
	}

	if t <= 66 {
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}

	switch {
	case t >= 66:
		b = 255
	case t <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}

	return clampChannel(r), clampChannel(g), clampChannel(b)
}

func clampChannel(v float64) float64 {
	return math.Min(math.Max(v, 0), 255) / 255.0
}

// FillRamp writes per-channel gamma ramp values for the given color
// temperature and gamma correction. The three slices must have the
// same length, the ramp resolution of the target device.
func FillRamp(r, g, b []uint16, kelvin int, gamma [3]float64) {
	wr, wg, wb := whitePoint(kelvin)
	size := float64(len(r))

	for i := range r {
		v := float64(i) / size
		r[i] = uint16(math.Pow(v, 1.0/gamma[0]) * wr * math.MaxUint16)
		g[i] = uint16(math.Pow(v, 1.0/gamma[1]) * wg * math.MaxUint16)
		b[i] = uint16(math.Pow(v, 1.0/gamma[2]) * wb * math.MaxUint16)
	}
}
