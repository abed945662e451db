package proj

import "math"

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }

func rad2deg(r float64) float64 { return r * 180.0 / math.Pi }

// normLon wraps a longitude in degrees to [-180, 180), matching the
// half-open convention used by the engine's axis comparisons.
func normLon(lon float64) float64 {
	for lon < -180 {
		lon += 360
	}
	for lon >= 180 {
		lon -= 360
	}
	return lon
}
