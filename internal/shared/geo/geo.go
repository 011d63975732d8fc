package geo

import "math"

const earthRadiusM = 6371000.0

// HaversineM returns the great-circle distance in meters between two
// WGS84 coordinates.
func HaversineM(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	// Float rounding can push h a hair outside [0,1] for antipodal or
	// near-identical points, which would NaN the Asin below.
	if h < 0 {
		h = 0
	} else if h > 1 {
		h = 1
	}

	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}
