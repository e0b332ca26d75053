package routing

import "math"

// earthRadiusMeters is the mean Earth radius used for great-circle math.
const earthRadiusMeters = 6371000.0

// haversineMeters returns the great-circle distance in meters between two
// points given in degrees.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := degreesToRadians(lat1)
	rlon1 := degreesToRadians(lon1)
	rlat2 := degreesToRadians(lat2)
	rlon2 := degreesToRadians(lon2)

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusMeters * c
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}
