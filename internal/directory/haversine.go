package directory

import "math"

// earthRadius is the spherical Earth approximation, in meters.
const earthRadius = 6371000.0

// haversine returns the great-circle distance in meters between two
// (lon, lat) points given in degrees.
func haversine(lon1, lat1, lon2, lat2 float64) float64 {
	dlat := radians(lat2 - lat1)
	dlon := radians(lon2 - lon1)
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
