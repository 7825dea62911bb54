package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is Earth's mean radius
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two points in meters
// using the Haversine formula. Inputs are plain degrees.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)

	lat1Rad := p1.Lat.Radians()
	lat2Rad := p2.Lat.Radians()
	dLat := lat2Rad - lat1Rad
	dLon := p2.Lng.Radians() - p1.Lng.Radians()

	// Every term is even in dLat/dLon, so d(A,B) == d(B,A) bit for bit
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}
