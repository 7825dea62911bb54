package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance_IdenticalPointsIsZero(t *testing.T) {
	for _, p := range []Point{{0, 0}, {45, -122}, {-89.9, 179.9}, {90, 0}} {
		assert.Equal(t, 0.0, HaversineDistance(p.Lat, p.Lon, p.Lat, p.Lon))
	}
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	pairs := [][4]float64{
		{45.0, -122.0, 45.001, -122.0},
		{38.0675, -120.5436, 38.1391, -120.4561},
		{-33.86, 151.2, 51.5, -0.12},
		{10.123456, 20.654321, -10.987654, -160.13579},
	}
	for _, p := range pairs {
		assert.Equal(t, HaversineDistance(p[0], p[1], p[2], p[3]), HaversineDistance(p[2], p[3], p[0], p[1]))
	}
}

func TestHaversineDistance_KnownValues(t *testing.T) {
	// 0.001 degree of latitude
	expected := EarthRadiusMeters * 0.001 * math.Pi / 180
	assert.InDelta(t, expected, HaversineDistance(45.0, -122.0, 45.001, -122.0), 1e-6)
	assert.InDelta(t, 111.19, HaversineDistance(45.0, -122.0, 45.001, -122.0), 0.01)

	// Angels Camp to Murphys
	assert.InDelta(t, 11046, HaversineDistance(38.0675, -120.5436, 38.1391, -120.4561), 100)

	// Antipodal points are half the circumference apart
	assert.InDelta(t, math.Pi*EarthRadiusMeters, HaversineDistance(0, 0, 0, 180), 1e-6)
	assert.InDelta(t, math.Pi*EarthRadiusMeters, HaversineDistance(90, 0, -90, 0), 1e-6)
}
