package analysis

import (
	"github.com/jengzang/trails-backend-go/internal/spatial"
)

// Coordinate is one raw sample as found in GeoJSON: longitude, latitude, elevation.
type Coordinate struct {
	Longitude float64
	Latitude  float64
	Elevation float64
}

// GeoPoint is an immutable trail sample with its cumulative distance (meters)
// from the first point of the sequence that produced it.
type GeoPoint struct {
	lat  float64
	lon  float64
	ele  float64
	dist float64
}

// NewGeoPoint creates a GeoPoint
func NewGeoPoint(lat, lon, ele, distanceFromStart float64) GeoPoint {
	return GeoPoint{lat: lat, lon: lon, ele: ele, dist: distanceFromStart}
}

// Latitude in degrees
func (p GeoPoint) Latitude() float64 { return p.lat }

// Longitude in degrees
func (p GeoPoint) Longitude() float64 { return p.lon }

// Elevation in meters
func (p GeoPoint) Elevation() float64 { return p.ele }

// DistanceFromStart is the cumulative distance in meters
func (p GeoPoint) DistanceFromStart() float64 { return p.dist }

// LatLon returns the horizontal position of the point
func (p GeoPoint) LatLon() spatial.Point {
	return spatial.Point{Lat: p.lat, Lon: p.lon}
}

// BuildPoints walks coords in order and emits one GeoPoint per coordinate
// carrying the running great-circle distance as of that point.
func BuildPoints(coords []Coordinate) []GeoPoint {
	if len(coords) == 0 {
		return nil
	}

	points := make([]GeoPoint, 0, len(coords))
	distanceSoFar := 0.0
	for i, c := range coords {
		if i > 0 {
			prev := coords[i-1]
			distanceSoFar += spatial.HaversineDistance(prev.Latitude, prev.Longitude, c.Latitude, c.Longitude)
		}
		points = append(points, NewGeoPoint(c.Latitude, c.Longitude, c.Elevation, distanceSoFar))
	}

	return points
}

func elevations(points []GeoPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.ele
	}
	return values
}

func latLons(points []GeoPoint) []spatial.Point {
	values := make([]spatial.Point, len(points))
	for i, p := range points {
		values[i] = p.LatLon()
	}
	return values
}
