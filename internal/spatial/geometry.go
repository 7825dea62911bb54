package spatial

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Center returns the spherical centroid of a set of points.
// Points are summed as unit vectors on the sphere, so trails crossing the
// antimeridian do not get pulled towards longitude 0.
func Center(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sum r3.Vector
	for _, p := range points {
		sum = sum.Add(s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon)).Vector)
	}

	// Degenerate (e.g. two antipodal points): fall back to the first point
	if sum.Norm() == 0 {
		return points[0]
	}

	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return Point{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
}

// BoundingBox calculates the bounding box of a set of points
// Returns (minLat, minLon, maxLat, maxLon)
func BoundingBox(points []Point) (float64, float64, float64, float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}

	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(points[0].Lat, points[0].Lon))
	for _, p := range points[1:] {
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Lat, p.Lon))
	}

	lo, hi := rect.Lo(), rect.Hi()
	return lo.Lat.Degrees(), lo.Lng.Degrees(), hi.Lat.Degrees(), hi.Lng.Degrees()
}
