package export

import (
	"github.com/twpayne/go-polyline"

	"github.com/jengzang/trails-backend-go/internal/analysis"
)

// Polyline encodes the (lat, lon) path in Google's encoded polyline format
func Polyline(points []analysis.GeoPoint) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude(), p.Longitude()}
	}
	return string(polyline.EncodeCoords(coords))
}
