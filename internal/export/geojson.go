// Package export renders analysed trails as GeoJSON, KML and encoded polylines.
package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/jengzang/trails-backend-go/internal/analysis"
	"github.com/jengzang/trails-backend-go/internal/spatial"
)

// GeoJSON builds a FeatureCollection with one LineString per segment. Segment
// metrics travel as feature properties. Positions are 2-D.
func GeoJSON(name string, points []analysis.GeoPoint, segments []analysis.SegmentSummary) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{"name": name}

	for _, seg := range segments {
		span, ok := segmentPoints(points, seg)
		if !ok {
			continue
		}

		line := make(orb.LineString, len(span))
		for i, p := range span {
			line[i] = orb.Point{p.Longitude(), p.Latitude()}
		}

		f := geojson.NewFeature(line)
		f.Properties["trail"] = name
		f.Properties["order"] = seg.Order
		f.Properties["length_km"] = seg.LengthKm
		f.Properties["elevation_gain_m"] = seg.ElevationGain
		f.Properties["elevation_loss_m"] = seg.ElevationLoss
		f.Properties["avg_slope_pct"] = seg.AvgSlope
		f.Properties["max_slope_pct"] = seg.MaxSlope
		f.Properties["terrain_type"] = string(seg.TerrainType)
		f.Properties["stroke"] = terrainColorHex(seg.TerrainType)
		fc.Append(f)
	}

	if len(points) > 0 {
		latLons := make([]spatial.Point, len(points))
		for i, p := range points {
			latLons[i] = p.LatLon()
		}
		minLat, minLon, maxLat, maxLon := spatial.BoundingBox(latLons)
		fc.BBox = geojson.BBox{minLon, minLat, maxLon, maxLat}
	}

	return fc
}

// segmentPoints slices the points a segment covers, rejecting indexes that do
// not fit the sequence
func segmentPoints(points []analysis.GeoPoint, seg analysis.SegmentSummary) ([]analysis.GeoPoint, bool) {
	if seg.StartIndex < 0 || seg.EndIndex >= len(points) || seg.EndIndex-seg.StartIndex < 1 {
		return nil, false
	}
	return points[seg.StartIndex : seg.EndIndex+1], true
}
