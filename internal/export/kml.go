package export

import (
	"fmt"
	"image/color"
	"io"

	kml "github.com/twpayne/go-kml"

	"github.com/jengzang/trails-backend-go/internal/analysis"
)

var terrainColors = map[analysis.TerrainType]color.RGBA{
	analysis.TerrainSteep:    {R: 0xd7, G: 0x30, B: 0x27, A: 0xff},
	analysis.TerrainModerate: {R: 0xfc, G: 0x8d, B: 0x59, A: 0xff},
	analysis.TerrainFlat:     {R: 0x1a, G: 0x98, B: 0x50, A: 0xff},
}

func terrainColor(t analysis.TerrainType) color.RGBA {
	if c, ok := terrainColors[t]; ok {
		return c
	}
	return terrainColors[analysis.TerrainFlat]
}

func terrainColorHex(t analysis.TerrainType) string {
	c := terrainColor(t)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func styleID(t analysis.TerrainType) string {
	return "terrain-" + string(t)
}

// KML writes a KML document with one placemark per segment, coloured by
// terrain type. Coordinates keep their elevation.
func KML(w io.Writer, name string, points []analysis.GeoPoint, segments []analysis.SegmentSummary) error {
	children := []kml.Element{kml.Name(name)}

	for _, t := range []analysis.TerrainType{analysis.TerrainFlat, analysis.TerrainModerate, analysis.TerrainSteep} {
		children = append(children, kml.SharedStyle(styleID(t),
			kml.LineStyle(
				kml.Color(terrainColor(t)),
				kml.Width(4),
			),
		))
	}

	for _, seg := range segments {
		span, ok := segmentPoints(points, seg)
		if !ok {
			continue
		}

		coords := make([]kml.Coordinate, len(span))
		for i, p := range span {
			coords[i] = kml.Coordinate{Lon: p.Longitude(), Lat: p.Latitude(), Alt: p.Elevation()}
		}

		children = append(children, kml.Placemark(
			kml.Name(fmt.Sprintf("%s #%d", name, seg.Order+1)),
			kml.Description(fmt.Sprintf(
				"%s terrain, %.2f km, +%.0f m / -%.0f m, avg slope %.1f%%, max slope %.1f%%",
				seg.TerrainType, seg.LengthKm, seg.ElevationGain, seg.ElevationLoss, seg.AvgSlope, seg.MaxSlope,
			)),
			kml.StyleURL("#"+styleID(seg.TerrainType)),
			kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(coords...),
			),
		))
	}

	if err := kml.KML(kml.Document(children...)).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	return nil
}
