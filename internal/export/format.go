package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jengzang/trails-backend-go/internal/analysis"
)

// Format names an export encoding
type Format string

// Supported formats
const (
	FormatJSON    Format = "json"
	FormatGeoJSON Format = "geojson"
	FormatKML     Format = "kml"
)

// ParseFormat validates a format name. The empty string means FormatJSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatGeoJSON, FormatKML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatGeoJSON:
		return "application/geo+json"
	case FormatKML:
		return "application/vnd.google-earth.kml+xml"
	default:
		return "application/json"
	}
}

// Write renders a trail in a map format. FormatJSON is not a map format and is
// rejected; callers encode reports themselves.
func Write(w io.Writer, f Format, name string, points []analysis.GeoPoint, segments []analysis.SegmentSummary) error {
	switch f {
	case FormatGeoJSON:
		if err := json.NewEncoder(w).Encode(GeoJSON(name, points, segments)); err != nil {
			return fmt.Errorf("failed to write GeoJSON: %w", err)
		}
		return nil
	case FormatKML:
		return KML(w, name, points, segments)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}
