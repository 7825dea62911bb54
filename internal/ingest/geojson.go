// Package ingest turns GeoJSON trail files into raw coordinates for the
// analysis engine. Malformed geometry is skipped and counted, never fatal.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jengzang/trails-backend-go/internal/analysis"
)

// ErrUnreadableDocument is returned when the input is not a GeoJSON object at all
var ErrUnreadableDocument = errors.New("unreadable GeoJSON document")

// Stats counts what the parser saw and dropped
type Stats struct {
	Features           int `json:"features"`
	SkippedFeatures    int `json:"skipped_features"`
	SkippedCoordinates int `json:"skipped_coordinates"`
}

// Document is a parsed trail file
type Document struct {
	Name        string
	Coordinates []analysis.Coordinate
	Stats       Stats
}

// object covers FeatureCollection, Feature and geometry members
type object struct {
	Type        string                 `json:"type"`
	Features    []object               `json:"features"`
	Geometry    *object                `json:"geometry"`
	Geometries  []object               `json:"geometries"`
	Properties  map[string]interface{} `json:"properties"`
	Coordinates json.RawMessage        `json:"coordinates"`
}

// Parse reads a FeatureCollection, a single Feature or a bare geometry.
// LineString coordinates are taken in order and MultiLineString lines are
// concatenated in order. Positions with fewer than three numeric members
// (lon, lat, elevation) are dropped.
func Parse(r io.Reader) (*Document, error) {
	var root object
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableDocument, err)
	}
	if root.Type == "" {
		return nil, fmt.Errorf("%w: missing type member", ErrUnreadableDocument)
	}

	doc := &Document{}
	switch root.Type {
	case "FeatureCollection":
		for i := range root.Features {
			doc.addFeature(&root.Features[i])
		}
	case "Feature":
		doc.addFeature(&root)
	default:
		doc.Stats.Features++
		if !doc.addGeometry(&root) {
			doc.Stats.SkippedFeatures++
		}
	}

	return doc, nil
}

// ParseFile parses the file at path. A document without a name property is
// named after the file, without its extension.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trail file: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if doc.Name == "" {
		doc.Name = NameFromPath(path)
	}
	return doc, nil
}

// NameFromPath returns the base name of path without its extension
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (d *Document) addFeature(f *object) {
	d.Stats.Features++

	if d.Name == "" {
		if name, ok := f.Properties["name"].(string); ok {
			d.Name = strings.TrimSpace(name)
		}
	}

	if f.Geometry == nil || !d.addGeometry(f.Geometry) {
		d.Stats.SkippedFeatures++
	}
}

// addGeometry appends the geometry's positions and reports whether it was usable
func (d *Document) addGeometry(g *object) bool {
	switch g.Type {
	case "LineString":
		return d.addLine(g.Coordinates)

	case "MultiLineString":
		var lines []json.RawMessage
		if err := json.Unmarshal(g.Coordinates, &lines); err != nil {
			return false
		}
		for _, line := range lines {
			if !d.addLine(line) {
				d.Stats.SkippedCoordinates++
			}
		}
		return true

	case "GeometryCollection":
		used := false
		for i := range g.Geometries {
			if d.addGeometry(&g.Geometries[i]) {
				used = true
			}
		}
		return used

	default:
		return false
	}
}

// addLine appends the positions of one line. Each position is decoded on its
// own so a malformed entry costs only that entry. It reports false when raw is
// not an array at all.
func (d *Document) addLine(raw json.RawMessage) bool {
	var line []json.RawMessage
	if err := json.Unmarshal(raw, &line); err != nil {
		return false
	}

	for _, entry := range line {
		var position []interface{}
		if err := json.Unmarshal(entry, &position); err != nil {
			d.Stats.SkippedCoordinates++
			continue
		}
		c, ok := toCoordinate(position)
		if !ok {
			d.Stats.SkippedCoordinates++
			continue
		}
		d.Coordinates = append(d.Coordinates, c)
	}
	return true
}

func toCoordinate(position []interface{}) (analysis.Coordinate, bool) {
	if len(position) < 3 {
		return analysis.Coordinate{}, false
	}

	var v [3]float64
	for i := range v {
		f, ok := position[i].(float64)
		if !ok {
			return analysis.Coordinate{}, false
		}
		v[i] = f
	}

	return analysis.Coordinate{Longitude: v[0], Latitude: v[1], Elevation: v[2]}, true
}
