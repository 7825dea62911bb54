package analysis

import (
	"github.com/jengzang/trails-backend-go/internal/spatial"
)

// SegmentSummary is the serialisable view of one segment
type SegmentSummary struct {
	Order         int           `json:"order"`
	Start         spatial.Point `json:"start"`
	End           spatial.Point `json:"end"`
	StartIndex    int           `json:"start_index"`
	EndIndex      int           `json:"end_index"`
	LengthKm      float64       `json:"length_km"`
	ElevationGain float64       `json:"elevation_gain_m"`
	ElevationLoss float64       `json:"elevation_loss_m"`
	AvgSlope      float64       `json:"avg_slope_pct"`
	MaxSlope      float64       `json:"max_slope_pct"`
	TerrainType   TerrainType   `json:"terrain_type"`
}

// Summarize flattens a segment for reporting and storage
func (s Segment) Summarize() SegmentSummary {
	m := s.metrics
	return SegmentSummary{
		Order:         s.order,
		Start:         s.Start().LatLon(),
		End:           s.End().LatLon(),
		StartIndex:    s.StartIndex(),
		EndIndex:      s.EndIndex(),
		LengthKm:      m.LengthKm,
		ElevationGain: m.ElevationGain,
		ElevationLoss: m.ElevationLoss,
		AvgSlope:      m.AvgSlope,
		MaxSlope:      m.MaxSlope,
		TerrainType:   m.TerrainType,
	}
}

// Report is the complete analysis of one trail
type Report struct {
	Name string `json:"name"`
	Metrics
	Segments   []SegmentSummary `json:"segments"`
	Difficulty Difficulty       `json:"difficulty"`

	points []GeoPoint
}

// Points returns a copy of the analysed point sequence
func (r *Report) Points() []GeoPoint {
	return append([]GeoPoint(nil), r.points...)
}

// Center returns the geographic centre of the trail, or false for an empty trail
func (r *Report) Center() (spatial.Point, bool) {
	if len(r.points) == 0 {
		return spatial.Point{}, false
	}
	return spatial.Center(latLons(r.points)), true
}

// BuildReport assembles the report of an analysed trail
func BuildReport(t *Trail) *Report {
	segments := make([]SegmentSummary, 0, len(t.segments))
	for _, s := range t.segments {
		segments = append(segments, s.Summarize())
	}

	return &Report{
		Name:       t.name,
		Metrics:    t.metrics,
		Segments:   segments,
		Difficulty: Rate(t.metrics),
		points:     t.Points(),
	}
}

// Analyze runs the whole pipeline on raw coordinates
func Analyze(name string, coords []Coordinate, opts Options) *Report {
	return BuildReport(NewTrail(name, coords, opts))
}
