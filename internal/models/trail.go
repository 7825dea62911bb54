package models

import (
	"time"

	"github.com/jengzang/trails-backend-go/internal/analysis"
)

// Trail is a stored, analysed trail
type Trail struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	LocationLat float64 `json:"location_lat" db:"location_lat"` // Geographic centre of the points
	LocationLon float64 `json:"location_lon" db:"location_lon"`
	Geohash     string  `json:"geohash,omitempty" db:"geohash"` // Of the centre, empty for a trail without points

	// Whole-trail metrics
	LengthKm          float64 `json:"length_km" db:"length_km"`
	ElevationGain     float64 `json:"elevation_gain_m" db:"elevation_gain"`
	ElevationLoss     float64 `json:"elevation_loss_m" db:"elevation_loss"`
	MinElevation      float64 `json:"min_elevation_m" db:"min_elevation"`
	MaxElevation      float64 `json:"max_elevation_m" db:"max_elevation"`
	ElevationVariance float64 `json:"elevation_variance_or_stdev" db:"elevation_variance"`
	AvgSlope          float64 `json:"avg_slope_pct" db:"avg_slope"`
	MaxSlope          float64 `json:"max_slope_pct" db:"max_slope"`

	PointCount int       `json:"point_count" db:"point_count"`
	SourcePath string    `json:"source_path,omitempty" db:"source_path"` // File base name for batch imports
	Polyline   string    `json:"polyline,omitempty" db:"polyline"`       // Google encoded (lat, lon) path
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Metrics returns the stored metrics in engine form
func (t *Trail) Metrics() analysis.Metrics {
	return analysis.Metrics{
		LengthKm:          t.LengthKm,
		ElevationGain:     t.ElevationGain,
		ElevationLoss:     t.ElevationLoss,
		MinElevation:      t.MinElevation,
		MaxElevation:      t.MaxElevation,
		ElevationVariance: t.ElevationVariance,
		AvgSlope:          t.AvgSlope,
		MaxSlope:          t.MaxSlope,
	}
}

// TrailSegment is a stored segment
type TrailSegment struct {
	ID      int64 `json:"id" db:"id"`
	TrailID int64 `json:"trail_id" db:"trail_id"`
	analysis.SegmentSummary
}

// TrailDetail is a trail with its segments and rating
type TrailDetail struct {
	Trail
	Segments   []TrailSegment       `json:"segments"`
	Difficulty *analysis.Difficulty `json:"difficulty"`
}

// SegmentSummaries strips storage identifiers from the segments
func (d *TrailDetail) SegmentSummaries() []analysis.SegmentSummary {
	summaries := make([]analysis.SegmentSummary, len(d.Segments))
	for i, s := range d.Segments {
		summaries[i] = s.SegmentSummary
	}
	return summaries
}

// TrailSummary is one row of the trail list
type TrailSummary struct {
	Name                string  `json:"name"`
	LocationLat         float64 `json:"location_lat"`
	LocationLon         float64 `json:"location_lon"`
	Geohash             string  `json:"geohash,omitempty"`
	LengthKm            float64 `json:"length_km"`
	Difficulty          string  `json:"difficulty"` // Overall rating as text, "Unknown" when unrated
	DifficultyRating    *int    `json:"difficulty_rating"`
	CardioIntensity     *int    `json:"cardio_intensity"`
	TechnicalDifficulty *int    `json:"technical_difficulty"`
}

// TrailsResponse represents a paginated response of trails
type TrailsResponse struct {
	Data       []TrailSummary `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// TrailFilter represents filter parameters for querying trails
type TrailFilter struct {
	Name          string `form:"name"`          // Substring match
	MinDifficulty int    `form:"minDifficulty"` // 1-10, 0 = no bound
	MaxDifficulty int    `form:"maxDifficulty"` // 1-10, 0 = no bound
	Near          string `form:"near"`          // Geohash prefix of the trail centre
	Page          int    `form:"page"`
	PageSize      int    `form:"pageSize"`
}

// TrailPath is the drawable path of a stored trail
type TrailPath struct {
	Name          string               `json:"name"`
	Coordinates   [][3]float64         `json:"coordinates"` // [lon, lat, elevation]
	Polyline      string               `json:"polyline"`
	LengthKm      float64              `json:"length"`
	MaxElevation  float64              `json:"max_elevation"`
	MinElevation  float64              `json:"min_elevation"`
	ElevationGain float64              `json:"elevation_gain"`
	ElevationLoss float64              `json:"elevation_loss"`
	Difficulty    *analysis.Difficulty `json:"difficulty"`
}
