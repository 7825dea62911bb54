package analysis

// Metrics are the whole-trail aggregates derived from a point sequence
type Metrics struct {
	LengthKm          float64 `json:"length_km"`
	ElevationGain     float64 `json:"elevation_gain_m"`
	ElevationLoss     float64 `json:"elevation_loss_m"`
	MinElevation      float64 `json:"min_elevation_m"`
	MaxElevation      float64 `json:"max_elevation_m"`
	ElevationVariance float64 `json:"elevation_variance_or_stdev"` // see ElevationSpread
	AvgSlope          float64 `json:"avg_slope_pct"`
	MaxSlope          float64 `json:"max_slope_pct"`
}

// ComputeMetrics derives every whole-trail metric from points.
// A trail with fewer than two points is degenerate and yields all zeros.
func ComputeMetrics(points []GeoPoint) Metrics {
	if len(points) <= 1 {
		return Metrics{}
	}

	lengthKm := points[len(points)-1].dist / 1000.0
	gain, loss := ElevationGainLoss(points)
	minEle, maxEle := ElevationRange(points)

	return Metrics{
		LengthKm:          lengthKm,
		ElevationGain:     gain,
		ElevationLoss:     loss,
		MinElevation:      minEle,
		MaxElevation:      maxEle,
		ElevationVariance: ElevationSpread(points),
		AvgSlope:          AverageSlope(gain, lengthKm),
		MaxSlope:          MaxSlope(points),
	}
}

// Options tune trail construction
type Options struct {
	// SegmentLengthKm is the target segment length; <= 0 means DefaultSegmentLengthKm
	SegmentLengthKm float64
}

// Trail is a fully analysed point sequence. All metrics and segments are
// populated by NewTrail and never change afterwards.
type Trail struct {
	name     string
	points   []GeoPoint
	metrics  Metrics
	segments []Segment
}

// NewTrail builds the point sequence, whole-trail metrics and segments
func NewTrail(name string, coords []Coordinate, opts Options) *Trail {
	points := BuildPoints(coords)
	return &Trail{
		name:     name,
		points:   points,
		metrics:  ComputeMetrics(points),
		segments: SegmentPoints(points, opts.SegmentLengthKm),
	}
}

// Name returns the trail name
func (t *Trail) Name() string { return t.name }

// Metrics returns the whole-trail metrics
func (t *Trail) Metrics() Metrics { return t.metrics }

// Points returns a copy of the point sequence
func (t *Trail) Points() []GeoPoint {
	return append([]GeoPoint(nil), t.points...)
}

// Segments returns the trail segments in order
func (t *Trail) Segments() []Segment {
	return append([]Segment(nil), t.segments...)
}
