package analysis

// DefaultSegmentLengthKm is the target segment length used when none is configured
const DefaultSegmentLengthKm = 0.5

// TerrainType is a coarse label derived from a segment's average slope
type TerrainType string

// TerrainType constants
const (
	TerrainFlat     TerrainType = "flat"
	TerrainModerate TerrainType = "moderate"
	TerrainSteep    TerrainType = "steep"
)

const (
	steepSlopePct    = 15.0
	moderateSlopePct = 8.0
)

// ClassifyTerrain labels an average slope percentage
func ClassifyTerrain(avgSlope float64) TerrainType {
	switch {
	case avgSlope > steepSlopePct:
		return TerrainSteep
	case avgSlope > moderateSlopePct:
		return TerrainModerate
	default:
		return TerrainFlat
	}
}

// SegmentMetrics are recomputed from a segment's own points only
type SegmentMetrics struct {
	LengthKm      float64
	ElevationGain float64
	ElevationLoss float64
	AvgSlope      float64
	MaxSlope      float64
	TerrainType   TerrainType
}

// Segment is a contiguous run of at least two points of a trail.
// Consecutive segments share their boundary point.
type Segment struct {
	order      int
	startIndex int
	points     []GeoPoint
	metrics    SegmentMetrics
}

func newSegment(order, startIndex int, points []GeoPoint) Segment {
	first, last := points[0], points[len(points)-1]

	// Length is relative to the segment's own first point
	lengthKm := (last.dist - first.dist) / 1000.0
	gain, loss := ElevationGainLoss(points)
	avgSlope := AverageSlope(gain, lengthKm)

	return Segment{
		order:      order,
		startIndex: startIndex,
		points:     points,
		metrics: SegmentMetrics{
			LengthKm:      lengthKm,
			ElevationGain: gain,
			ElevationLoss: loss,
			AvgSlope:      avgSlope,
			MaxSlope:      MaxSlope(points),
			TerrainType:   ClassifyTerrain(avgSlope),
		},
	}
}

// Order is the zero-based position of the segment in its trail
func (s Segment) Order() int { return s.order }

// StartIndex is the index of the first point in the parent sequence
func (s Segment) StartIndex() int { return s.startIndex }

// EndIndex is the index of the last point in the parent sequence
func (s Segment) EndIndex() int { return s.startIndex + len(s.points) - 1 }

// Start returns the first point
func (s Segment) Start() GeoPoint { return s.points[0] }

// End returns the last point
func (s Segment) End() GeoPoint { return s.points[len(s.points)-1] }

// Points returns a copy of the segment's points
func (s Segment) Points() []GeoPoint {
	return append([]GeoPoint(nil), s.points...)
}

// Metrics returns the segment-local metrics
func (s Segment) Metrics() SegmentMetrics { return s.metrics }

// SegmentPoints partitions points into segments of roughly targetKm.
// A segment closes once its span reaches targetKm or at the last point; the
// closing point also opens the next segment. Buffers shorter than two points
// are dropped. Fewer than two points yields no segments.
func SegmentPoints(points []GeoPoint, targetKm float64) []Segment {
	if len(points) < 2 {
		return nil
	}
	if targetKm <= 0 {
		targetKm = DefaultSegmentLengthKm
	}

	var segments []Segment
	start := 0
	segmentStartDistance := points[0].dist

	for i, point := range points {
		currentLength := (point.dist - segmentStartDistance) / 1000.0
		isLast := i == len(points)-1

		if currentLength >= targetKm || isLast {
			if i-start+1 >= 2 {
				// Full slice expression keeps the parent's backing array read-only
				segments = append(segments, newSegment(len(segments), start, points[start:i+1:i+1]))
			}
			segmentStartDistance = point.dist
			start = i
		}
	}

	return segments
}
