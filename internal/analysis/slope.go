package analysis

import "math"

// MinSlopeDistanceMeters is the horizontal noise floor for slope pairs.
// Consecutive points closer than this are GPS jitter, not terrain.
const MinSlopeDistanceMeters = 5.0

// AverageSlope returns gain over horizontal length as a percentage
func AverageSlope(elevationGain, lengthKm float64) float64 {
	if lengthKm == 0 {
		return 0
	}
	return (elevationGain / (lengthKm * 1000)) * 100
}

// MaxSlope scans consecutive pairs and returns the steepest |rise|/run as a
// percentage, ignoring pairs below the horizontal noise floor.
func MaxSlope(points []GeoPoint) float64 {
	maxSlope := 0.0
	for i := 1; i < len(points); i++ {
		p1, p2 := points[i-1], points[i]

		distance := p2.dist - p1.dist
		if distance < MinSlopeDistanceMeters || distance == 0 {
			continue
		}

		slopePct := math.Abs((p2.ele-p1.ele)/distance) * 100
		maxSlope = math.Max(maxSlope, slopePct)
	}
	return maxSlope
}
