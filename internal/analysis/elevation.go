package analysis

import (
	"github.com/jengzang/trails-backend-go/internal/stats"
)

// VarianceStdDevThreshold is the variance above which ElevationSpread reports
// the standard deviation instead. Fixed for numeric compatibility with
// previously stored ratings.
const VarianceStdDevThreshold = 80.0

// ElevationGainLoss sums positive consecutive deltas into gain and the absolute
// value of negative ones into loss. Zero deltas count towards neither.
func ElevationGainLoss(points []GeoPoint) (gain, loss float64) {
	for i := 1; i < len(points); i++ {
		diff := points[i].ele - points[i-1].ele
		if diff > 0 {
			gain += diff
		} else if diff < 0 {
			loss += -diff
		}
	}
	return gain, loss
}

// ElevationRange returns the lowest and highest elevation, 0/0 for no points
func ElevationRange(points []GeoPoint) (min, max float64) {
	return stats.Range(elevations(points))
}

// ElevationVariance is the sample variance of all elevations
func ElevationVariance(points []GeoPoint) float64 {
	if len(points) <= 1 {
		return 0
	}
	return stats.Variance(elevations(points))
}

// ElevationStdDev is the sample standard deviation of all elevations
func ElevationStdDev(points []GeoPoint) float64 {
	if len(points) <= 1 {
		return 0
	}
	return stats.StdDev(elevations(points))
}

// ElevationSpread selects the terrain roughness statistic: the variance, or the
// standard deviation once the variance exceeds VarianceStdDevThreshold.
// The jump at the threshold is intentional.
func ElevationSpread(points []GeoPoint) float64 {
	variance := ElevationVariance(points)
	if variance > VarianceStdDevThreshold {
		return ElevationStdDev(points)
	}
	return variance
}
