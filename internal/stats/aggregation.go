// Package stats holds the small descriptive statistics used by the trail metrics.
package stats

import (
	"math"
)

// Range returns the smallest and largest value in one pass, 0/0 for no values
func Range(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}

	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// Variance is the sample variance (n-1 denominator), 0 for fewer than two values.
// Deviations are taken from the mean in a second pass so that equal inputs give
// exactly 0 and integer elevations give exact results.
func Variance(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var squares float64
	for _, v := range values {
		d := v - mean
		squares += d * d
	}
	return squares / float64(n-1)
}

// StdDev is the sample standard deviation
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
