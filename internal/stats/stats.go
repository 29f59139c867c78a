// Package stats holds the pure numeric routines behind the statistical and
// trend checks. All functions are stateless and side-effect free.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopulationStdDev returns the population standard deviation of values.
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// ZScore returns the population z-score of value within population, rounded
// to three decimals. ok is false when the population has fewer than two
// elements (dispersion undefined). A constant population yields exactly 0
// rather than dividing by zero.
func ZScore(value float64, population []float64) (z float64, ok bool) {
	if len(population) < 2 {
		return 0, false
	}
	stdev := PopulationStdDev(population)
	if stdev == 0 {
		return 0, true
	}
	z = (value - Mean(population)) / stdev
	return math.Round(z*1000) / 1000, true
}

// IQRBounds returns the (Q1 - 1.5*IQR, Q3 + 1.5*IQR) outlier bounds using
// positional quartiles at indexes n/4 and 3n/4 of the sorted values, without
// interpolation. Bounds are degenerate below four values; callers guard that.
func IQRBounds(values []float64) (lower, upper float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := sorted[n/4]
	q3 := sorted[(3*n)/4]
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// TrendBreaks flags each index i >= window whose value deviates from the mean
// of the preceding window values by more than thresholdSigma times that
// window's population stddev. The stddev is floored at 1.0 so flat runs do
// not produce false positives. Returns the flagged indexes in order; series
// shorter than window+1 yield none.
func TrendBreaks(values []float64, window int, thresholdSigma float64) []int {
	if len(values) < window+1 {
		return nil
	}

	var breaks []int
	for i := window; i < len(values); i++ {
		preceding := values[i-window : i]
		movingMean := Mean(preceding)
		movingStd := PopulationStdDev(preceding)
		if movingStd == 0 {
			movingStd = 1.0
		}
		if math.Abs(values[i]-movingMean) > thresholdSigma*movingStd {
			breaks = append(breaks, i)
		}
	}
	return breaks
}
