package domain

import "math"

// IsMissing reports whether a metric value is absent.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Missing returns the canonical missing value.
func Missing() float64 {
	return math.NaN()
}

// OrDefault returns v, or def when v is missing.
func OrDefault(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return v
}

// Clip bounds v to [lo, hi]. Missing values pass through unchanged.
func Clip(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Max(lo, math.Min(hi, v))
}

// Mean averages the non-missing values. Returns NaN when every value is
// missing.
func Mean(values ...float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
