// Package stats holds the descriptive estimators used for column summaries.
//
// The conventions are fixed here rather than inherited from a numeric
// library default: deviation, skewness and kurtosis are the bias-adjusted
// sample estimators, and every function returns NaN when the sample is too
// small for the estimator to be defined. Inputs must not contain NaN;
// callers drop missing cells first.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, or NaN for an empty sample.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// StdDev returns the sample standard deviation sqrt(sum((x-mean)^2)/(n-1)).
// NaN when n < 2.
func StdDev(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

// Min returns the smallest value, or NaN for an empty sample.
func Min(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Min(x)
}

// Max returns the largest value, or NaN for an empty sample.
func Max(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Max(x)
}

// Median returns the middle of the sorted sample, averaging the two central
// values when n is even. The input is not modified.
func Median(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	cp := make([]float64, len(x))
	copy(cp, x)
	sort.Float64s(cp)
	return quantile(cp, 0.5)
}

// Skewness returns the adjusted Fisher-Pearson coefficient
//
//	G1 = n/((n-1)(n-2)) * sum(((x-mean)/s)^3)
//
// where s is the sample standard deviation. NaN when n < 3; 0 for a
// constant sample.
func Skewness(x []float64) float64 {
	if len(x) < 3 {
		return math.NaN()
	}
	if constant(x) {
		return 0
	}
	return stat.Skew(x, nil)
}

// ExcessKurtosis returns the bias-adjusted excess kurtosis
//
//	G2 = n(n+1)/((n-1)(n-2)(n-3)) * sum(((x-mean)/s)^4) - 3(n-1)^2/((n-2)(n-3))
//
// NaN when n < 4; 0 for a constant sample.
func ExcessKurtosis(x []float64) float64 {
	if len(x) < 4 {
		return math.NaN()
	}
	if constant(x) {
		return 0
	}
	return stat.ExKurtosis(x, nil)
}

// Ratio divides num by den, yielding NaN for a zero denominator instead of
// an infinity.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

// Distinct counts unique values.
func Distinct(x []float64) int {
	seen := make(map[float64]struct{}, len(x))
	for _, v := range x {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func constant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

// quantile interpolates linearly between the closest ranks of sorted data.
func quantile(sorted []float64, q float64) float64 {
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
