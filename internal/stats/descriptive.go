// Package stats provides the descriptive and inferential statistics behind
// the reporting layer: NaN-ignoring point statistics, bootstrap standard
// errors, and the two-sample distribution tests.
package stats

import (
	"math"
	"sort"

	mstats "github.com/aclements/go-moremath/stats"
)

// Descriptive holds NaN-ignoring point statistics of a value list.
type Descriptive struct {
	Mean   float64
	Median float64
	StdDev float64
	N      int // count of finite values
}

// dropNaN returns the non-NaN entries of values, reusing dst when it has
// capacity.
func dropNaN(dst, values []float64) []float64 {
	dst = dst[:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			dst = append(dst, v)
		}
	}
	return dst
}

// Describe computes mean, median and standard deviation over the non-NaN
// entries of values. All three are NaN when no finite values remain.
func Describe(values []float64) Descriptive {
	clean := dropNaN(make([]float64, 0, len(values)), values)
	if len(clean) == 0 {
		return Descriptive{Mean: math.NaN(), Median: math.NaN(), StdDev: math.NaN()}
	}

	sort.Float64s(clean)
	s := mstats.Sample{Xs: clean, Sorted: true}

	return Descriptive{
		Mean:   s.Mean(),
		Median: s.Quantile(0.5),
		StdDev: s.StdDev(),
		N:      len(clean),
	}
}
