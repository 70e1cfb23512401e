package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	orionerrors "github.com/orionlab/orion/internal/errors"
)

// Interpolation table for the standardized k-sample Anderson-Darling
// statistic, after Scholz & Stephens (1987), table 2. The critical value at
// each significance level is b0 + b1/sqrt(m) + b2/m with m = k-1.
var (
	adSignificance = []float64{0.25, 0.1, 0.05, 0.025, 0.01, 0.005, 0.001}
	adB0           = []float64{0.675, 1.281, 1.645, 1.960, 2.326, 2.573, 3.085}
	adB1           = []float64{-0.245, 0.250, 0.678, 1.149, 1.822, 2.364, 3.615}
	adB2           = []float64{-0.105, -0.305, -0.362, -0.391, -0.396, -0.345, -0.154}
)

// adPValueFloor and adPValueCap bound the interpolated p-value to the range
// the critical-value table supports.
const (
	adPValueFloor = 0.001
	adPValueCap   = 0.25
)

// AndersonDarling runs the k-sample Anderson-Darling test (midrank version
// for tied observations). The returned p-value is interpolated from the
// Scholz-Stephens critical values and therefore clamped to
// [0.001, 0.25].
func AndersonDarling(samples ...[]float64) (TestResult, error) {
	k := len(samples)
	if k < 2 {
		return TestResult{}, orionerrors.NewInvalidInputError("AndersonDarling", "at least two samples required")
	}

	total := 0
	sizes := make([]float64, k)
	sorted := make([][]float64, k)
	var pooled []float64
	for i, s := range samples {
		if len(s) == 0 {
			return TestResult{}, orionerrors.ErrEmptySample
		}
		sizes[i] = float64(len(s))
		total += len(s)
		cp := append([]float64(nil), s...)
		sort.Float64s(cp)
		sorted[i] = cp
		pooled = append(pooled, cp...)
	}
	sort.Float64s(pooled)

	n := float64(total)
	if total < 5 {
		return TestResult{}, orionerrors.NewInvalidInputError("AndersonDarling", "pooled sample too small")
	}

	distinct := uniqueSorted(pooled)
	if len(distinct) < 2 {
		return TestResult{}, orionerrors.NewInvalidInputError("AndersonDarling", "all pooled values are identical")
	}

	// Midrank statistic A2akN over the distinct pooled values.
	a2akn := 0.0
	for _, z := range distinct {
		left := float64(searchLeft(pooled, z))
		lj := float64(searchRight(pooled, z)) - left
		bj := left + lj/2

		for i := range sorted {
			mij := float64(searchRight(sorted[i], z))
			fij := mij - float64(searchLeft(sorted[i], z))
			mij -= fij / 2

			num := n*mij - bj*sizes[i]
			den := bj*(n-bj) - n*lj/4
			a2akn += lj / n * num * num / den / sizes[i]
		}
	}
	a2akn *= (n - 1) / n

	// Variance of the statistic under the null.
	bigH := 0.0
	for _, ni := range sizes {
		bigH += 1 / ni
	}
	smallH := 0.0
	for i := 1; i <= total-1; i++ {
		smallH += 1 / float64(i)
	}
	g := 0.0
	for i := 1; i <= total-2; i++ {
		for j := i + 1; j <= total-1; j++ {
			g += 1 / (float64(total-i) * float64(j))
		}
	}

	kf := float64(k)
	a := (4*g-6)*(kf-1) + (10-6*g)*bigH
	b := (2*g-4)*kf*kf + 8*smallH*kf + (2*g-14*smallH-4)*bigH - 8*smallH + 4*g - 6
	c := (6*smallH+2*g-2)*kf*kf + (4*smallH-4*g+6)*kf + (2*smallH-6)*bigH + 4*smallH
	d := (2*smallH+6)*kf*kf - 4*smallH*kf
	sigmaSq := (a*n*n*n + b*n*n + c*n + d) / ((n - 1) * (n - 2) * (n - 3))

	m := kf - 1
	a2 := (a2akn - m) / math.Sqrt(sigmaSq)

	p, err := adPValue(a2, m)
	if err != nil {
		return TestResult{}, err
	}

	return TestResult{Statistic: a2, PValue: p}, nil
}

// adPValue interpolates the p-value of the standardized statistic by a
// quadratic fit of log significance against the critical values for m = k-1.
func adPValue(a2, m float64) (float64, error) {
	n := len(adSignificance)
	design := mat.NewDense(n, 3, nil)
	logSig := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		crit := adB0[i] + adB1[i]/math.Sqrt(m) + adB2[i]/m
		design.Set(i, 0, 1)
		design.Set(i, 1, crit)
		design.Set(i, 2, crit*crit)
		logSig.Set(i, 0, math.Log(adSignificance[i]))
	}

	var qr mat.QR
	qr.Factorize(design)
	var coef mat.Dense
	if err := qr.SolveTo(&coef, false, logSig); err != nil {
		return 0, orionerrors.NewInternalError("AndersonDarling", err)
	}

	logP := coef.At(0, 0) + coef.At(1, 0)*a2 + coef.At(2, 0)*a2*a2
	p := math.Exp(logP)

	switch {
	case p < adPValueFloor:
		return adPValueFloor, nil
	case p > adPValueCap:
		return adPValueCap, nil
	default:
		return p, nil
	}
}

func uniqueSorted(sorted []float64) []float64 {
	out := sorted[:0:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// searchLeft returns the first index at which v could be inserted keeping
// sorted order (the count of elements strictly below v).
func searchLeft(sorted []float64, v float64) int {
	return sort.SearchFloat64s(sorted, v)
}

// searchRight returns the count of elements at or below v.
func searchRight(sorted []float64, v float64) int {
	return sort.Search(len(sorted), func(i int) bool { return sorted[i] > v })
}
