package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	orionerrors "github.com/orionlab/orion/internal/errors"
)

// TestResult holds a two-sample test statistic and its p-value.
type TestResult struct {
	Statistic float64
	PValue    float64
}

// KolmogorovSmirnov runs the two-sample Kolmogorov-Smirnov test. The
// statistic is the maximum distance between the empirical CDFs; the p-value
// uses the asymptotic Kolmogorov distribution with the small-sample
// correction of the effective size.
func KolmogorovSmirnov(x, y []float64) (TestResult, error) {
	if len(x) == 0 || len(y) == 0 {
		return TestResult{}, orionerrors.ErrEmptySample
	}

	xs := append([]float64(nil), x...)
	ys := append([]float64(nil), y...)
	sort.Float64s(xs)
	sort.Float64s(ys)

	d := stat.KolmogorovSmirnov(xs, nil, ys, nil)

	ne := float64(len(xs)) * float64(len(ys)) / float64(len(xs)+len(ys))
	sqrtNe := math.Sqrt(ne)
	lambda := (sqrtNe + 0.12 + 0.11/sqrtNe) * d

	return TestResult{Statistic: d, PValue: kolmogorovQ(lambda)}, nil
}

// kolmogorovQ evaluates the Kolmogorov distribution survival function
// Q(lambda) = 2 * sum_{k>=1} (-1)^(k-1) exp(-2 k^2 lambda^2).
func kolmogorovQ(lambda float64) float64 {
	if lambda < 1e-8 {
		return 1
	}

	sum := 0.0
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := sign * math.Exp(-2*float64(k*k)*lambda*lambda)
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}

	q := 2 * sum
	switch {
	case q < 0:
		return 0
	case q > 1:
		return 1
	default:
		return q
	}
}
