package stats

import (
	"math"
	"sort"

	mstats "github.com/aclements/go-moremath/stats"
	"golang.org/x/exp/rand"

	orionerrors "github.com/orionlab/orion/internal/errors"
)

// IntervalEstimate holds Monte Carlo standard errors of the three point
// statistics: the standard deviation of each statistic across bootstrap
// resamples.
type IntervalEstimate struct {
	MeanErr   float64
	MedianErr float64
	StdDevErr float64
}

// BootstrapInterval draws replicates resamples of values with replacement
// from the seeded source, computes the NaN-ignoring mean, median and
// standard deviation of each resample, and returns the spread of each
// statistic across resamples. The same seed and input always produce the
// same output.
func BootstrapInterval(values []float64, replicates int, seed uint64) (IntervalEstimate, error) {
	if len(values) == 0 {
		return IntervalEstimate{}, orionerrors.ErrEmptySample
	}
	if replicates <= 0 {
		return IntervalEstimate{}, orionerrors.NewInvalidInputError("BootstrapInterval", "replicates must be positive")
	}

	rng := rand.New(rand.NewSource(seed))

	means := make([]float64, replicates)
	medians := make([]float64, replicates)
	stddevs := make([]float64, replicates)

	resample := make([]float64, len(values))
	for r := 0; r < replicates; r++ {
		for i := range resample {
			resample[i] = values[rng.Intn(len(values))]
		}
		d := Describe(resample)
		means[r] = d.Mean
		medians[r] = d.Median
		stddevs[r] = d.StdDev
	}

	return IntervalEstimate{
		MeanErr:   spread(means),
		MedianErr: spread(medians),
		StdDevErr: spread(stddevs),
	}, nil
}

// spread is the NaN-ignoring standard deviation of the replicate statistics.
func spread(values []float64) float64 {
	clean := dropNaN(make([]float64, 0, len(values)), values)
	if len(clean) < 2 {
		return math.NaN()
	}
	sort.Float64s(clean)
	return mstats.Sample{Xs: clean, Sorted: true}.StdDev()
}
