// Package research compares named samples of a catalog across derived
// parameters: bootstrap interval estimates, two-sample distribution tests
// and stacked histograms.
package research

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/orionlab/orion/internal/catalog"
	"github.com/orionlab/orion/internal/config"
	orionerrors "github.com/orionlab/orion/internal/errors"
	"github.com/orionlab/orion/internal/plotting"
	"github.com/orionlab/orion/internal/stats"
)

// Research holds a catalog dataset, a main sample, optional control samples
// and the named parameter columns under study.
type Research struct {
	dataset    *catalog.Dataset
	mainSample Sample
	controls   []Sample
	parameters map[string]*catalog.Column
	out        io.Writer
	cfg        config.Config
	log        *zap.Logger
}

// Option configures a Research during construction.
type Option func(*Research)

// WithControls sets the control samples compared against the main sample.
func WithControls(controls ...Sample) Option {
	return func(r *Research) {
		r.controls = append(r.controls[:0], controls...)
	}
}

// WithParameters registers named parameter columns.
func WithParameters(parameters map[string]*catalog.Column) Option {
	return func(r *Research) {
		for name, col := range parameters {
			r.parameters[name] = col
		}
	}
}

// WithOutput redirects printed reports. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Research) {
		r.out = w
	}
}

// WithConfig overrides the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(r *Research) {
		r.cfg = cfg.WithDefaults()
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Research) {
		r.log = log
	}
}

// New creates a Research over the dataset with the given main sample.
func New(dataset *catalog.Dataset, mainSample Sample, opts ...Option) *Research {
	r := &Research{
		dataset:    dataset,
		mainSample: mainSample,
		controls:   make([]Sample, 0),
		parameters: make(map[string]*catalog.Column),
		out:        os.Stdout,
		cfg:        config.NewConfig(),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dataset returns the catalog dataset under study.
func (r *Research) Dataset() *catalog.Dataset {
	return r.dataset
}

// MainSample returns the main sample.
func (r *Research) MainSample() Sample {
	return r.mainSample
}

// Controls returns the control samples.
func (r *Research) Controls() []Sample {
	out := make([]Sample, len(r.controls))
	copy(out, r.controls)
	return out
}

// AddParameter registers a named parameter column after construction.
func (r *Research) AddParameter(name string, col *catalog.Column) {
	r.parameters[name] = col
}

// ParameterNames returns the registered parameter names in sorted order.
func (r *Research) ParameterNames() []string {
	names := make([]string, 0, len(r.parameters))
	for name := range r.parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sampleByName resolves a sample against the main sample and controls,
// matching by name.
func (r *Research) sampleByName(op string, sample Sample) (Sample, error) {
	if sample.Name == r.mainSample.Name {
		return r.mainSample, nil
	}
	for _, control := range r.controls {
		if sample.Name == control.Name {
			return control, nil
		}
	}
	return Sample{}, orionerrors.NewSampleNotFoundError(op, sample.Name)
}

// Values collects the parameter values of the rows belonging to the sample.
// Rows are scanned in dataset order, so the result follows the catalog row
// order rather than the order of the sample ids.
func (r *Research) Values(sample Sample, parameterName string) ([]float64, error) {
	const op = "Values"

	param, ok := r.parameters[parameterName]
	if !ok {
		return nil, orionerrors.NewParameterNotFoundError(op, parameterName)
	}
	resolved, err := r.sampleByName(op, sample)
	if err != nil {
		return nil, err
	}

	column, ok := r.dataset.Table().Float64Column(param.Name())
	if !ok {
		return nil, orionerrors.NewColumnNotFoundError(op, param.Name())
	}

	members := newIDSet(resolved.IDs)
	keys := r.dataset.PrimaryKeyValues()
	values := make([]float64, 0, len(resolved.IDs))
	for i, key := range keys {
		if members.contains(key) {
			values = append(values, column[i])
		}
	}

	r.log.Debug("collected sample values",
		zap.String("sample", resolved.Name),
		zap.String("parameter", parameterName),
		zap.Int("rows", len(values)))
	return values, nil
}

// PrintValues writes the parameter values of a sample to the output.
func (r *Research) PrintValues(sample Sample, parameterName string) error {
	values, err := r.Values(sample, parameterName)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s for %s\n", parameterName, sample.Name)
	fmt.Fprintf(r.out, "%v\n", values)
	return nil
}

// Interval estimates bootstrap standard errors of the mean, median and
// standard deviation of values. A non-positive replicate count falls back
// to the configured default.
func (r *Research) Interval(values []float64, replicates int) (stats.IntervalEstimate, error) {
	if replicates <= 0 {
		replicates = r.cfg.BootstrapReplicates
	}
	return stats.BootstrapInterval(values, replicates, r.cfg.RandomSeed)
}

const (
	wideSeparator   = 80
	narrowSeparator = 50
)

func (r *Research) separator(n int) {
	fmt.Fprintln(r.out, strings.Repeat("-", n))
}

// PrintStatistics writes the descriptive statistics of a sample for one
// parameter, each with its bootstrap standard error.
func (r *Research) PrintStatistics(sample Sample, parameterName string) error {
	values, err := r.Values(sample, parameterName)
	if err != nil {
		return err
	}
	estimate, err := r.Interval(values, r.cfg.BootstrapReplicates)
	if err != nil {
		return err
	}
	desc := stats.Describe(values)

	r.separator(wideSeparator)
	fmt.Fprintf(r.out, "%s statistics for %s\n", sample.Name, parameterName)
	fmt.Fprintf(r.out, "Mean: %g +- %g\n", desc.Mean, estimate.MeanErr)
	fmt.Fprintf(r.out, "Median: %g +- %g\n", desc.Median, estimate.MedianErr)
	fmt.Fprintf(r.out, "Standard Deviation: %g +- %g\n", desc.StdDev, estimate.StdDevErr)
	r.separator(wideSeparator)
	return nil
}

// PrintStatisticsAll writes the statistics of the main sample and every
// control for one parameter.
func (r *Research) PrintStatisticsAll(parameterName string) error {
	if err := r.PrintStatistics(r.mainSample, parameterName); err != nil {
		return err
	}
	for _, control := range r.controls {
		if err := r.PrintStatistics(control, parameterName); err != nil {
			return err
		}
	}
	return nil
}

// PrintCorrelation writes the Kolmogorov-Smirnov and Anderson-Darling test
// results between two samples for one parameter.
func (r *Research) PrintCorrelation(sample1, sample2 Sample, parameterName string) error {
	values1, err := r.Values(sample1, parameterName)
	if err != nil {
		return err
	}
	values2, err := r.Values(sample2, parameterName)
	if err != nil {
		return err
	}

	ks, err := stats.KolmogorovSmirnov(values2, values1)
	if err != nil {
		return err
	}
	r.separator(wideSeparator)
	fmt.Fprintf(r.out, "KS Test between %s and %s\n", sample1.Name, sample2.Name)
	fmt.Fprintf(r.out, "statistic=%g pvalue=%g\n", ks.Statistic, ks.PValue)

	r.separator(narrowSeparator)
	fmt.Fprintf(r.out, "AD Test between %s and %s\n", sample1.Name, sample2.Name)
	ad, err := stats.AndersonDarling(values2, values1)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "statistic=%g pvalue=%g\n", ad.Statistic, ad.PValue)
	r.separator(wideSeparator)
	return nil
}

// PrintCorrelationAll writes the test results between the main sample and
// every control for one parameter.
func (r *Research) PrintCorrelationAll(parameterName string) error {
	for _, control := range r.controls {
		if err := r.PrintCorrelation(r.mainSample, control, parameterName); err != nil {
			return err
		}
	}
	return nil
}

// PlotOptions controls histogram rendering. Zero values fall back to the
// parameter name for labels and to the configured bin count, image format
// and canvas size.
type PlotOptions struct {
	Filename string
	XLabel   string
	YLabel   string
	Bins     int
	Range    *plotting.Range
}

func (r *Research) plotDefaults(parameterName string, opts PlotOptions) (PlotOptions, plotting.Options) {
	if opts.XLabel == "" {
		opts.XLabel = parameterName
	}
	if opts.YLabel == "" {
		opts.YLabel = "Count"
	}
	if opts.Bins <= 0 {
		opts.Bins = r.cfg.HistogramBins
	}
	if opts.Filename == "" {
		opts.Filename = strings.ReplaceAll(parameterName, " ", "_")
	}
	if filepath.Ext(opts.Filename) == "" {
		opts.Filename += "." + r.cfg.ImageFormat
	}
	canvas := plotting.Options{
		XLabel:       opts.XLabel,
		YLabel:       opts.YLabel,
		WidthInches:  r.cfg.PlotWidthInches,
		HeightInches: r.cfg.PlotHeightInches,
	}
	return opts, canvas
}

// PlotSingleHistogram renders a histogram of one sample's parameter values
// and saves it to the options' filename.
func (r *Research) PlotSingleHistogram(sample Sample, parameterName string, opts PlotOptions) error {
	values, err := r.Values(sample, parameterName)
	if err != nil {
		return err
	}
	opts, canvas := r.plotDefaults(parameterName, opts)

	layers := []plotting.Layer{
		{Label: sample.Name, Values: values, Bins: opts.Bins, Range: opts.Range},
	}
	if err := plotting.SaveHistogram(opts.Filename, layers, canvas); err != nil {
		return err
	}
	r.log.Info("saved histogram",
		zap.String("parameter", parameterName),
		zap.String("file", opts.Filename))
	return nil
}

// PlotStackedHistogram renders the main sample as a step outline with each
// control overlaid filled, and saves the plot to the options' filename.
func (r *Research) PlotStackedHistogram(parameterName string, opts PlotOptions) error {
	mainValues, err := r.Values(r.mainSample, parameterName)
	if err != nil {
		return err
	}
	opts, canvas := r.plotDefaults(parameterName, opts)

	layers := []plotting.Layer{
		{Label: r.mainSample.Name, Values: mainValues, Bins: opts.Bins, Step: true, Range: opts.Range},
	}
	for _, control := range r.controls {
		values, err := r.Values(control, parameterName)
		if err != nil {
			return err
		}
		layers = append(layers, plotting.Layer{
			Label:  control.Name,
			Values: values,
			Bins:   opts.Bins,
		})
	}
	if err := plotting.SaveHistogram(opts.Filename, layers, canvas); err != nil {
		return err
	}
	r.log.Info("saved stacked histogram",
		zap.String("parameter", parameterName),
		zap.String("file", opts.Filename))
	return nil
}

// PlotAllStackedHistograms renders a stacked histogram for every registered
// parameter. Each plot is saved under the parameter's default filename, so
// any filename in opts is ignored.
func (r *Research) PlotAllStackedHistograms(opts PlotOptions) error {
	for _, name := range r.ParameterNames() {
		perParam := opts
		perParam.Filename = ""
		perParam.XLabel = ""
		if err := r.PlotStackedHistogram(name, perParam); err != nil {
			return err
		}
	}
	return nil
}

func (r *Research) String() string {
	names := make([]string, len(r.controls))
	for i, control := range r.controls {
		names[i] = control.Name
	}
	return fmt.Sprintf("Research(main=%s, controls=[%s], parameters=%d)",
		r.mainSample.Name, strings.Join(names, ", "), len(r.parameters))
}
