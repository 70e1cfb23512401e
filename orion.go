// Package orion provides an analysis layer over FITS source catalogs:
// datasets keyed by a primary key column, arithmetic and filtering over
// columns, and sample comparison via bootstrap statistics, two-sample
// tests and histograms.
// This package is the sole public API for the library.
package orion

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/orionlab/orion/internal/catalog"
	"github.com/orionlab/orion/internal/config"
	"github.com/orionlab/orion/internal/plotting"
	"github.com/orionlab/orion/internal/research"
	"github.com/orionlab/orion/internal/series"
	"github.com/orionlab/orion/internal/stats"
	"github.com/orionlab/orion/internal/table"
)

// ISeries provides a type-erased interface for Series of any type.
type ISeries interface {
	Name() string
	Len() int
	DataType() arrow.DataType
	IsNull(index int) bool
	String() string
	Array() arrow.Array
	Release()
}

// Dataset is the public type for a primary-keyed catalog table.
// It wraps the internal catalog.Dataset to hide implementation details.
type Dataset struct {
	ds *catalog.Dataset
}

// Column is the public handle for a numeric column of a Dataset.
type Column struct {
	col *catalog.Column
}

// Operand is the right-hand side of a column operation, either another
// column or a scalar.
type Operand = catalog.Operand

// Sample names a subset of a dataset by primary key values.
type Sample = research.Sample

// Config carries the tunable analysis settings.
type Config = config.Config

// IntervalEstimate holds bootstrap standard errors of the mean, median and
// standard deviation.
type IntervalEstimate = stats.IntervalEstimate

// TestResult is the statistic and p-value of a two-sample test.
type TestResult = stats.TestResult

// PlotOptions controls histogram rendering.
type PlotOptions = research.PlotOptions

// PlotRange bounds the values binned into a histogram.
type PlotRange = plotting.Range

// NewSeries creates a new typed Series from values.
func NewSeries[T any](name string, values []T, mem memory.Allocator) ISeries {
	return series.New(name, values, mem)
}

// OpenFITS reads the first table HDU of a FITS file into a Dataset keyed
// by the named column. An empty primaryKey selects the first column.
func OpenFITS(path, primaryKey string) (*Dataset, error) {
	return OpenFITSWith(path, primaryKey, memory.NewGoAllocator(), zap.NewNop())
}

// OpenFITSWith is OpenFITS with an explicit allocator and logger.
func OpenFITSWith(path, primaryKey string, mem memory.Allocator, log *zap.Logger) (*Dataset, error) {
	ds, err := catalog.FromFITS(path, primaryKey, mem, log)
	if err != nil {
		return nil, err
	}
	return &Dataset{ds: ds}, nil
}

// NewDataset builds a Dataset from columns, keyed by the named column.
func NewDataset(primaryKey string, cols ...ISeries) (*Dataset, error) {
	internal := make([]table.ISeries, len(cols))
	for i, col := range cols {
		internal[i] = col
	}
	ds, err := catalog.FromTable(table.New(internal...), primaryKey)
	if err != nil {
		return nil, err
	}
	return &Dataset{ds: ds}, nil
}

// Dataset methods

// PrimaryKey returns the name of the primary key column.
func (d *Dataset) PrimaryKey() string {
	return d.ds.PrimaryKey()
}

// PrimaryKeyValues returns the trimmed primary key values in row order.
func (d *Dataset) PrimaryKeyValues() []string {
	return d.ds.PrimaryKeyValues()
}

// Columns returns the column names in order.
func (d *Dataset) Columns() []string {
	return d.ds.Table().Columns()
}

// HasColumn reports whether the dataset contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	return d.ds.Table().HasColumn(name)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return d.ds.Len()
}

// Column returns a numeric handle for the named column.
func (d *Dataset) Column(name string) (*Column, error) {
	col, err := catalog.NewColumn(d.ds, name)
	if err != nil {
		return nil, err
	}
	return &Column{col: col}, nil
}

func (d *Dataset) String() string {
	return d.ds.String()
}

// Release frees the dataset's column arrays.
func (d *Dataset) Release() {
	d.ds.Table().Release()
}

// Column methods

// Name returns the column name.
func (c *Column) Name() string {
	return c.col.Name()
}

// Values returns a copy of the column values.
func (c *Column) Values() []float64 {
	return c.col.Values()
}

// Len returns the number of values.
func (c *Column) Len() int {
	return c.col.Len()
}

// Dataset returns the dataset this column reads from.
func (c *Column) Dataset() *Dataset {
	return &Dataset{ds: c.col.Dataset()}
}

func (c *Column) String() string {
	return c.col.String()
}

// Col wraps a column as an operand.
func Col(c *Column) Operand {
	return catalog.ColOperand(c.col)
}

// Scalar wraps a constant as an operand.
func Scalar(v float64) Operand {
	return catalog.ScalarOperand(v)
}

func wrapColumn(col *catalog.Column, err error) (*Column, error) {
	if err != nil {
		return nil, err
	}
	return &Column{col: col}, nil
}

func wrapDataset(ds *catalog.Dataset, err error) (*Dataset, error) {
	if err != nil {
		return nil, err
	}
	return &Dataset{ds: ds}, nil
}

// Add derives a new column of element-wise sums on a new dataset.
func (c *Column) Add(o Operand) (*Column, error) {
	return wrapColumn(c.col.Add(o))
}

// Sub derives a new column of element-wise differences on a new dataset.
func (c *Column) Sub(o Operand) (*Column, error) {
	return wrapColumn(c.col.Sub(o))
}

// Mul derives a new column of element-wise products on a new dataset.
func (c *Column) Mul(o Operand) (*Column, error) {
	return wrapColumn(c.col.Mul(o))
}

// Div derives a new column of element-wise quotients on a new dataset.
// Any zero in the divisor fails without deriving.
func (c *Column) Div(o Operand) (*Column, error) {
	return wrapColumn(c.col.Div(o))
}

// Pow derives a new column of element-wise powers on a new dataset.
func (c *Column) Pow(o Operand) (*Column, error) {
	return wrapColumn(c.col.Pow(o))
}

// LessThan returns a new dataset with the rows where the column is less
// than the operand.
func (c *Column) LessThan(o Operand) (*Dataset, error) {
	return wrapDataset(c.col.LessThan(o))
}

// LessEq returns a new dataset with the rows where the column is at most
// the operand.
func (c *Column) LessEq(o Operand) (*Dataset, error) {
	return wrapDataset(c.col.LessEq(o))
}

// GreaterThan returns a new dataset with the rows where the column exceeds
// the operand.
func (c *Column) GreaterThan(o Operand) (*Dataset, error) {
	return wrapDataset(c.col.GreaterThan(o))
}

// GreaterEq returns a new dataset with the rows where the column is at
// least the operand.
func (c *Column) GreaterEq(o Operand) (*Dataset, error) {
	return wrapDataset(c.col.GreaterEq(o))
}

// Equal returns a new dataset with the rows where the column equals the
// operand.
func (c *Column) Equal(o Operand) (*Dataset, error) {
	return wrapDataset(c.col.Equal(o))
}

// NotEqual returns a new dataset with the rows where the column differs
// from the operand.
func (c *Column) NotEqual(o Operand) (*Dataset, error) {
	return wrapDataset(c.col.NotEqual(o))
}

// Research is the public type for sample comparison over a dataset.
type Research struct {
	r *research.Research
}

// ResearchOption configures a Research during construction.
type ResearchOption = research.Option

// WithControls sets the control samples.
func WithControls(controls ...Sample) ResearchOption {
	return research.WithControls(controls...)
}

// WithOutput redirects printed reports.
var WithOutput = research.WithOutput

// WithConfig overrides the default configuration.
var WithConfig = research.WithConfig

// WithLogger sets the logger.
var WithLogger = research.WithLogger

// NewSample builds a sample from a name and primary key values.
func NewSample(name string, ids []string) Sample {
	return research.NewSample(name, ids)
}

// NewResearch creates a Research over the dataset with the given main
// sample.
func NewResearch(d *Dataset, mainSample Sample, opts ...ResearchOption) *Research {
	return &Research{r: research.New(d.ds, mainSample, opts...)}
}

// AddParameter registers a named parameter column.
func (r *Research) AddParameter(name string, col *Column) {
	r.r.AddParameter(name, col.col)
}

// ParameterNames returns the registered parameter names in sorted order.
func (r *Research) ParameterNames() []string {
	return r.r.ParameterNames()
}

// Values collects the parameter values of a sample in dataset row order.
func (r *Research) Values(sample Sample, parameterName string) ([]float64, error) {
	return r.r.Values(sample, parameterName)
}

// PrintValues writes the parameter values of a sample.
func (r *Research) PrintValues(sample Sample, parameterName string) error {
	return r.r.PrintValues(sample, parameterName)
}

// Interval estimates bootstrap standard errors of the mean, median and
// standard deviation of values.
func (r *Research) Interval(values []float64, replicates int) (IntervalEstimate, error) {
	return r.r.Interval(values, replicates)
}

// PrintStatistics writes the descriptive statistics of a sample for one
// parameter.
func (r *Research) PrintStatistics(sample Sample, parameterName string) error {
	return r.r.PrintStatistics(sample, parameterName)
}

// PrintStatisticsAll writes the statistics of every sample for one
// parameter.
func (r *Research) PrintStatisticsAll(parameterName string) error {
	return r.r.PrintStatisticsAll(parameterName)
}

// PrintCorrelation writes the two-sample test results between two samples.
func (r *Research) PrintCorrelation(sample1, sample2 Sample, parameterName string) error {
	return r.r.PrintCorrelation(sample1, sample2, parameterName)
}

// PrintCorrelationAll writes the test results between the main sample and
// every control.
func (r *Research) PrintCorrelationAll(parameterName string) error {
	return r.r.PrintCorrelationAll(parameterName)
}

// PlotSingleHistogram saves a histogram of one sample's parameter values.
func (r *Research) PlotSingleHistogram(sample Sample, parameterName string, opts PlotOptions) error {
	return r.r.PlotSingleHistogram(sample, parameterName, opts)
}

// PlotStackedHistogram saves the main sample as a step outline with each
// control overlaid.
func (r *Research) PlotStackedHistogram(parameterName string, opts PlotOptions) error {
	return r.r.PlotStackedHistogram(parameterName, opts)
}

// PlotAllStackedHistograms saves a stacked histogram per parameter.
func (r *Research) PlotAllStackedHistograms(opts PlotOptions) error {
	return r.r.PlotAllStackedHistograms(opts)
}

func (r *Research) String() string {
	return r.r.String()
}

// NewConfig creates a configuration with default values.
func NewConfig() Config {
	return config.NewConfig()
}

// LoadConfig reads a configuration from a YAML file.
func LoadConfig(filename string) (Config, error) {
	return config.LoadFromFile(filename)
}
