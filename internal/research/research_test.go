package research

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orionlab/orion/internal/catalog"
	"github.com/orionlab/orion/internal/config"
	orionerrors "github.com/orionlab/orion/internal/errors"
	"github.com/orionlab/orion/internal/testutil"
)

func fluxResearch(t *testing.T, opts ...Option) (*Research, *bytes.Buffer) {
	t.Helper()

	tbl := testutil.MakeTable(t,
		[]string{"a", "b", "c", "d", "e", "f"},
		"flux",
		[]float64{1, 2, 3, 4, 5, 6})
	ds, err := catalog.FromTable(tbl, "id")
	require.NoError(t, err)
	col, err := catalog.NewColumn(ds, "flux")
	require.NoError(t, err)

	out := &bytes.Buffer{}
	all := append([]Option{
		WithControls(NewSample("faint", []string{"a", "b", "c"})),
		WithOutput(out),
	}, opts...)
	r := New(ds, NewSample("bright", []string{"d", "e", "f"}), all...)
	r.AddParameter("flux", col)
	return r, out
}

func TestValues(t *testing.T) {
	r, _ := fluxResearch(t)

	values, err := r.Values(r.MainSample(), "flux")
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, values)

	values, err = r.Values(NewSample("faint", nil), "flux")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, values)
}

func TestValuesFollowDatasetOrder(t *testing.T) {
	tbl := testutil.MakeTable(t, []string{"a", "b", "c"}, "x", []float64{1, 2, 3})
	ds, err := catalog.FromTable(tbl, "id")
	require.NoError(t, err)
	col, err := catalog.NewColumn(ds, "x")
	require.NoError(t, err)

	r := New(ds, NewSample("s", []string{"c", "a"}), WithOutput(&bytes.Buffer{}))
	r.AddParameter("x", col)

	values, err := r.Values(r.MainSample(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, values)
}

func TestValuesUnknownParameter(t *testing.T) {
	r, _ := fluxResearch(t)

	_, err := r.Values(r.MainSample(), "snr")
	require.Error(t, err)
	assert.ErrorIs(t, err, orionerrors.NewParameterNotFoundError("Values", "snr"))
}

func TestValuesUnknownSample(t *testing.T) {
	r, _ := fluxResearch(t)

	_, err := r.Values(NewSample("other", []string{"a"}), "flux")
	require.Error(t, err)
	assert.ErrorIs(t, err, orionerrors.NewSampleNotFoundError("Values", "other"))
}

func TestValuesDuplicateRows(t *testing.T) {
	tbl := testutil.MakeTable(t, []string{"a", "a", "b"}, "x", []float64{1, 2, 3})
	ds, err := catalog.FromTable(tbl, "id")
	require.NoError(t, err)
	col, err := catalog.NewColumn(ds, "x")
	require.NoError(t, err)

	r := New(ds, NewSample("s", []string{"a"}), WithOutput(&bytes.Buffer{}))
	r.AddParameter("x", col)

	values, err := r.Values(r.MainSample(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, values)
}

func TestPrintValues(t *testing.T) {
	r, out := fluxResearch(t)

	require.NoError(t, r.PrintValues(r.MainSample(), "flux"))
	assert.Contains(t, out.String(), "flux for bright")
	assert.Contains(t, out.String(), "[4 5 6]")
}

func TestInterval(t *testing.T) {
	r, _ := fluxResearch(t)
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	first, err := r.Interval(values, 200)
	require.NoError(t, err)
	second, err := r.Interval(values, 200)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Greater(t, first.MeanErr, 0.0)
}

func TestIntervalDefaultReplicates(t *testing.T) {
	cfg := config.NewConfig()
	cfg.BootstrapReplicates = 50
	r, _ := fluxResearch(t, WithConfig(cfg))

	est, err := r.Interval([]float64{1, 2, 3, 4}, 0)
	require.NoError(t, err)
	assert.Greater(t, est.MeanErr, 0.0)
}

func TestPrintStatistics(t *testing.T) {
	cfg := config.NewConfig()
	cfg.BootstrapReplicates = 100
	r, out := fluxResearch(t, WithConfig(cfg))

	require.NoError(t, r.PrintStatistics(r.MainSample(), "flux"))

	report := out.String()
	assert.Contains(t, report, "bright statistics for flux")
	assert.Contains(t, report, "Mean: 5 +-")
	assert.Contains(t, report, "Median: 5 +-")
	assert.Contains(t, report, "Standard Deviation:")
	assert.Contains(t, report, strings.Repeat("-", 80))
}

func TestPrintStatisticsAll(t *testing.T) {
	cfg := config.NewConfig()
	cfg.BootstrapReplicates = 100
	r, out := fluxResearch(t, WithConfig(cfg))

	require.NoError(t, r.PrintStatisticsAll("flux"))
	assert.Contains(t, out.String(), "bright statistics for flux")
	assert.Contains(t, out.String(), "faint statistics for flux")
}

func TestPrintCorrelation(t *testing.T) {
	tbl := testutil.MakeTable(t,
		[]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
		"x",
		[]float64{1, 2, 3, 4, 5, 1.5, 2.5, 3.5, 4.5, 5.5})
	ds, err := catalog.FromTable(tbl, "id")
	require.NoError(t, err)
	col, err := catalog.NewColumn(ds, "x")
	require.NoError(t, err)

	out := &bytes.Buffer{}
	r := New(ds,
		NewSample("low", []string{"a", "b", "c", "d", "e"}),
		WithControls(NewSample("high", []string{"f", "g", "h", "i", "j"})),
		WithOutput(out))
	r.AddParameter("x", col)

	control := r.Controls()[0]
	require.NoError(t, r.PrintCorrelation(r.MainSample(), control, "x"))

	report := out.String()
	assert.Contains(t, report, "KS Test between low and high")
	assert.Contains(t, report, "AD Test between low and high")
	assert.Contains(t, report, "statistic=")
	assert.Contains(t, report, "pvalue=")
	assert.Contains(t, report, strings.Repeat("-", 50))
}

func TestPrintCorrelationAll(t *testing.T) {
	tbl := testutil.MakeTable(t,
		[]string{"a", "b", "c", "d", "e", "f", "g", "h"},
		"x",
		[]float64{1, 2, 3, 4, 10, 11, 12, 13})
	ds, err := catalog.FromTable(tbl, "id")
	require.NoError(t, err)
	col, err := catalog.NewColumn(ds, "x")
	require.NoError(t, err)

	out := &bytes.Buffer{}
	r := New(ds,
		NewSample("main", []string{"a", "b", "c", "d"}),
		WithControls(NewSample("ctrl", []string{"e", "f", "g", "h"})),
		WithOutput(out))
	r.AddParameter("x", col)

	require.NoError(t, r.PrintCorrelationAll("x"))
	assert.Contains(t, out.String(), "KS Test between main and ctrl")
}

func TestPlotSingleHistogram(t *testing.T) {
	r, _ := fluxResearch(t)
	path := filepath.Join(t.TempDir(), "flux.png")

	require.NoError(t, r.PlotSingleHistogram(r.MainSample(), "flux", PlotOptions{Filename: path}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotStackedHistogram(t *testing.T) {
	r, _ := fluxResearch(t)
	path := filepath.Join(t.TempDir(), "stacked.png")

	require.NoError(t, r.PlotStackedHistogram("flux", PlotOptions{Filename: path, Bins: 3}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestPlotAllStackedHistograms(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	tbl := testutil.MakeTable(t, []string{"a", "b", "c", "d"}, "peak flux", []float64{1, 2, 3, 4})
	ds, err := catalog.FromTable(tbl, "id")
	require.NoError(t, err)
	col, err := catalog.NewColumn(ds, "peak flux")
	require.NoError(t, err)

	r := New(ds,
		NewSample("main", []string{"a", "b"}),
		WithControls(NewSample("ctrl", []string{"c", "d"})),
		WithOutput(&bytes.Buffer{}))
	r.AddParameter("peak flux", col)

	require.NoError(t, r.PlotAllStackedHistograms(PlotOptions{Bins: 2}))

	_, err = os.Stat(filepath.Join(dir, "peak_flux.png"))
	assert.NoError(t, err)
}

func TestSampleString(t *testing.T) {
	s := NewSample("bright", []string{"a", "b"})
	assert.Equal(t, "Sample bright [a, b]", s.String())
}

func TestSampleCopiesIDs(t *testing.T) {
	ids := []string{"a", "b"}
	s := NewSample("s", ids)
	ids[0] = "z"
	assert.Equal(t, []string{"a", "b"}, s.IDs)
}

func TestIDSet(t *testing.T) {
	set := newIDSet([]string{"a", "b", "a"})
	assert.True(t, set.contains("a"))
	assert.True(t, set.contains("b"))
	assert.False(t, set.contains("c"))
}

func TestResearchString(t *testing.T) {
	r, _ := fluxResearch(t)
	assert.Equal(t, "Research(main=bright, controls=[faint], parameters=1)", r.String())
}
