package orion

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDataset(t *testing.T) *Dataset {
	t.Helper()
	mem := memory.NewGoAllocator()
	ds, err := NewDataset("id",
		NewSeries("id", []string{"a", "b", "c", "d"}, mem),
		NewSeries("flux", []float64{1, 2, 3, 4}, mem),
		NewSeries("snr", []float64{10, 20, 30, 40}, mem),
	)
	require.NoError(t, err)
	return ds
}

func TestNewDataset(t *testing.T) {
	ds := newTestDataset(t)

	assert.Equal(t, "id", ds.PrimaryKey())
	assert.Equal(t, []string{"a", "b", "c", "d"}, ds.PrimaryKeyValues())
	assert.Equal(t, []string{"id", "flux", "snr"}, ds.Columns())
	assert.Equal(t, 4, ds.Len())
	assert.True(t, ds.HasColumn("flux"))
}

func TestColumnArithmetic(t *testing.T) {
	ds := newTestDataset(t)

	flux, err := ds.Column("flux")
	require.NoError(t, err)

	doubled, err := flux.Mul(Scalar(2))
	require.NoError(t, err)
	assert.Equal(t, "flux * 2", doubled.Name())
	assert.Equal(t, []float64{2, 4, 6, 8}, doubled.Values())

	// The original dataset is untouched.
	assert.False(t, ds.HasColumn("flux * 2"))
	assert.True(t, doubled.Dataset().HasColumn("flux * 2"))
}

func TestColumnOperandArithmetic(t *testing.T) {
	ds := newTestDataset(t)

	flux, err := ds.Column("flux")
	require.NoError(t, err)
	snr, err := ds.Column("snr")
	require.NoError(t, err)

	ratio, err := snr.Div(Col(flux))
	require.NoError(t, err)
	assert.Equal(t, "snr / flux", ratio.Name())
	assert.Equal(t, []float64{10, 10, 10, 10}, ratio.Values())
}

func TestColumnFilter(t *testing.T) {
	ds := newTestDataset(t)

	flux, err := ds.Column("flux")
	require.NoError(t, err)

	bright, err := flux.GreaterThan(Scalar(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, bright.PrimaryKeyValues())
	assert.Equal(t, 2, bright.Len())
}

func TestOpenFITSMissing(t *testing.T) {
	_, err := OpenFITS(filepath.Join(t.TempDir(), "missing.fits"), "ID")
	assert.Error(t, err)
}

func TestResearchRoundTrip(t *testing.T) {
	ds := newTestDataset(t)
	flux, err := ds.Column("flux")
	require.NoError(t, err)

	out := &bytes.Buffer{}
	cfg := NewConfig()
	cfg.BootstrapReplicates = 100

	r := NewResearch(ds,
		NewSample("faint", []string{"a", "b"}),
		WithControls(NewSample("bright", []string{"c", "d"})),
		WithOutput(out),
		WithConfig(cfg),
	)
	r.AddParameter("flux", flux)

	values, err := r.Values(NewSample("bright", nil), "flux")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, values)

	require.NoError(t, r.PrintStatisticsAll("flux"))
	assert.Contains(t, out.String(), "faint statistics for flux")
	assert.Contains(t, out.String(), "bright statistics for flux")

	assert.Equal(t, []string{"flux"}, r.ParameterNames())
}

func TestResearchPlot(t *testing.T) {
	ds := newTestDataset(t)
	flux, err := ds.Column("flux")
	require.NoError(t, err)

	r := NewResearch(ds,
		NewSample("main", []string{"a", "b", "c"}),
		WithControls(NewSample("ctrl", []string{"d"})),
		WithOutput(&bytes.Buffer{}),
	)
	r.AddParameter("flux", flux)

	path := filepath.Join(t.TempDir(), "flux.png")
	assert.NoError(t, r.PlotStackedHistogram("flux", PlotOptions{Filename: path, Bins: 2}))
}
