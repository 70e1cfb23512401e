package fitsio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orionerrors "github.com/orionlab/orion/internal/errors"
	"github.com/orionlab/orion/internal/testutil"
)

func TestTableReaderReadsFirstTableHDU(t *testing.T) {
	raw := testutil.BuildFITS(t,
		[]string{"J0001", " J0002", "J0003"},
		[]float64{1.5, 2.5, 3.5},
		[]float32{10, 20, 30},
	)
	tr := NewTableReader(bytes.NewReader(raw), memory.NewGoAllocator(), zap.NewNop())

	tbl, err := tr.Read()
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"ID", "FLUX", "SNR"}, tbl.Columns())

	ids, ok := tbl.StringColumn("ID")
	require.True(t, ok)
	assert.Equal(t, []string{"J0001", "J0002", "J0003"}, ids)

	flux, ok := tbl.Float64Column("FLUX")
	require.True(t, ok)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, flux)

	snr, ok := tbl.Float64Column("SNR")
	require.True(t, ok)
	assert.Equal(t, []float64{10, 20, 30}, snr)
}

func TestTableReaderRejectsStreamWithoutTable(t *testing.T) {
	var primary []byte
	primary = append(primary, testutil.Card("SIMPLE", "T")...)
	primary = append(primary, testutil.Card("BITPIX", "8")...)
	primary = append(primary, testutil.Card("NAXIS", "0")...)
	primary = append(primary, testutil.Card("END", "")...)
	primary = testutil.PadBlock(primary)

	tr := NewTableReader(bytes.NewReader(primary), nil, nil)
	_, err := tr.Read()
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	raw := testutil.BuildFITS(t,
		[]string{"a", "b"},
		[]float64{1, 2},
		[]float32{3, 4},
	)
	path := filepath.Join(t.TempDir(), "catalog.fits")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	tbl, err := ReadFile(path, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 3, tbl.Width())
}

func TestReadFileMissingPath(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.fits"), nil, nil)
	require.Error(t, err)

	var ce *orionerrors.CatalogError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "file not found")
}
