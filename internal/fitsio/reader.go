// Package fitsio reads FITS binary and ASCII table extensions into Tables.
//
// The reader loads the first table HDU of a FITS file. Column names come
// from the TTYPE header keys, cell values from the per-field accessors of
// the underlying FITS library, and each column is materialized into an
// Arrow-backed series. Fixed-size array cells (repeat counts above one)
// are skipped: the analysis layer works over scalar columns only.
package fitsio

import (
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/siravan/fits"
	"go.uber.org/zap"

	orionerrors "github.com/orionlab/orion/internal/errors"
	"github.com/orionlab/orion/internal/series"
	"github.com/orionlab/orion/internal/table"
)

// TableReader reads the first table HDU of a FITS stream into a Table.
type TableReader struct {
	reader io.Reader
	mem    memory.Allocator
	log    *zap.Logger
}

// NewTableReader creates a reader over an open FITS stream.
func NewTableReader(r io.Reader, mem memory.Allocator, log *zap.Logger) *TableReader {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TableReader{reader: r, mem: mem, log: log}
}

// Read parses the stream and returns the first table extension found.
func (tr *TableReader) Read() (*table.Table, error) {
	units, err := fits.Open(tr.reader)
	if err != nil {
		return nil, orionerrors.NewInternalError("fitsio.Read", err)
	}

	for i, unit := range units {
		if !unit.HasTable() {
			continue
		}
		tr.log.Debug("loading FITS table extension",
			zap.Int("hdu", i),
			zap.Ints("naxis", unit.Naxis))
		return tr.loadUnit(unit)
	}

	return nil, orionerrors.NewInvalidInputError("fitsio.Read", "no table extension in FITS file")
}

// loadUnit converts one table HDU into a Table.
func (tr *TableReader) loadUnit(unit *fits.Unit) (*table.Table, error) {
	nfields, ok := unit.Keys["TFIELDS"].(int)
	if !ok || nfields <= 0 {
		return nil, orionerrors.NewInvalidInputError("fitsio.Read", "table extension carries no fields")
	}

	rows := 0
	if len(unit.Naxis) >= 2 {
		rows = unit.Naxis[1]
	}

	cols := make([]table.ISeries, 0, nfields)
	for i := 0; i < nfields; i++ {
		name := fits.Nth("COL", i+1)
		if v, ok := unit.Keys[fits.Nth("TTYPE", i+1)].(string); ok {
			name = v
		}

		col, ok := tr.loadField(unit, name, i, rows)
		if !ok {
			tr.log.Warn("skipping FITS column with unsupported cell type",
				zap.String("column", name))
			continue
		}
		cols = append(cols, col)
	}

	if len(cols) == 0 {
		return nil, orionerrors.NewInvalidInputError("fitsio.Read", "no readable columns in table extension")
	}

	tbl := table.New(cols...)
	tr.log.Debug("loaded FITS table",
		zap.Int("rows", tbl.Len()),
		zap.Int("columns", tbl.Width()))
	return tbl, nil
}

// loadField materializes one field into a series, widening small integer
// types to the nearest supported Arrow type.
func (tr *TableReader) loadField(unit *fits.Unit, name string, index, rows int) (table.ISeries, bool) {
	fn := unit.Field(index)

	if rows == 0 {
		return series.New(name, []string{}, tr.mem), true
	}

	switch fn(0).(type) {
	case string:
		values := make([]string, rows)
		for r := 0; r < rows; r++ {
			values[r], _ = fn(r).(string)
		}
		return series.New(name, values, tr.mem), true
	case float64:
		values := make([]float64, rows)
		for r := 0; r < rows; r++ {
			values[r], _ = fn(r).(float64)
		}
		return series.New(name, values, tr.mem), true
	case float32:
		values := make([]float32, rows)
		for r := 0; r < rows; r++ {
			values[r], _ = fn(r).(float32)
		}
		return series.New(name, values, tr.mem), true
	case int64:
		values := make([]int64, rows)
		for r := 0; r < rows; r++ {
			values[r], _ = fn(r).(int64)
		}
		return series.New(name, values, tr.mem), true
	case int32:
		values := make([]int32, rows)
		for r := 0; r < rows; r++ {
			values[r], _ = fn(r).(int32)
		}
		return series.New(name, values, tr.mem), true
	case int16:
		values := make([]int32, rows)
		for r := 0; r < rows; r++ {
			if v, ok := fn(r).(int16); ok {
				values[r] = int32(v)
			}
		}
		return series.New(name, values, tr.mem), true
	case byte:
		values := make([]int32, rows)
		for r := 0; r < rows; r++ {
			if v, ok := fn(r).(byte); ok {
				values[r] = int32(v)
			}
		}
		return series.New(name, values, tr.mem), true
	case bool:
		values := make([]bool, rows)
		for r := 0; r < rows; r++ {
			values[r], _ = fn(r).(bool)
		}
		return series.New(name, values, tr.mem), true
	default:
		return nil, false
	}
}

// ReadFile opens a FITS file and reads its first table extension.
// A missing or unreadable path yields a distinct file-not-found error.
func ReadFile(path string, mem memory.Allocator, log *zap.Logger) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, orionerrors.NewFileNotFoundError("fitsio.ReadFile", path, err)
	}
	defer f.Close()

	return NewTableReader(f, mem, log).Read()
}
