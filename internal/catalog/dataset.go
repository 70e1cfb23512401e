// Package catalog provides the Dataset and Column handles at the core of
// the analysis layer: primary-keyed tabular data, derived-column algebra,
// and comparison-driven row filtering.
package catalog

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	orionerrors "github.com/orionlab/orion/internal/errors"
	"github.com/orionlab/orion/internal/fitsio"
	"github.com/orionlab/orion/internal/table"
)

// Dataset binds a table to a primary-key column. The primary-key values are
// materialized once at construction, trimmed of surrounding whitespace, in
// row order and parallel-indexed to the table's rows.
//
// Datasets are immutable: column derivation and row filtering return new
// Dataset values and never touch the receiver.
type Dataset struct {
	table            *table.Table
	primaryKey       string
	primaryKeyValues []string
}

// FromFITS loads the first table extension of a FITS file. An empty
// primaryKey defaults to the first column of the loaded table.
func FromFITS(path, primaryKey string, mem memory.Allocator, log *zap.Logger) (*Dataset, error) {
	tbl, err := fitsio.ReadFile(path, mem, log)
	if err != nil {
		return nil, err
	}

	if primaryKey == "" {
		cols := tbl.Columns()
		if len(cols) == 0 {
			return nil, orionerrors.ErrEmptyTable
		}
		primaryKey = cols[0]
	}

	return FromTable(tbl, primaryKey)
}

// FromTable builds a Dataset from an in-memory table and an explicit
// primary-key column name.
func FromTable(tbl *table.Table, primaryKey string) (*Dataset, error) {
	keys, ok := tbl.StringColumn(primaryKey)
	if !ok {
		return nil, orionerrors.NewColumnNotFoundError("FromTable", primaryKey)
	}

	return &Dataset{
		table:            tbl,
		primaryKey:       primaryKey,
		primaryKeyValues: keys,
	}, nil
}

// Table returns the underlying table.
func (d *Dataset) Table() *table.Table {
	return d.table
}

// PrimaryKey returns the primary-key column name.
func (d *Dataset) PrimaryKey() string {
	return d.primaryKey
}

// PrimaryKeyValues returns the trimmed primary-key values in row order.
// The returned slice is a copy.
func (d *Dataset) PrimaryKeyValues() []string {
	return append([]string(nil), d.primaryKeyValues...)
}

// Len returns the row count.
func (d *Dataset) Len() int {
	return d.table.Len()
}

// String renders the dataset with its key name and table shape.
func (d *Dataset) String() string {
	return fmt.Sprintf("Dataset(primary key: %s)\n%s", d.primaryKey, d.table.String())
}

// withColumn returns a new Dataset over a cloned table carrying one extra
// (or replaced) column. The primary-key column is untouched, so the key
// values carry over as-is.
func (d *Dataset) withColumn(s table.ISeries) *Dataset {
	return &Dataset{
		table:            d.table.WithColumn(s),
		primaryKey:       d.primaryKey,
		primaryKeyValues: d.primaryKeyValues,
	}
}

// filterRows returns a new Dataset holding only the mask-true rows,
// preserving the primary-key column and name.
func (d *Dataset) filterRows(op string, mask []bool) (*Dataset, error) {
	filtered, err := d.table.FilterRows(mask)
	if err != nil {
		return nil, orionerrors.NewInternalError(op, err)
	}
	return FromTable(filtered, d.primaryKey)
}
