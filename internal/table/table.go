// Package table provides an ordered columnar container over Arrow-backed series.
package table

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/orionlab/orion/internal/series"
)

// ISeries is a type-erased view of a typed column.
type ISeries interface {
	Name() string
	Len() int
	DataType() arrow.DataType
	IsNull(index int) bool
	String() string
	Array() arrow.Array
	Release()
}

// Table represents a set of equally long named columns in insertion order.
type Table struct {
	columns map[string]ISeries
	order   []string
}

// New creates a new Table from a slice of ISeries
func New(cols ...ISeries) *Table {
	columns := make(map[string]ISeries)
	order := make([]string, 0, len(cols))

	for _, s := range cols {
		name := s.Name()
		if _, exists := columns[name]; !exists {
			order = append(order, name)
		}
		columns[name] = s
	}

	return &Table{
		columns: columns,
		order:   order,
	}
}

// Columns returns the names of all columns in order
func (t *Table) Columns() []string {
	if len(t.order) == 0 {
		return []string{}
	}
	return append([]string(nil), t.order...)
}

// Len returns the number of rows (all columns have the same length)
func (t *Table) Len() int {
	if len(t.order) == 0 {
		return 0
	}
	if s, exists := t.columns[t.order[0]]; exists {
		return s.Len()
	}
	return 0
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.columns)
}

// Column returns the series for the given column name
func (t *Table) Column(name string) (ISeries, bool) {
	s, exists := t.columns[name]
	return s, exists
}

// HasColumn checks if a column exists
func (t *Table) HasColumn(name string) bool {
	_, exists := t.columns[name]
	return exists
}

// Clone returns a shallow copy of the table. Column arrays are shared;
// only the name-to-column bookkeeping is duplicated, so appending to the
// clone leaves the original untouched.
func (t *Table) Clone() *Table {
	columns := make(map[string]ISeries, len(t.columns))
	for name, s := range t.columns {
		columns[name] = s
	}
	return &Table{
		columns: columns,
		order:   append([]string(nil), t.order...),
	}
}

// WithColumn returns a clone of the table with the given column appended.
// A column of the same name is replaced in place, keeping its position.
func (t *Table) WithColumn(s ISeries) *Table {
	out := t.Clone()
	name := s.Name()
	if _, exists := out.columns[name]; !exists {
		out.order = append(out.order, name)
	}
	out.columns[name] = s
	return out
}

// FilterRows returns a new Table holding only the rows where mask is true.
// The mask length must equal the row count.
func (t *Table) FilterRows(mask []bool) (*Table, error) {
	if len(mask) != t.Len() {
		return nil, fmt.Errorf("mask length %d does not match row count %d", len(mask), t.Len())
	}

	kept := 0
	for _, m := range mask {
		if m {
			kept++
		}
	}

	mem := memory.NewGoAllocator()
	filtered := make([]ISeries, 0, len(t.order))
	for _, name := range t.order {
		s := t.columns[name]
		fs, err := filterSeries(s, mask, kept, mem)
		if err != nil {
			return nil, err
		}
		filtered = append(filtered, fs)
	}

	return New(filtered...), nil
}

// filterSeries materializes the mask-true elements of one column.
func filterSeries(s ISeries, mask []bool, kept int, mem memory.Allocator) (ISeries, error) {
	arr := s.Array()
	if arr == nil {
		return series.New(s.Name(), []string{}, mem), nil
	}
	defer arr.Release()

	switch typed := arr.(type) {
	case *array.String:
		values := make([]string, 0, kept)
		for i, m := range mask {
			if m {
				values = append(values, typed.Value(i))
			}
		}
		return series.New(s.Name(), values, mem), nil
	case *array.Int64:
		values := make([]int64, 0, kept)
		for i, m := range mask {
			if m {
				values = append(values, typed.Value(i))
			}
		}
		return series.New(s.Name(), values, mem), nil
	case *array.Int32:
		values := make([]int32, 0, kept)
		for i, m := range mask {
			if m {
				values = append(values, typed.Value(i))
			}
		}
		return series.New(s.Name(), values, mem), nil
	case *array.Float64:
		values := make([]float64, 0, kept)
		for i, m := range mask {
			if m {
				values = append(values, typed.Value(i))
			}
		}
		return series.New(s.Name(), values, mem), nil
	case *array.Float32:
		values := make([]float32, 0, kept)
		for i, m := range mask {
			if m {
				values = append(values, typed.Value(i))
			}
		}
		return series.New(s.Name(), values, mem), nil
	case *array.Boolean:
		values := make([]bool, 0, kept)
		for i, m := range mask {
			if m {
				values = append(values, typed.Value(i))
			}
		}
		return series.New(s.Name(), values, mem), nil
	default:
		return nil, fmt.Errorf("cannot filter column %q of type %T", s.Name(), arr)
	}
}

// Float64Column reads a column coerced to float64, widening integer and
// float32 columns. The second return reports whether the column exists and
// holds a numeric type.
func (t *Table) Float64Column(name string) ([]float64, bool) {
	s, exists := t.columns[name]
	if !exists {
		return nil, false
	}
	arr := s.Array()
	if arr == nil {
		return nil, false
	}
	defer arr.Release()
	return series.Float64sFromArray(arr)
}

// StringColumn reads a column rendered as trimmed strings.
func (t *Table) StringColumn(name string) ([]string, bool) {
	s, exists := t.columns[name]
	if !exists {
		return nil, false
	}
	arr := s.Array()
	if arr == nil {
		return nil, false
	}
	defer arr.Release()
	return series.StringsFromArray(arr)
}

// String returns a string representation of the Table
func (t *Table) String() string {
	if len(t.columns) == 0 {
		return "Table[empty]"
	}

	parts := []string{fmt.Sprintf("Table[%dx%d]", t.Len(), t.Width())}
	for _, name := range t.order {
		s := t.columns[name]
		parts = append(parts, fmt.Sprintf("  %s: %s", name, s.DataType().String()))
	}

	return strings.Join(parts, "\n")
}

// Release frees all column memory
func (t *Table) Release() {
	for _, s := range t.columns {
		s.Release()
	}
}
