package catalog

import (
	"fmt"
	"math"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow/memory"

	orionerrors "github.com/orionlab/orion/internal/errors"
	"github.com/orionlab/orion/internal/series"
)

// Column is a handle on one numeric column of a Dataset. The column values
// are materialized eagerly at construction.
//
// Arithmetic methods derive a new column into a cloned table and return a
// fresh Dataset/Column pair; comparison methods filter rows and return a
// fresh Dataset. The receiver is never mutated, so handles built earlier
// keep pointing at the dataset they were created from.
type Column struct {
	dataset *Dataset
	name    string
	values  []float64
}

// NewColumn binds a handle to an existing numeric column.
func NewColumn(d *Dataset, name string) (*Column, error) {
	if !d.table.HasColumn(name) {
		return nil, orionerrors.NewColumnNotFoundError("NewColumn", name)
	}
	values, ok := d.table.Float64Column(name)
	if !ok {
		s, _ := d.table.Column(name)
		return nil, orionerrors.NewUnsupportedTypeError("NewColumn", s.DataType().String())
	}

	return &Column{dataset: d, name: name, values: values}, nil
}

// Dataset returns the dataset the handle reads from.
func (c *Column) Dataset() *Dataset {
	return c.dataset
}

// Name returns the bound column name.
func (c *Column) Name() string {
	return c.name
}

// Values returns the materialized column values. The returned slice is a copy.
func (c *Column) Values() []float64 {
	return append([]float64(nil), c.values...)
}

// Len returns the column length.
func (c *Column) Len() int {
	return len(c.values)
}

// String renders the handle with its name and length.
func (c *Column) String() string {
	return fmt.Sprintf("Column(%s, len=%d)", c.name, len(c.values))
}

// operandKind tags the closed set of operand variants.
type operandKind int

const (
	operandColumn operandKind = iota
	operandScalar
)

// Operand is either another Column or a numeric scalar. The two variants
// are the only supported right-hand sides of arithmetic and comparison
// operations.
type Operand struct {
	kind   operandKind
	column *Column
	scalar float64
}

// ColOperand wraps a Column as an operand.
func ColOperand(c *Column) Operand {
	return Operand{kind: operandColumn, column: c}
}

// ScalarOperand wraps a numeric scalar as an operand.
func ScalarOperand(v float64) Operand {
	return Operand{kind: operandScalar, scalar: v}
}

// label renders the operand for synthesized column names: the column name
// for column operands, strconv 'g' formatting for scalars.
func (o Operand) label() string {
	if o.kind == operandColumn {
		return o.column.name
	}
	return strconv.FormatFloat(o.scalar, 'g', -1, 64)
}

// resolve returns the operand values aligned to a receiver of length n.
// A scalar broadcasts; a column must match the receiver length exactly.
func (o Operand) resolve(op string, n int) ([]float64, error) {
	switch o.kind {
	case operandColumn:
		if o.column == nil {
			return nil, orionerrors.NewUnsupportedTypeError(op, "nil column operand")
		}
		if len(o.column.values) != n {
			return nil, orionerrors.NewLengthMismatchError(op, n, len(o.column.values))
		}
		return o.column.values, nil
	case operandScalar:
		out := make([]float64, n)
		for i := range out {
			out[i] = o.scalar
		}
		return out, nil
	default:
		return nil, orionerrors.NewUnsupportedTypeError(op, fmt.Sprintf("operand kind %d", o.kind))
	}
}

// derivedName synthesizes the name of a derived column:
// "<left> <sym> <right>".
func (c *Column) derivedName(sym string, o Operand) string {
	return fmt.Sprintf("%s %s %s", c.name, sym, o.label())
}

// derive computes an element-wise combination and writes it into a cloned
// table, returning a new Dataset/Column pair bound to the derived column.
func (c *Column) derive(op, sym string, o Operand, fn func(a, b float64) float64) (*Column, error) {
	rhs, err := o.resolve(op, len(c.values))
	if err != nil {
		return nil, err
	}

	result := make([]float64, len(c.values))
	for i := range result {
		result[i] = fn(c.values[i], rhs[i])
	}

	name := c.derivedName(sym, o)
	mem := memory.NewGoAllocator()
	derived := c.dataset.withColumn(series.New(name, result, mem))

	return &Column{dataset: derived, name: name, values: result}, nil
}

// Add derives the element-wise sum of the column and the operand.
func (c *Column) Add(o Operand) (*Column, error) {
	return c.derive("Add", "+", o, func(a, b float64) float64 { return a + b })
}

// Sub derives the element-wise difference of the column and the operand.
func (c *Column) Sub(o Operand) (*Column, error) {
	return c.derive("Sub", "-", o, func(a, b float64) float64 { return a - b })
}

// Mul derives the element-wise product of the column and the operand.
func (c *Column) Mul(o Operand) (*Column, error) {
	return c.derive("Mul", "*", o, func(a, b float64) float64 { return a * b })
}

// Pow derives the column raised element-wise to the operand.
func (c *Column) Pow(o Operand) (*Column, error) {
	return c.derive("Pow", "**", o, math.Pow)
}

// Div derives the element-wise quotient of the column and the operand.
// A zero scalar, or a column operand containing any zero, fails before any
// column is written.
func (c *Column) Div(o Operand) (*Column, error) {
	switch o.kind {
	case operandScalar:
		if o.scalar == 0 {
			return nil, orionerrors.NewDivisionByZeroError("Div", c.name)
		}
	case operandColumn:
		if o.column != nil {
			for _, v := range o.column.values {
				if v == 0 {
					return nil, orionerrors.NewDivisionByZeroError("Div", o.column.name)
				}
			}
		}
	}
	return c.derive("Div", "/", o, func(a, b float64) float64 { return a / b })
}

// compare filters the dataset rows with an element-wise predicate and
// returns a new Dataset preserving the primary-key column and name.
func (c *Column) compare(op string, o Operand, pred func(a, b float64) bool) (*Dataset, error) {
	rhs, err := o.resolve(op, len(c.values))
	if err != nil {
		return nil, err
	}

	mask := make([]bool, len(c.values))
	for i := range mask {
		mask[i] = pred(c.values[i], rhs[i])
	}

	return c.dataset.filterRows(op, mask)
}

// LessThan filters rows where the column is below the operand.
func (c *Column) LessThan(o Operand) (*Dataset, error) {
	return c.compare("LessThan", o, func(a, b float64) bool { return a < b })
}

// LessEq filters rows where the column is at or below the operand.
func (c *Column) LessEq(o Operand) (*Dataset, error) {
	return c.compare("LessEq", o, func(a, b float64) bool { return a <= b })
}

// GreaterThan filters rows where the column is above the operand.
func (c *Column) GreaterThan(o Operand) (*Dataset, error) {
	return c.compare("GreaterThan", o, func(a, b float64) bool { return a > b })
}

// GreaterEq filters rows where the column is at or above the operand.
func (c *Column) GreaterEq(o Operand) (*Dataset, error) {
	return c.compare("GreaterEq", o, func(a, b float64) bool { return a >= b })
}

// Equal filters rows where the column equals the operand.
func (c *Column) Equal(o Operand) (*Dataset, error) {
	return c.compare("Equal", o, func(a, b float64) bool { return a == b })
}

// NotEqual filters rows where the column differs from the operand.
func (c *Column) NotEqual(o Operand) (*Dataset, error) {
	return c.compare("NotEqual", o, func(a, b float64) bool { return a != b })
}
