// Package errors provides standardized error types for catalog operations.
// This package defines CatalogError for consistent error handling across
// all public APIs, with operation context and error wrapping support.
package errors

import (
	"fmt"
)

// CatalogError represents standardized errors across all catalog operations
type CatalogError struct {
	Op      string // Operation name (e.g., "Add", "Div", "Values")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *CatalogError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is()
func (e *CatalogError) Is(target error) bool {
	if ce, ok := target.(*CatalogError); ok {
		return e.Op == ce.Op && e.Column == ce.Column && e.Message == ce.Message
	}
	return false
}

// Common error constructors for consistent error creation

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(op, column string) *CatalogError {
	return &CatalogError{
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewFileNotFoundError creates an error for unreadable or missing data files
func NewFileNotFoundError(op, path string, cause error) *CatalogError {
	return &CatalogError{
		Op:      op,
		Message: fmt.Sprintf("file not found: %s", path),
		Cause:   cause,
	}
}

// NewDivisionByZeroError creates an error for division by a zero scalar or
// a column containing any zero
func NewDivisionByZeroError(op, column string) *CatalogError {
	return &CatalogError{
		Op:      op,
		Column:  column,
		Message: "division by zero encountered",
	}
}

// NewLengthMismatchError creates an error for element-wise operations over
// columns of different row counts
func NewLengthMismatchError(op string, left, right int) *CatalogError {
	return &CatalogError{
		Op:      op,
		Message: fmt.Sprintf("column lengths differ: %d vs %d", left, right),
	}
}

// NewUnsupportedTypeError creates an error for unsupported operand or data types
func NewUnsupportedTypeError(op, typeName string) *CatalogError {
	return &CatalogError{
		Op:      op,
		Message: fmt.Sprintf("unsupported type: %s", typeName),
	}
}

// NewSampleNotFoundError creates an error for a sample name matching neither
// the main sample nor any control sample
func NewSampleNotFoundError(op, name string) *CatalogError {
	return &CatalogError{
		Op:      op,
		Message: fmt.Sprintf("sample not found: %s", name),
	}
}

// NewParameterNotFoundError creates an error for unknown parameter names
func NewParameterNotFoundError(op, name string) *CatalogError {
	return &CatalogError{
		Op:      op,
		Message: fmt.Sprintf("parameter not found: %s", name),
	}
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *CatalogError {
	return &CatalogError{
		Op:      op,
		Message: message,
	}
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *CatalogError {
	return &CatalogError{
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}

// Predefined error variables for common cases
var (
	// ErrEmptyTable indicates operations on empty tables
	ErrEmptyTable = &CatalogError{
		Op:      "validation",
		Message: "operation not supported on an empty table",
	}

	// ErrEmptySample indicates statistics requested over zero values
	ErrEmptySample = &CatalogError{
		Op:      "validation",
		Message: "no values to compute statistics over",
	}
)
