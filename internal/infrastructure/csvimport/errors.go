package csvimport

import (
	"errors"
	"fmt"
)

// Common import errors. These reject the whole file.
var (
	// ErrEmptyFile is returned when the CSV file is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")

	// ErrEmptyHeaderName is returned when a header cell is blank
	ErrEmptyHeaderName = errors.New("CSV header contains an empty column name")

	// ErrMissingContactColumn is returned when neither an email nor a phone
	// column can be resolved from the header
	ErrMissingContactColumn = errors.New("CSV header must include an email or phone column")
)

// RowError rejects a single data row without aborting the import
type RowError struct {
	Line   int    // 1-based physical line number
	Field  string // offending column, when known
	Reason string
}

// Error implements the error interface
func (e *RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d, column %q: %s", e.Line, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d: %s", e.Line, e.Reason)
}

// NewRowError creates a row-level rejection
func NewRowError(line int, field, reason string) *RowError {
	return &RowError{Line: line, Field: field, Reason: reason}
}
