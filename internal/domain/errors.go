package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema is returned when a required field is missing or empty.
	ErrSchema = errors.New("schema error")
	// ErrUnparsedTimestamp is returned when a timestamp was not parsed by the loader.
	ErrUnparsedTimestamp = errors.New("unparsed timestamp")
	// ErrDatasetNotFound indicates the requested dataset could not be loaded.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrInvalidTopN indicates a top-N request outside the accepted range.
	ErrInvalidTopN = errors.New("invalid top n")
)

// SchemaError names the table, row and field that failed validation.
// Row is zero-based; -1 means the whole table (e.g. a missing column).
type SchemaError struct {
	Table string
	Row   int
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: %s: %v", e.Table, e.Field, e.Err)
	}
	return fmt.Sprintf("%s row %d: %s: %v", e.Table, e.Row, e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
