package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSelection is returned by commands that need a selected record
	// when none is selected.
	ErrNoSelection = errors.New("no record selected")

	// ErrRowNotFound is returned when a display row cannot be resolved.
	ErrRowNotFound = errors.New("row not found")
)

// ValidationError reports a form field that failed validation before any
// store call was made.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StorageError wraps any failure of the record store: I/O, constraint
// violations or malformed statements.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorage reports whether err carries a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
