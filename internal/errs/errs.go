// Package errs provides the error taxonomy for the trade gate log.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors
var (
	// ErrNotFound signals an operation targeted a missing id or settings row.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals an attempted create with a pre-existing id.
	ErrConflict = errors.New("already exists")
	// ErrMalformedImport signals backup content rejected before any write.
	ErrMalformedImport = errors.New("malformed import payload")
)

// StorageError represents a backend I/O, quota, or corruption failure. It is
// a distinct kind from not-found and validation failures.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [%s]: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err is a storage-layer failure.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ValidationError represents a single field-level validation failure.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ValidationErrors is an ordered collection of field-level failures. All
// violations are collected and returned together, never fail-fast.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a failure for the given field path.
func (e *ValidationErrors) Add(field string, value interface{}, message string) {
	*e = append(*e, NewValidationError(field, value, message))
}

// AsValidation extracts a ValidationErrors from err's chain.
func AsValidation(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
