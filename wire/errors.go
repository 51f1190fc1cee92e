package wire

import (
	"fmt"
	"strings"
)

// FieldError represents an encoding error with a field path.
type FieldError struct {
	FieldPath []string // e.g., ["address", "street"]
	Err       error    // underlying error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("error at proto path %s: %v", strings.Join(e.FieldPath, "."), e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Path returns the dotted field path.
func (e *FieldError) Path() string {
	return strings.Join(e.FieldPath, ".")
}

// newFieldError creates a base error without path context
func newFieldError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// wrapWithField wraps an error with a field name, flattening nested FieldErrors
func wrapWithField(err error, fieldName string) error {
	if err == nil {
		return nil
	}

	if fe, ok := err.(*FieldError); ok {
		return &FieldError{
			FieldPath: append([]string{fieldName}, fe.FieldPath...),
			Err:       fe.Err,
		}
	}

	return &FieldError{
		FieldPath: []string{fieldName},
		Err:       err,
	}
}
