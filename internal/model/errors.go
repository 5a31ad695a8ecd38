package model

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed or insufficient input. It is the only error
// kind that crosses the pipeline boundary besides unexpected internal faults:
// the webhook path reports it as a benign "ignored" outcome, the on-demand
// path as a client error. Upstream unavailability never becomes an error at
// all, it degrades to placeholder data inside the fetch layer.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a new validation error.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
