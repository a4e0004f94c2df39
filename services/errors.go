package services

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyVerified guards the one-way Unverified -> Verified transition.
	ErrAlreadyVerified = errors.New("deduction is already verified")

	ErrDeductionNotFound = errors.New("deduction not found")
	ErrEstimateNotFound  = errors.New("estimate not found")
	ErrWorkNotFound      = errors.New("work not found")
)

// ValidationError reports input the computation core refuses to coerce.
// Field names the offending input, e.g. "items[2].rate".
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err (or anything it wraps) is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
