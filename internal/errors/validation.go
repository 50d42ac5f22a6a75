package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a record that fails its model's schema.
// Violations lists every failed check, not just the first one.
type ValidationError struct {
	Model      string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for model %s: %s", e.Model, strings.Join(e.Violations, "; "))
}

// NewValidationError creates a new ValidationError with the given violations
func NewValidationError(model string, violations []string) *ValidationError {
	return &ValidationError{Model: model, Violations: violations}
}

// IsValidationError reports whether err is a ValidationError (even when wrapped).
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// AsValidationError returns the ValidationError inside err, or nil.
func AsValidationError(err error) *ValidationError {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr
	}
	return nil
}
