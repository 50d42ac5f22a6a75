package errors

import (
	"errors"
	"fmt"
)

// QueryError represents a malformed or unsatisfiable query against a model
type QueryError struct {
	Model  string
	Reason string
	Err    error
}

func (e *QueryError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("query failed: %s", e.Reason)
	}
	return fmt.Sprintf("query failed for model %s: %s", e.Model, e.Reason)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a new QueryError for the given model and reason
func NewQueryError(model, reason string) *QueryError {
	return &QueryError{Model: model, Reason: reason}
}

// WrapQueryError creates a QueryError that wraps an underlying error
func WrapQueryError(model, reason string, err error) *QueryError {
	return &QueryError{Model: model, Reason: reason, Err: err}
}

// IsQueryError reports whether err is a QueryError (even when wrapped).
func IsQueryError(err error) bool {
	var queryErr *QueryError
	return errors.As(err, &queryErr)
}
