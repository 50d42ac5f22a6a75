package errors

import (
	"errors"
	"fmt"
)

// TransformError represents input that fails a transform's precondition
type TransformError struct {
	Transform    string
	Precondition string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s rejected input: %s", e.Transform, e.Precondition)
}

// NewTransformError creates a new TransformError naming the violated precondition
func NewTransformError(transform, precondition string) *TransformError {
	return &TransformError{Transform: transform, Precondition: precondition}
}

// IsTransformError reports whether err is a TransformError (even when wrapped).
func IsTransformError(err error) bool {
	var tfErr *TransformError
	return errors.As(err, &tfErr)
}
