package errors

import (
	"errors"
	"fmt"
)

// ConnectionError represents an unreachable or broken storage backend
type ConnectionError struct {
	Op     string
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connection failed during %s to %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("connection failed during %s to %s", e.Op, e.Target)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError creates a new ConnectionError for the given operation and target
func NewConnectionError(op, target string, err error) *ConnectionError {
	return &ConnectionError{Op: op, Target: target, Err: err}
}

// IsConnectionError reports whether err is a ConnectionError (even when wrapped).
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}
