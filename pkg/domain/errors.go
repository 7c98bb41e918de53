package domain

import (
	"errors"
	"fmt"
)

// ErrModelNotFound is returned when a model cannot be found in a loader or store.
var ErrModelNotFound = errors.New("model not found")

// ErrModelCorrupt is returned when a stored model can no longer be decoded.
var ErrModelCorrupt = errors.New("model corrupt")

// ErrRowMismatch is returned when a row does not fit a model's signature.
var ErrRowMismatch = errors.New("row does not match signature")

// InvariantError reports a broken evaluation-time invariant: an out-of-range
// parameter or local, an unset local read, or a typed accessor applied to the
// wrong Constant type. It is raised with panic; a well-formed tree never
// triggers it.
type InvariantError struct {
	Op     string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %s", e.Op, e.Reason)
}

// Violation panics with an InvariantError.
func Violation(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Reason: fmt.Sprintf(format, args...)})
}
