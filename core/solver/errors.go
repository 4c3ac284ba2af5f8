package solver

import (
	"errors"
	"fmt"
)

// ErrInfeasible is returned when no assignment satisfies the constraints.
var ErrInfeasible = errors.New("no assignment satisfies the given quotas")

// ErrInputMismatch marks inputs rejected before the search starts.
var ErrInputMismatch = errors.New("input mismatch")

// ErrSearchBudget is returned when the node budget or the context ends the
// search before it completes. It matches ErrInfeasible.
var ErrSearchBudget = fmt.Errorf("%w: search budget exhausted", ErrInfeasible)

// InputMismatchError describes an invalid problem. It matches both
// ErrInputMismatch and ErrInfeasible.
type InputMismatchError struct {
	Reason string
}

func (e *InputMismatchError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInputMismatch, e.Reason)
}

func (e *InputMismatchError) Unwrap() []error {
	return []error{ErrInputMismatch, ErrInfeasible}
}

func mismatch(format string, args ...any) error {
	return &InputMismatchError{Reason: fmt.Sprintf(format, args...)}
}
