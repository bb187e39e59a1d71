package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound = errors.New("resource not found")

	// ErrDegenerateGroup means a group has no negative-labeled individuals,
	// so its false-positive rate is undefined.
	ErrDegenerateGroup = errors.New("degenerate group: no negative-labeled individuals")

	// ErrInfeasibleBudget means the threshold search cannot reach the target
	// budget given the per-group caps or the dataset size.
	ErrInfeasibleBudget = errors.New("infeasible budget")

	// ErrReferenceGroupNotFound means parity computation was asked for a
	// reference group with zero individuals.
	ErrReferenceGroupNotFound = errors.New("reference group not found")

	// Validation errors
	ErrInvalidConfig = errors.New("invalid selection config")
	ErrEmptyGroup    = errors.New("group has no individuals")
)

// Error constructors with context
func NewDegenerateGroupError(group string) error {
	return fmt.Errorf("%w: group %q", ErrDegenerateGroup, group)
}

func NewInfeasibleBudgetError(target, reachable int) error {
	return fmt.Errorf("%w: target %d, reachable %d", ErrInfeasibleBudget, target, reachable)
}

func NewReferenceGroupNotFoundError(group string) error {
	return fmt.Errorf("%w: %q", ErrReferenceGroupNotFound, group)
}

func NewConfigError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, field, reason)
}

// Error checking helpers
func IsDegenerateGroupError(err error) bool {
	return errors.Is(err, ErrDegenerateGroup)
}

func IsInfeasibleBudgetError(err error) bool {
	return errors.Is(err, ErrInfeasibleBudget)
}

func IsReferenceGroupNotFoundError(err error) bool {
	return errors.Is(err, ErrReferenceGroupNotFound)
}
