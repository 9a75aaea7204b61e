package repo

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("marketplace: not found")
	// ErrConflict is returned when a compare-and-swap lost against a concurrent change
	// or a locked precondition no longer holds.
	ErrConflict = errors.New("marketplace: status changed concurrently")
	// ErrDuplicate is returned when an insert violates a uniqueness rule.
	ErrDuplicate = errors.New("marketplace: duplicate record")
	// ErrHasDependents is returned when a record cannot be deleted while others reference it.
	ErrHasDependents = errors.New("marketplace: record has dependents")
	// ErrInsufficientBalance is returned when a withdrawal exceeds the available balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
