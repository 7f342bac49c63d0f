package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a write loses a race to a uniqueness
	// constraint (double assignment, double fee deduction).
	ErrConflict = errors.New("conflicting concurrent write")
)
