// Package repository holds the MySQL data access layer. This file defines
// the error values shared across repositories so that handlers and services
// can distinguish failure scenarios with errors.Is / errors.As instead of
// inspecting strings.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced voyage, activity, time slot,
// reservation or user does not exist. Handlers translate it into 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// reservation they do not own without admin rights. Translates into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when the ledger write after a successful capacity
// consumption could not be completed even after retries. The consumed
// capacity has already been released back when this surfaces.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by the user repository when registering a
// duplicate email address.
var ErrEmailExists = errors.New("email already exists")

// CapacityError reports that a pool cannot satisfy the requested party
// size. It carries the remaining spots so the client can propose a smaller
// party. This is an expected outcome under contention, not a fault.
type CapacityError struct {
	Available uint32 // spots remaining in the pool at rejection time
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("insufficient capacity: %d spots available", e.Available)
}
