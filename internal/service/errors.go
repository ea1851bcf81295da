package service

import "errors"

// ErrOfferingExpired is returned when the voyage departure or the slot
// start has already passed. Surfaced distinctly from capacity errors so
// clients can explain why booking is closed.
var ErrOfferingExpired = errors.New("offering expired")

// ValidationError reports malformed booking input. It never follows any
// state mutation: validation runs before the inventory store is touched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

func validationf(reason string) error { return &ValidationError{Reason: reason} }
