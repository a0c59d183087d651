package encounter

import "errors"

var (
	// ErrInvalidStateTransition is returned when an operation is attempted
	// from a visit state that forbids it.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrConsentNotDocumented is returned when an operation requires obtained
	// consent before it may proceed.
	ErrConsentNotDocumented = errors.New("consent not documented")

	// ErrNotFound is returned when no encounter exists for the given id.
	ErrNotFound = errors.New("encounter not found")
)
