package phototinder

import (
	"errors"
	"fmt"
)

// Error taxonomy. Persistence and filesystem failures are wrapped with
// %w and surfaced as-is; "nothing to do" conditions (no pair available,
// empty undo history) are successful zero results, never errors.
var (
	// ErrNotFound marks an unknown photo or file reference.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks a malformed outcome, direction, or mode value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUninitialized marks a ranking operation invoked before InitRanking.
	ErrUninitialized = errors.New("ranking not initialized")
)

func errInvalid(kind, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidInput, kind, value)
}

func errMissing(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}
