package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity does not exist in the
	// caller's store.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a referential-integrity or uniqueness violation,
	// e.g. deleting an ingredient still used by a recipe component.
	ErrConflict = errors.New("conflict")

	// ErrCyclicRecipe indicates a recipe graph revisited a node during
	// expansion. Recipe graphs are expected to be acyclic by business rule
	// but are not guaranteed to be, so traversals guard against it.
	ErrCyclicRecipe = errors.New("cyclic recipe reference")
)

// ValidationError is a client-facing input error, surfaced as a 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Conflictf wraps ErrConflict with a human-readable reason.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}
