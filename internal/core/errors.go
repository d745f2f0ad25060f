// ABOUTME: Error values shared by the proposal, portfolio, and tracking services
// ABOUTME: ValidationError names the offending field and matches ErrValidation via errors.Is
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks caller mistakes (bad or missing input)
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrEmbeddingUnavailable means the query text could not be embedded, or its vector was unusable, so nothing can be ranked
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
)

// ValidationError describes a single invalid field
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Msg
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}
