package hub

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrKeyNotFound is returned by Storage.Get for keys that were never written.
	ErrKeyNotFound = errors.New("storage key not found")

	// ErrNotFound is returned when an operation names a record id that does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when inserting a record whose id is already present.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrVersionConflict is returned when an edit was based on a stale entry version.
	ErrVersionConflict = errors.New("entry version conflict")
)

// ValidationError reports user input rejected before any mutation took place.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// required trims value and rejects it when blank.
func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "must not be blank")
	}
	return value, nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
