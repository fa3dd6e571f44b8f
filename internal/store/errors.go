package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a user, post, hashtag or notification does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSelfAction is returned when a user targets themselves where that is not allowed.
	ErrSelfAction = errors.New("action targets yourself")

	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("conflict")
)

// ValidationError represents invalid input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError names the missing entity; errors.Is(err, ErrNotFound) holds.
type NotFoundError struct {
	Entity string
	Key    string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func notFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
