package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")
)

// Error is the single error type surfaced by the core. Message is safe to show to
// callers; the storage cause is only reachable through Unwrap.
type Error struct {
	Kind    error
	Field   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

// Cause is the underlying driver error for storage failures. Log it, never return it.
func (e *Error) Cause() error { return e.cause }

func NewValidationError(field, message string) error {
	return &Error{Kind: ErrValidation, Field: field, Message: message}
}

func NewNotFoundError(entity, id string) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

func NewConflictError(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

// NewStorageError hides the driver error behind a generic message naming the operation.
func NewStorageError(op string, cause error) error {
	return &Error{Kind: ErrStorage, Message: "unable to " + op, cause: cause}
}

// AsError extracts the *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
