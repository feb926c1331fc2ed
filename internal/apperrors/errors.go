// Package apperrors holds the error classes shared by the booking core.
// Domain packages wrap these so handlers can map a whole class with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrSlotConflict        = errors.New("slot conflict")
	ErrForbiddenTransition = errors.New("forbidden transition")
	ErrInvalidState        = errors.New("invalid state")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Required is the usual "missing field" validation failure.
func Required(field string) *ValidationError {
	return NewValidationError(field, "required")
}

// Wrap tags a domain sentinel with one of the shared classes.
func Wrap(class error, msg string) error {
	return &classError{class: class, msg: msg}
}

type classError struct {
	class error
	msg   string
}

func (e *classError) Error() string { return e.msg }

func (e *classError) Unwrap() error { return e.class }
