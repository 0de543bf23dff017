package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by *ValidationError
	ErrValidation = errors.New("validation error")

	// ErrInvalidTransition is matched by *InvalidTransitionError
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentModification is matched by *ConcurrentModificationError
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrInsufficientData is matched by *InsufficientDataError
	ErrInsufficientData = errors.New("insufficient data")
)

// ValidationError reports a missing or out-of-range input field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewMissingFieldError builds a ValidationError for a required field
func NewMissingFieldError(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

// NewInvalidValueError builds a ValidationError for a value outside its enumeration
func NewInvalidValueError(field string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf("has unsupported value %q", fmt.Sprint(value))}
}

// InvalidTransitionError reports a transition the state machine does not allow
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ConcurrentModificationError reports a failed optimistic-concurrency check.
// The caller must refetch the booking and retry.
type ConcurrentModificationError struct {
	BookingID string
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s: booking %s changed since it was read", ErrConcurrentModification, e.BookingID)
}

func (e *ConcurrentModificationError) Is(target error) bool {
	return target == ErrConcurrentModification
}

// InsufficientDataError names a waypoint left out of optimization. Reported, never returned as a failure.
type InsufficientDataError struct {
	BookingID string
	Missing   string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: booking %s has no %s", ErrInsufficientData, e.BookingID, e.Missing)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}
