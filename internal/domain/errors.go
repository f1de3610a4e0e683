package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a precondition violated by the caller. No store
	// call has been made.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a violated invariant such as a second open session.
	ErrConflict = errors.New("conflict")

	// ErrTransport marks a failed store call (network, timeout, server error).
	ErrTransport = errors.New("store unavailable")

	// ErrPartialFailure marks a multi-step operation where an earlier step
	// was applied and a later one failed.
	ErrPartialFailure = errors.New("partial failure")

	// ErrNotFound indicates an unknown job, entry, operator or machine.
	ErrNotFound = errors.New("not found")
)

// ValidationError describes a rejected argument.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError reports an invariant violation, detected locally or by a store.
type ConflictError struct {
	Message string
}

func NewConflictError(msg string) *ConflictError {
	return &ConflictError{Message: msg}
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// TransportError wraps a store failure with the operation that issued it.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// PartialFailureError reports that Completed succeeded and Failed did not.
// Callers retry only the failed step.
type PartialFailureError struct {
	Completed string
	Failed    string
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s succeeded but %s failed: %v", e.Completed, e.Failed, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

func (e *PartialFailureError) Is(target error) bool { return target == ErrPartialFailure }

// AsTransport wraps err as a TransportError unless it already carries one of
// the typed domain errors.
func AsTransport(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrTransport) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}
