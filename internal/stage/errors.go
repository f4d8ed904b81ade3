package stage

import (
	"errors"
	"fmt"
)

// Kind classifies an executor failure so the sequencer can record a
// meaningful marker without inspecting backend-specific errors.
type Kind string

const (
	KindInitialization Kind = "initialization_error"
	KindNetwork        Kind = "network_error"
	KindProcessing     Kind = "processing_error"
)

// Error is the only error type executors return across the stage boundary.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a failure classification.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errorf is a convenience constructor for classified failures.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the classification from err, defaulting to processing
// when err was not produced by an executor.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindProcessing
}
