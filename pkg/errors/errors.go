// Package errors defines error types and utilities for the criteria module
package errors

import (
	"errors"
	"fmt"
)

// Common errors that can occur while building or dispatching criteria
var (
	// ErrModelNotSet is returned when a criteria is consumed without a model
	ErrModelNotSet = errors.New("model not set")

	// ErrNoContainer is returned when a criteria needs its dependency
	// container but none was provided
	ErrNoContainer = errors.New("dependency container not set")

	// ErrServiceNotResolved is returned when the container cannot supply a
	// required collaborator
	ErrServiceNotResolved = errors.New("service not resolved")

	// ErrModelNotRegistered is returned when metadata is requested for an
	// unknown model name
	ErrModelNotRegistered = errors.New("model not registered")

	// ErrInvalidModel is returned when a registered model value is not a
	// struct
	ErrInvalidModel = errors.New("invalid model")

	// ErrMissingBindParameter is returned when a condition references a bind
	// name absent from the bind map
	ErrMissingBindParameter = errors.New("missing bind parameter")

	// ErrInvalidIdentifier is returned when a column, alias or model
	// identifier fails validation before SQL generation
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidTag is returned when a struct tag cannot be parsed
	ErrInvalidTag = errors.New("invalid struct tag")
)

// Error represents a detailed error with operation context
type Error struct {
	Op    string // Operation that failed
	Model string // Model name
	Err   error  // Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("criteria: %s %s: %v", e.Op, e.Model, e.Err)
	}
	return fmt.Sprintf("criteria: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// New creates a new Error
func New(op, model string, err error) *Error {
	return &Error{Op: op, Model: model, Err: err}
}

// IsModelNotSet checks if an error indicates a criteria without a model
func IsModelNotSet(err error) bool {
	return errors.Is(err, ErrModelNotSet)
}

// IsNotRegistered checks if an error indicates an unknown model name
func IsNotRegistered(err error) bool {
	return errors.Is(err, ErrModelNotRegistered)
}
