package entity

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// StoreError is a persistence failure (disk, connection, driver)
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// RetrievalError is a failed call to the document index
type RetrievalError struct {
	Method SearchMethod
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval (%s): %v", e.Method, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// GenerationError aborts a query. Retrieval failures inside a query are wrapped in it too.
type GenerationError struct {
	Scenario Scenario
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Scenario != "" {
		return fmt.Sprintf("generation (%s): %v", e.Scenario, e.Err)
	}
	return fmt.Sprintf("generation: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
