package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint would be violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNoActiveDraft is returned when a cart operation runs without a selected product.
	ErrNoActiveDraft = fmt.Errorf("%w: no active cart draft", ErrNotFound)
	// ErrInvalidTransition indicates the order is not in a state that allows the change.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrOrderProcessInterrupted is returned by finalize when no ready draft exists.
	ErrOrderProcessInterrupted = errors.New("order process interrupted")
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrStorage matches every *StorageError.
	ErrStorage = errors.New("storage failure")
	// ErrUnauthorized is returned when an operation needs a logged in user.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden is returned when a non-administrator calls an administrative operation.
	ErrForbidden = errors.New("administrator access required")
)

// ValidationError names the input fields that were missing or malformed.
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return "missing required field(s): " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps a fault raised by the relational store.
type StorageError struct {
	Op  string
	Err error
}

// WrapStorage passes domain errors through untouched and wraps anything else.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrStorage) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
