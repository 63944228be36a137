package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when the caller's identity cannot be established
	ErrUnauthenticated = errors.New("unauthorized - invalid or missing token")
	// ErrNotFound is returned when a document does not exist or is not owned by the caller
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed input
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a unique key would be duplicated
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials is returned by login for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// StorageError wraps an unexpected persistence failure
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError for the named operation
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// ValidationError builds an ErrValidation carrying a human readable message
func ValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ErrorResponse is the envelope written for every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// Response is the envelope written for every successful request
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
