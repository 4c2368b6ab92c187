package errors

import (
	"errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

// AuthError covers both failed credential checks and missing privileges.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

func IsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// StoreError wraps a failure of the relational store. Transient errors
// (deadlocks, lock waits, timeouts) may succeed when retried.
type StoreError struct {
	Message   string
	Cause     error
	Transient bool
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

func NewStoreError(message string, cause error) *StoreError {
	return &StoreError{
		Message: message,
		Cause:   cause,
	}
}

func NewTransientStoreError(message string, cause error) *StoreError {
	return &StoreError{
		Message:   message,
		Cause:     cause,
		Transient: true,
	}
}

func IsStoreError(err error) (*StoreError, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
