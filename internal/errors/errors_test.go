package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("attaching item: %w", NewNotFoundError("menu item Burger not found"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "menu item Burger not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "price", Message: "price must be non-negative"},
		{Field: "itemName", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "price", ve.Details[0].Field)
}

func TestAuthError(t *testing.T) {
	var err error = NewAuthError("unauthorized: you are not a manager")

	ae, ok := IsAuthError(err)
	assert.True(t, ok)
	assert.Equal(t, "unauthorized: you are not a manager", ae.Error())

	_, ok = IsNotFoundError(err)
	assert.False(t, ok)
}

func TestStoreError_Creation(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError("failed to query menu", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query menu", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.False(t, err.Transient)
	assert.Contains(t, err.Error(), "failed to query menu")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStoreError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewTransientStoreError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.True(t, err.Transient)

	se, ok := IsStoreError(fmt.Errorf("placing order: %w", err))
	assert.True(t, ok)
	assert.True(t, se.Transient)
}

func TestStoreError_NilCause(t *testing.T) {
	err := NewStoreError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
