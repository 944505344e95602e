// Package service implements the authorization and lifecycle policy engine.
// Services decide allow/deny for each caller and operation, compute the
// resulting state, and determine when history records must be written.
// Persistence is delegated to the injected store interfaces.
package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable machine-readable error code surfaced to API clients.
type Code string

// Known error codes.
const (
	CodeAuthRequired       Code = "AUTH_REQUIRED"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeUserExists         Code = "USER_EXISTS"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeInvalidAssignee    Code = "INVALID_ASSIGNEE"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

// AppError is a typed error carrying an HTTP-status-equivalent severity
// and a machine code. The HTTP surface serializes it uniformly; anything
// that is not an AppError is treated as an internal error.
type AppError struct {
	Status  int
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given status, code and message.
func NewAppError(status int, code Code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// NotFound creates a 404 AppError.
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message)
}

// Forbidden creates a 403 AppError.
func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message)
}

// Conflict creates a 409 AppError with the given code.
func Conflict(code Code, message string) *AppError {
	return NewAppError(http.StatusConflict, code, message)
}

// Validation creates a 422 AppError.
func Validation(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeValidation, message)
}

// InvalidAssignee creates a 400 AppError for assignees outside the task's team.
func InvalidAssignee(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidAssignee, message)
}

// AsAppError extracts an *AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
