package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an application error.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeRateLimit    Code = "RATE_LIMIT_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// AppError is an error that knows how it should be reported to an API client.
type AppError struct {
	Code    Code
	Message string
	Fields  map[string][]string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code a handler should answer with.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON payload for the error. Internal errors never expose their message.
func (e *AppError) Body() map[string]any {
	if e.Code == CodeInternal {
		return map[string]any{"error": "internal server error"}
	}
	body := map[string]any{"error": e.Message}
	if len(e.Fields) > 0 {
		body["fields"] = e.Fields
	}
	return body
}

// Validation creates a 400 error.
func Validation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// FieldErrors creates a 400 error carrying per-field messages.
func FieldErrors(fields map[string][]string) *AppError {
	return &AppError{Code: CodeValidation, Message: "invalid input", Fields: fields}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NotFound creates a 404 error for the named resource.
func NotFound(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found"}
}

// RateLimited creates a 429 error.
func RateLimited() *AppError {
	return &AppError{Code: CodeRateLimit, Message: "too many requests"}
}

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Cause: cause}
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
