package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Details string    `json:"details,omitempty"`
	Status  int       `json:"-"`
	cause   error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying error, if any, for errors.Is/As
func (e *APIError) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error for logging and unwrapping
func (e *APIError) WithCause(err error) *APIError {
	e.cause = err
	return e
}

// WithDetails adds additional details to an error
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}

// AsAPIError extracts an *APIError from an error chain, if present
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

// Unauthorized creates an UNAUTHORIZED error
func Unauthorized(message string) *APIError {
	return &APIError{
		Code:    ErrUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// Forbidden creates a FORBIDDEN error
func Forbidden(message string) *APIError {
	return &APIError{
		Code:    ErrForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// ValidationError creates a VALIDATION_ERROR
func ValidationError(field, message string) *APIError {
	return &APIError{
		Code:    ErrValidation,
		Message: message,
		Field:   field,
		Status:  http.StatusUnprocessableEntity,
	}
}

// BadRequest creates a BAD_REQUEST error
func BadRequest(message string) *APIError {
	return &APIError{
		Code:    ErrBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// InternalError creates an INTERNAL_ERROR
func InternalError(message string) *APIError {
	return &APIError{
		Code:    ErrInternalError,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// FeatureUnavailable creates a FEATURE_UNAVAILABLE error with the fixed
// user-facing message for policy-gated discovery endpoints
func FeatureUnavailable(feature string) *APIError {
	return &APIError{
		Code:    ErrFeatureUnavailable,
		Message: fmt.Sprintf("%s is unavailable on this server", feature),
		Status:  http.StatusForbidden,
	}
}

// SourceUnavailable creates a SOURCE_UNAVAILABLE error (retryable)
func SourceUnavailable(source string) *APIError {
	return &APIError{
		Code:    ErrSourceUnavailable,
		Message: fmt.Sprintf("%s ranking source is temporarily unavailable", source),
		Status:  http.StatusServiceUnavailable,
	}
}

// StorageUnavailable creates a STORAGE_UNAVAILABLE error (retryable)
func StorageUnavailable(operation string) *APIError {
	return &APIError{
		Code:    ErrStorageUnavailable,
		Message: fmt.Sprintf("%s failed, storage is temporarily unavailable", operation),
		Status:  http.StatusServiceUnavailable,
	}
}

// InvalidCursor creates an INVALID_CURSOR error
func InvalidCursor(message string) *APIError {
	return &APIError{
		Code:    ErrInvalidCursor,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// Timeout creates a TIMEOUT error
func Timeout(operation string) *APIError {
	return &APIError{
		Code:    ErrTimeout,
		Message: fmt.Sprintf("%s timed out", operation),
		Status:  http.StatusGatewayTimeout,
	}
}
