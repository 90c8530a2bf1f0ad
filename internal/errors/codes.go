package errors

import "net/http"

// ErrorCode represents the type of error
type ErrorCode string

const (
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrForbidden          ErrorCode = "FORBIDDEN"
	ErrValidation         ErrorCode = "VALIDATION_ERROR"
	ErrBadRequest         ErrorCode = "BAD_REQUEST"
	ErrInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrRateLimited        ErrorCode = "RATE_LIMITED"
	ErrTimeout            ErrorCode = "TIMEOUT"
	ErrFeatureUnavailable ErrorCode = "FEATURE_UNAVAILABLE"
	ErrSourceUnavailable  ErrorCode = "SOURCE_UNAVAILABLE"
	ErrStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	ErrInvalidCursor      ErrorCode = "INVALID_CURSOR"
)

// StatusCodeMap maps ErrorCode to HTTP status code
var StatusCodeMap = map[ErrorCode]int{
	ErrNotFound:           http.StatusNotFound,
	ErrUnauthorized:       http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrValidation:         http.StatusUnprocessableEntity,
	ErrBadRequest:         http.StatusBadRequest,
	ErrInternalError:      http.StatusInternalServerError,
	ErrRateLimited:        http.StatusTooManyRequests,
	ErrTimeout:            http.StatusGatewayTimeout,
	ErrFeatureUnavailable: http.StatusForbidden,
	ErrSourceUnavailable:  http.StatusServiceUnavailable,
	ErrStorageUnavailable: http.StatusServiceUnavailable,
	ErrInvalidCursor:      http.StatusBadRequest,
}

// StatusCode returns the HTTP status code for this error code
func (e ErrorCode) StatusCode() int {
	if code, ok := StatusCodeMap[e]; ok {
		return code
	}
	return http.StatusInternalServerError
}
