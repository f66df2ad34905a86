package entity

import (
	"errors"
	"net/http"
)

// Titles carried by UpstreamError. The upstream integration layer produces exactly these two.
const (
	TitleResourceNotFound = "Resource Not Found"
	TitleSystemError      = "System Error"
)

// UpstreamError is the single error type produced when an upstream call fails or
// returns a result the API contract does not accept.
//
// Fields:
//   - Message: human-readable description
//   - Title: short category ("Resource Not Found" or "System Error")
//   - StatusCode: HTTP-style status to surface to the caller
//   - Cause: optional underlying failure, exposed via Unwrap
type UpstreamError struct {
	Message    string
	Title      string
	StatusCode int
	Cause      error
}

// NewUpstreamError creates an UpstreamError without an underlying cause.
func NewUpstreamError(message, title string, statusCode int) *UpstreamError {
	return &UpstreamError{Message: message, Title: title, StatusCode: statusCode}
}

// WrapUpstreamError creates an UpstreamError that wraps cause.
func WrapUpstreamError(message, title string, statusCode int, cause error) *UpstreamError {
	return &UpstreamError{Message: message, Title: title, StatusCode: statusCode, Cause: cause}
}

// NotFound returns a "Resource Not Found" error with status 404. cause may be nil.
func NotFound(message string, cause error) *UpstreamError {
	return WrapUpstreamError(message, TitleResourceNotFound, http.StatusNotFound, cause)
}

// SystemError returns a "System Error" carrying the upstream status code.
func SystemError(message string, statusCode int, cause error) *UpstreamError {
	return WrapUpstreamError(message, TitleSystemError, statusCode, cause)
}

// Error returns the message, falling back to the cause when no message was given.
func (e *UpstreamError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error, implementing the errors.Unwrap interface.
func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is, or wraps, a "Resource Not Found" UpstreamError.
func IsNotFound(err error) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr) && upErr.Title == TitleResourceNotFound
}
