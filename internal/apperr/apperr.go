// Package apperr defines the application error type shared by the storage,
// search, and HTTP layers. Every error carries a stable machine-readable
// code so the response envelope never exposes raw driver errors.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used in response envelopes.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeVersionMismatch = "VERSION_MISMATCH"
	CodeDatabase        = "DATABASE_ERROR"
	CodeSearch          = "SEARCH_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
	CodeBadRequest      = "BAD_REQUEST"
)

// Error is the application error. CurrentVersion is only meaningful for
// VERSION_MISMATCH errors, where it reports the authoritative stored
// version so the caller can retry with fresh data.
type Error struct {
	Code           string
	Message        string
	CurrentVersion int64
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NotFound reports a missing record.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation reports invalid caller input.
func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports an optimistic concurrency failure. currentVersion is
// the version actually stored at the time the conflict was detected.
func Conflict(message string, currentVersion int64) *Error {
	return &Error{Code: CodeVersionMismatch, Message: message, CurrentVersion: currentVersion}
}

// Database wraps a storage engine failure.
func Database(err error) *Error {
	return &Error{Code: CodeDatabase, Message: fmt.Sprintf("database error: %v", err)}
}

// Search wraps a search index failure.
func Search(err error) *Error {
	return &Error{Code: CodeSearch, Message: fmt.Sprintf("search error: %v", err)}
}

// Unauthorized reports a failed authentication check.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// BadRequest reports a malformed request.
func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message}
}

// Internal reports an unexpected server-side failure.
func Internal(message string) *Error {
	return &Error{Code: CodeInternal, Message: message}
}

// From converts any error into an *Error, passing through application
// errors and wrapping everything else as INTERNAL_ERROR.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err.Error())
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(code string) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeVersionMismatch:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
