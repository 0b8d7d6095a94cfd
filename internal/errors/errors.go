package errors

import "fmt"

// ErrorCode represents a clipvault error code.
type ErrorCode string

const (
	ErrNotFound             ErrorCode = "NOT_FOUND"             // 404
	ErrInvalidInput         ErrorCode = "INVALID_INPUT"         // 400
	ErrStorageFailure       ErrorCode = "STORAGE_FAILURE"       // 500
	ErrClipboardUnavailable ErrorCode = "CLIPBOARD_UNAVAILABLE" // 503
	ErrInternal             ErrorCode = "INTERNAL"              // 500
)

// ClipError represents a structured error with code, status, and details.
type ClipError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ClipError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNotFound creates a 404 error for a missing item id.
func NewNotFound(id int64) *ClipError {
	return &ClipError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("item not found: %d", id),
		Details: map[string]any{"id": id},
	}
}

// NewInvalidInput creates a 400 error for invalid request parameters.
func NewInvalidInput(msg string) *ClipError {
	return &ClipError{
		Code:    ErrInvalidInput,
		Status:  400,
		Message: msg,
	}
}

// NewStorageFailure creates a 500 error wrapping a database or file-system
// failure.
func NewStorageFailure(err error) *ClipError {
	msg := "storage failure"
	if err != nil {
		msg = err.Error()
	}
	return &ClipError{
		Code:    ErrStorageFailure,
		Status:  500,
		Message: msg,
	}
}

// NewClipboardUnavailable creates a 503 error for a clipboard handle that
// cannot be acquired.
func NewClipboardUnavailable(err error) *ClipError {
	msg := "clipboard unavailable"
	if err != nil {
		msg = fmt.Sprintf("clipboard unavailable: %v", err)
	}
	return &ClipError{
		Code:    ErrClipboardUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ClipError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ClipError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a ClipError with the given code.
func Is(err error, code ErrorCode) bool {
	if cErr, ok := err.(*ClipError); ok {
		return cErr.Code == code
	}
	return false
}
