package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an fpwatch error code.
type ErrorCode string

const (
	ErrMissingField    ErrorCode = "MISSING_REQUIRED_FIELD"   // mandatory record path absent
	ErrMalformedRecord ErrorCode = "MALFORMED_RECORD"         // present value that cannot be parsed
	ErrMalformedInput  ErrorCode = "MALFORMED_DECODER_OUTPUT" // XML decoder failure
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrNotFound        ErrorCode = "NOT_FOUND"
	ErrInternal        ErrorCode = "INTERNAL"
)

// FPError represents a structured error with code, message, and the input
// unit (usually a message file) that produced it.
type FPError struct {
	Code    ErrorCode
	Message string
	Source  string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *FPError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Source)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *FPError) Unwrap() error {
	return e.cause
}

// NewMissingField creates an error for a mandatory record path that is absent.
func NewMissingField(path string) *FPError {
	return &FPError{
		Code:    ErrMissingField,
		Message: fmt.Sprintf("required field missing: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewMalformedRecord creates an error for a field whose value cannot be parsed.
func NewMalformedRecord(path, value string, cause error) *FPError {
	return &FPError{
		Code:    ErrMalformedRecord,
		Message: fmt.Sprintf("malformed value %q at %s", value, path),
		Details: map[string]any{"path": path, "value": value},
		cause:   cause,
	}
}

// NewMalformedInput wraps a decoder failure for the given input unit.
func NewMalformedInput(source string, cause error) *FPError {
	msg := "malformed input"
	if cause != nil {
		msg = cause.Error()
	}
	return &FPError{
		Code:    ErrMalformedInput,
		Message: msg,
		Source:  source,
		cause:   cause,
	}
}

// NewInvalidRequest creates an error for invalid command parameters.
func NewInvalidRequest(msg string) *FPError {
	return &FPError{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewNotFound creates an error for a tracked entity with no stored snapshot.
func NewNotFound(key string) *FPError {
	return &FPError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("no snapshot stored for %s", key),
		Details: map[string]any{"key": key},
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *FPError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &FPError{
		Code:    ErrInternal,
		Message: msg,
		cause:   err,
	}
}

// WithSource attaches the failing input unit to err. An *FPError that already
// names a source is returned unchanged; other errors become ErrInternal.
func WithSource(err error, source string) error {
	if err == nil {
		return nil
	}
	var fpErr *FPError
	if stderrors.As(err, &fpErr) {
		if fpErr.Source != "" {
			return err
		}
		cp := *fpErr
		cp.Source = source
		return &cp
	}
	wrapped := NewInternal(err)
	wrapped.Source = source
	return wrapped
}

// Is checks if an error is an FPError with the given code.
func Is(err error, code ErrorCode) bool {
	var fpErr *FPError
	if stderrors.As(err, &fpErr) {
		return fpErr.Code == code
	}
	return false
}

// As is errors.As from the standard library.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
