// Package errors provides structured error types for aas-timeseries.
//
// Every error raised by the figure model carries a machine-readable code so
// that callers can tell the error categories apart:
//   - INVALID_ATTRIBUTE: a layer attribute was assigned an invalid value
//   - INVALID_LIMITS: an axis limit setter received a malformed pair
//   - LAYER_NOT_FOUND: a layer was referenced outside the container holding it
//   - UNITS_MISMATCH: units could not be reconciled during serialization
//
// Validation, structural and limit errors are returned synchronously by the
// operation that detects them. Unit errors are only returned by the
// serializer, since unit inference needs the complete layer population.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLayerNotFound, "Layer '%s' is not in figure", label)
//	if errors.Is(err, errors.ErrCodeLayerNotFound) {
//	    // Handle structural error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "failed to open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidAttribute Code = "INVALID_ATTRIBUTE"
	ErrCodeInvalidLimits    Code = "INVALID_LIMITS"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidUnit      Code = "INVALID_UNIT"

	// Structural errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeLayerNotFound  Code = "LAYER_NOT_FOUND"
	ErrCodeColumnNotFound Code = "COLUMN_NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"

	// Serialization errors
	ErrCodeUnitsMismatch Code = "UNITS_MISMATCH"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Attribute creates an INVALID_ATTRIBUTE error for the named attribute. The
// message reads "<name>: <constraint>" so the attribute is always identified.
func Attribute(name, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidAttribute,
		Message: name + ": " + fmt.Sprintf(format, args...),
	}
}
