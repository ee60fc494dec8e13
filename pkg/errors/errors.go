package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrConfigCycle   ErrorCode = "CONFIG_CYCLE"

	// Pipeline errors
	ErrComposition ErrorCode = "COMPOSITION"

	// Plugin errors
	ErrPluginNotFound     ErrorCode = "PLUGIN_NOT_FOUND"
	ErrPluginIncompatible ErrorCode = "PLUGIN_INCOMPATIBLE"
	ErrPluginInvalid      ErrorCode = "PLUGIN_INVALID"
	ErrPluginLoad         ErrorCode = "PLUGIN_LOAD"
)

// ParcelError represents a structured error with code and details
type ParcelError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ParcelError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ParcelError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ParcelError) Is(target error) bool {
	var targetErr *ParcelError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ParcelError with the given code and message
func New(code ErrorCode, message string) *ParcelError {
	return &ParcelError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ParcelError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ParcelError {
	return &ParcelError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ParcelError
func Wrap(err error, code ErrorCode, message string) *ParcelError {
	if err == nil {
		return nil
	}
	return &ParcelError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ParcelError {
	if err == nil {
		return nil
	}
	return &ParcelError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ParcelError) WithDetail(key string, value interface{}) *ParcelError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ParcelError) WithDetails(details map[string]interface{}) *ParcelError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code.
// Only the outermost ParcelError in the chain is inspected.
func IsErrorCode(err error, code ErrorCode) bool {
	var parcelErr *ParcelError
	if errors.As(err, &parcelErr) {
		return parcelErr.Code == code
	}
	return false
}

// HasErrorCode reports whether any ParcelError in the chain carries code.
func HasErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var parcelErr *ParcelError
		if !errors.As(err, &parcelErr) {
			return false
		}
		if parcelErr.Code == code {
			return true
		}
		err = parcelErr.Wrapped
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ParcelError
func GetErrorCode(err error) ErrorCode {
	var parcelErr *ParcelError
	if errors.As(err, &parcelErr) {
		return parcelErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ParcelError
func GetErrorDetails(err error) map[string]interface{} {
	var parcelErr *ParcelError
	if errors.As(err, &parcelErr) {
		return parcelErr.Details
	}
	return nil
}
