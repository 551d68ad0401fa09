package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Tracking / batching errors
	ErrCodeStaleTracking  ErrorCode = "STALE_TRACKING"
	ErrCodeTrackDuplicate ErrorCode = "TRACK_DUPLICATE"
	ErrCodeScopeReclosed  ErrorCode = "SCOPE_RECLOSED"
	ErrCodeWrongThread    ErrorCode = "WRONG_THREAD"

	// Host shell errors
	ErrCodeShellSubscribe ErrorCode = "SHELL_SUBSCRIBE"
	ErrCodeShellQuery     ErrorCode = "SHELL_QUERY"

	// Watcher errors
	ErrCodeWatchFailed ErrorCode = "WATCH_FAILED"

	// Replay script errors
	ErrCodeScriptNotFound ErrorCode = "SCRIPT_NOT_FOUND"
	ErrCodeScriptInvalid  ErrorCode = "SCRIPT_INVALID"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// HostsyncError represents a structured error with context
type HostsyncError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *HostsyncError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HostsyncError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *HostsyncError) WithDetail(key string, value interface{}) *HostsyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *HostsyncError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new HostsyncError
func New(code ErrorCode, message string) *HostsyncError {
	return &HostsyncError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a HostsyncError
func Wrap(err error, code ErrorCode, message string) *HostsyncError {
	return &HostsyncError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific HostsyncError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	hsErr, ok := err.(*HostsyncError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return hsErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	hsErr, ok := err.(*HostsyncError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return hsErr.Code
}
