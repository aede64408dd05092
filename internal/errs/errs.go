// Package errs defines the typed failure outcomes the harness surfaces to
// test cases. Every bounded wait in the harness resolves to one of these
// codes instead of a generic hang or an untyped error.
package errs

import (
	"errors"
)

// Code is a harness outcome code.
type Code string

const (
	// ElementNotFound means every locator strategy for a target was exhausted.
	ElementNotFound Code = "element_not_found"
	// LoginTimeout means authentication did not complete within the bound.
	LoginTimeout Code = "login_timeout"
	// LoginRejected means the application showed an explicit error banner.
	LoginRejected Code = "login_rejected"
	// ConnectionTimeout means the realtime transport never opened.
	ConnectionTimeout Code = "connection_timeout"
	// MessageTimeout means no captured message matched the predicate in time.
	MessageTimeout Code = "message_timeout"
	// UploadTimeout means the upload-complete marker never appeared.
	UploadTimeout Code = "upload_timeout"
	// SelectionTimeout means a client/option selection was never reflected.
	SelectionTimeout Code = "selection_timeout"
	// NavigationTimeout means an expected route was never reached.
	NavigationTimeout Code = "navigation_timeout"
	// InvalidArgument means the caller passed an unusable value.
	InvalidArgument Code = "invalid_argument"
	// Internal is the fallback for unclassified failures.
	Internal Code = "internal"
)

// Error is a coded harness error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the error code, defaulting to internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	var coded *Error
	if errors.As(err, &coded) {
		if coded.Code == "" {
			return Internal
		}
		return coded.Code
	}
	return Internal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// IsTimeout reports whether err is one of the bounded-wait timeout outcomes.
func IsTimeout(err error) bool {
	switch CodeOf(err) {
	case LoginTimeout, ConnectionTimeout, MessageTimeout, UploadTimeout,
		SelectionTimeout, NavigationTimeout:
		return true
	default:
		return false
	}
}
