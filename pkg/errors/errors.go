// Package errors provides the coded error type shared by dropkit packages.
//
// Failures from the placement engine, the transition and overlay controllers
// and the configuration layer carry a [Code], so the CLI (exit status) and the
// HTTP API (response status) branch on the category of failure instead of on
// message text.
//
// # Codes
//
//   - INVALID_*: bad geometry, content, policy or config values
//   - MISUSE: a mutating call in a state that forbids it
//   - CONFIG_ERROR: a component constructed without required wiring
//   - NOT_FOUND, FILE_NOT_FOUND: missing resources
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMisuse, "cannot set options while %s", state)
//	if errors.Is(err, errors.ErrCodeMisuse) {
//	    // caller bug
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, cause, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable failure category.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY"
	ErrCodeInvalidContent  Code = "INVALID_CONTENT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPolicy   Code = "INVALID_POLICY"

	// Caller bugs.
	ErrCodeMisuse Code = "MISUSE"
	ErrCodeConfig Code = "CONFIG_ERROR"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c is one of the INVALID_* codes.
func (c Code) Invalid() bool { return strings.HasPrefix(string(c), "INVALID_") }

// Programming reports whether c marks a caller bug rather than bad input.
func (c Code) Programming() bool { return c == ErrCodeMisuse || c == ErrCodeConfig }

// Error carries a Code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message" or "CODE: message: cause".
func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause. The outer code wins in Is and GetCode.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code. Codes of
// wrapped inner errors are not consulted.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the outermost *Error's message without the code
// prefix, or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsProgrammingError reports whether err signals a caller bug (misuse or
// missing wiring) rather than bad input.
func IsProgrammingError(err error) bool {
	return GetCode(err).Programming()
}
