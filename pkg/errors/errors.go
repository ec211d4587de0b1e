// Package errors carries boxypic's machine-readable error codes.
//
// Every failure a caller can act on has a [Code]. The CLI prints the
// message, and the HTTP API returns the code and picks the status from it
// (INVALID_* map to 400, TOO_LARGE and RESOURCE_EXHAUSTED to 413).
//
//	err := errors.New(errors.ErrCodeInvalidImage, "image has no pixels: %dx%d", w, h)
//	if errors.Is(err, errors.ErrCodeInvalidImage) {
//	    // reject the upload
//	}
//
// Codes survive wrapping with fmt.Errorf("...: %w", err).
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	// Rejected input.
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidImage  Code = "INVALID_IMAGE"
	ErrCodeInvalidRegion Code = "INVALID_REGION"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidEngine Code = "INVALID_ENGINE"
	ErrCodeInvalidColor  Code = "INVALID_COLOR"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// The build hit the node limit.
	ErrCodeResourceExhausted Code = "RESOURCE_EXHAUSTED"
	// The upload exceeded the server's body limit.
	ErrCodeTooLarge Code = "TOO_LARGE"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code
// and cause, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err carries one of the INVALID_* codes.
// The HTTP API maps these to 4xx responses.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidImage, ErrCodeInvalidRegion,
		ErrCodeInvalidFormat, ErrCodeInvalidEngine, ErrCodeInvalidColor, ErrCodeInvalidPath:
		return true
	}
	return false
}
