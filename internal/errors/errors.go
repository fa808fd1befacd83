// Package errors provides coded errors shared by the sheet service, the
// document stores and the Discord layer. Import it as sheeterr.
package errors

import (
	"errors"
	"fmt"
	"maps"
)

// Code categorizes an error so callers can pick a user-facing response.
type Code string

const (
	// CodeUnknown is used for errors that did not come from this package
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates the caller sent something unusable
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a character record does not exist
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists indicates a record with the same ID exists
	CodeAlreadyExists Code = "already_exists"

	// CodePermissionDenied indicates the caller does not own the record
	CodePermissionDenied Code = "permission_denied"

	// CodeConflict indicates a concurrent write won the race
	CodeConflict Code = "conflict"

	// CodeInternal indicates a store or transport failure
	CodeInternal Code = "internal"

	// CodeValidation indicates a request the sheet cannot honour, such as
	// rolling a slot with no die size
	CodeValidation Code = "validation"
)

// Error is a coded error with optional cause and metadata.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta attaches a key/value pair and returns the same error.
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates an error with the given code.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap adds context to err. A coded cause keeps its code and metadata.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var coded *Error
	if errors.As(err, &coded) {
		return &Error{
			Code:    coded.Code,
			Message: message,
			Cause:   err,
			Meta:    maps.Clone(coded.Meta),
		}
	}

	return &Error{Code: CodeUnknown, Message: message, Cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps err and overrides its code.
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

func NotFound(message string) *Error { return New(CodeNotFound, message) }

func NotFoundf(format string, args ...any) *Error { return Newf(CodeNotFound, format, args...) }

func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

func AlreadyExists(message string) *Error { return New(CodeAlreadyExists, message) }

func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

func PermissionDenied(message string) *Error { return New(CodePermissionDenied, message) }

func PermissionDeniedf(format string, args ...any) *Error {
	return Newf(CodePermissionDenied, format, args...)
}

func Conflictf(format string, args ...any) *Error { return Newf(CodeConflict, format, args...) }

func Internalf(format string, args ...any) *Error { return Newf(CodeInternal, format, args...) }

func Validation(message string) *Error { return New(CodeValidation, message) }

func Validationf(format string, args ...any) *Error { return Newf(CodeValidation, format, args...) }

// Is reports whether any error in err's chain carries code.
func Is(err error, code Code) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

func IsNotFound(err error) bool { return Is(err, CodeNotFound) }

func IsInvalidArgument(err error) bool { return Is(err, CodeInvalidArgument) }

func IsAlreadyExists(err error) bool { return Is(err, CodeAlreadyExists) }

func IsPermissionDenied(err error) bool { return Is(err, CodePermissionDenied) }

func IsConflict(err error) bool { return Is(err, CodeConflict) }

func IsInternal(err error) bool { return Is(err, CodeInternal) }

func IsValidation(err error) bool { return Is(err, CodeValidation) }

// GetCode returns the outermost code in err's chain.
func GetCode(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeUnknown
}

// GetMeta returns the metadata of the outermost coded error.
func GetMeta(err error) map[string]any {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Meta
	}
	return nil
}
