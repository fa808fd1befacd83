package core

import "fmt"

// HandlerError is a failed interaction together with the reply the player
// sees. An empty UserMessage keeps the cause out of Discord; the pipeline
// then answers with its generic message.
type HandlerError struct {
	Err         error
	UserMessage string
	Code        int
}

func (e *HandlerError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

// Unwrap exposes the cause so sheet error codes survive the mapping.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Codes follow HTTP status numbers so they read the same in logs and spans.
const (
	ErrorCodeBadRequest = 400
	ErrorCodeForbidden  = 403
	ErrorCodeNotFound   = 404
	ErrorCodeConflict   = 409
	ErrorCodeInternal   = 500
)

func NewHandlerError(err error, userMessage string, code int) *HandlerError {
	return &HandlerError{
		Err:         err,
		UserMessage: userMessage,
		Code:        code,
	}
}

// NewInternalError hides err from the player.
func NewInternalError(err error) *HandlerError {
	return &HandlerError{
		Err:  err,
		Code: ErrorCodeInternal,
	}
}

// NewRouteError reports an interaction no route in domain accepts, such as a
// button left over from a command that has since been removed.
func NewRouteError(domain, pattern string) *HandlerError {
	return &HandlerError{
		Err:         fmt.Errorf("no %s route for %q", domain, pattern),
		UserMessage: "That button is no longer supported.",
		Code:        ErrorCodeNotFound,
	}
}

// NewForbiddenError rejects a change to a sheet the user does not own.
func NewForbiddenError(message string) *HandlerError {
	return &HandlerError{
		Err:         fmt.Errorf("forbidden: %s", message),
		UserMessage: message,
		Code:        ErrorCodeForbidden,
	}
}

// NewValidationError rejects malformed input such as a bad custom ID or an
// empty modal field.
func NewValidationError(message string) *HandlerError {
	return &HandlerError{
		Err:         fmt.Errorf("validation: %s", message),
		UserMessage: message,
		Code:        ErrorCodeBadRequest,
	}
}
