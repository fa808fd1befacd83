package middleware

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/KirkDiggler/pgte-bot/internal/discord/core"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
)

// ErrorConfig configures error handling behavior
type ErrorConfig struct {
	// LogErrors controls whether errors are logged
	LogErrors bool

	// DefaultUserMessage is shown when no user-friendly message exists
	DefaultUserMessage string

	// ErrorFormatter allows custom error formatting
	ErrorFormatter ErrorFormatter

	// ErrorLogger allows custom logging
	ErrorLogger ErrorLogger
}

// ErrorFormatter formats errors for user display
type ErrorFormatter func(err error) string

// ErrorLogger logs errors
type ErrorLogger func(ctx *core.InteractionContext, err error)

// DefaultErrorConfig returns sensible defaults
func DefaultErrorConfig() *ErrorConfig {
	return &ErrorConfig{
		LogErrors:          true,
		DefaultUserMessage: "An error occurred while processing your request.",
		ErrorFormatter:     defaultErrorFormatter,
		ErrorLogger:        defaultErrorLogger,
	}
}

// ErrorMiddleware turns handler errors into ephemeral replies
func ErrorMiddleware(config *ErrorConfig) core.Middleware {
	if config == nil {
		config = DefaultErrorConfig()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			result, err := next.Handle(ctx)
			if err == nil {
				return result, nil
			}

			if config.LogErrors && config.ErrorLogger != nil {
				config.ErrorLogger(ctx, err)
			}

			// Return error result (don't propagate error up)
			return &core.HandlerResult{
				Response: createErrorResponse(err, config),
				Context: map[string]interface{}{
					"error": err,
				},
			}, nil
		})
	}
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() core.Middleware {
	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (result *core.HandlerResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Discord] Panic recovered in handler: %v\n%s", r, debug.Stack())

					switch v := r.(type) {
					case error:
						err = v
					case string:
						err = errors.New(v)
					default:
						err = fmt.Errorf("panic: %v", r)
					}

					result = &core.HandlerResult{
						Response: core.NewEphemeralResponse("An unexpected error occurred. Please try again later."),
					}
				}
			}()

			return next.Handle(ctx)
		})
	}
}

// ToHandlerError maps a coded sheet error to the message shown in Discord.
// Errors without a user-facing code become internal errors.
func ToHandlerError(err error) *core.HandlerError {
	var handlerErr *core.HandlerError
	if errors.As(err, &handlerErr) {
		return handlerErr
	}

	var coded *sheeterr.Error
	if !errors.As(err, &coded) {
		return core.NewInternalError(err)
	}

	// The innermost message is the one written for the user; wrappers add
	// operational context only.
	message := rootMessage(coded)

	switch coded.Code {
	case sheeterr.CodeNotFound:
		return core.NewHandlerError(err, "That character no longer exists.", core.ErrorCodeNotFound)
	case sheeterr.CodePermissionDenied:
		return core.NewHandlerError(err, message, core.ErrorCodeForbidden)
	case sheeterr.CodeValidation, sheeterr.CodeInvalidArgument:
		return core.NewHandlerError(err, message, core.ErrorCodeBadRequest)
	case sheeterr.CodeAlreadyExists:
		return core.NewHandlerError(err, message, core.ErrorCodeConflict)
	case sheeterr.CodeConflict:
		return core.NewHandlerError(err, "Someone else changed this sheet at the same moment. Please try again.", core.ErrorCodeConflict)
	}
	return core.NewInternalError(err)
}

// rootMessage returns the message of the innermost coded error.
func rootMessage(err *sheeterr.Error) string {
	message := err.Message
	for cause := err.Cause; cause != nil; {
		var inner *sheeterr.Error
		if !errors.As(cause, &inner) {
			break
		}
		message = inner.Message
		cause = inner.Cause
	}
	return message
}

// createErrorResponse creates a user-friendly error response
func createErrorResponse(err error, config *ErrorConfig) *core.Response {
	var message string
	if config.ErrorFormatter != nil {
		message = config.ErrorFormatter(err)
	}
	if message == "" {
		message = config.DefaultUserMessage
	}

	// Always make error responses ephemeral
	return core.NewEphemeralResponse(message)
}

// defaultErrorFormatter provides basic error formatting
func defaultErrorFormatter(err error) string {
	handlerErr := ToHandlerError(err)
	if handlerErr.UserMessage == "" {
		return ""
	}
	if handlerErr.Code == core.ErrorCodeBadRequest {
		return "⚠️ " + handlerErr.UserMessage
	}
	return handlerErr.UserMessage
}

// defaultErrorLogger provides basic error logging
func defaultErrorLogger(ctx *core.InteractionContext, err error) {
	logCtx := map[string]interface{}{
		"user_id":    ctx.UserID,
		"guild_id":   ctx.GuildID,
		"channel_id": ctx.ChannelID,
		"code":       sheeterr.GetCode(err),
	}

	switch {
	case ctx.IsCommand():
		logCtx["command"] = ctx.GetCommandName()
		logCtx["subcommand"] = ctx.GetSubcommand()
	case ctx.IsComponent():
		if customID, parseErr := core.ParseCustomID(ctx.GetCustomID()); parseErr == nil {
			logCtx["domain"] = customID.Domain
			logCtx["action"] = customID.Action
		}
	case ctx.IsModal():
		logCtx["modal_id"] = ctx.GetCustomID()
	}

	if meta := sheeterr.GetMeta(err); len(meta) > 0 {
		logCtx["meta"] = meta
	}

	log.Printf("[Discord] Handler error: %v, context: %+v", err, logCtx)
}

// ValidationErrorMiddleware formats validation errors as warnings
func ValidationErrorMiddleware() core.Middleware {
	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			result, err := next.Handle(ctx)
			if err == nil {
				return result, nil
			}

			if handlerErr := ToHandlerError(err); handlerErr.Code == core.ErrorCodeBadRequest {
				message := fmt.Sprintf("⚠️ **Can't do that**\n%s", handlerErr.UserMessage)
				return &core.HandlerResult{
					Response: core.NewEphemeralResponse(message),
				}, nil
			}

			return result, err
		})
	}
}
