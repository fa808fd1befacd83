package middleware

import (
	"log"
	"time"

	"github.com/KirkDiggler/pgte-bot/internal/discord/core"
	"github.com/KirkDiggler/pgte-bot/internal/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LogConfig configures logging behavior
type LogConfig struct {
	// LogRequests logs incoming interactions
	LogRequests bool

	// LogResponses logs outgoing responses
	LogResponses bool

	// LogDuration logs handler execution time
	LogDuration bool

	// LogErrors logs errors (if not using ErrorMiddleware)
	LogErrors bool

	// Logger allows custom logging implementation
	Logger Logger

	// RequestFilter filters which requests to log
	RequestFilter func(*core.InteractionContext) bool
}

// Logger is a custom logging interface
type Logger interface {
	LogRequest(ctx *core.InteractionContext)
	LogResponse(ctx *core.InteractionContext, result *core.HandlerResult, duration time.Duration)
	LogError(ctx *core.InteractionContext, err error)
}

// DefaultLogConfig returns sensible defaults
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		LogRequests:  true,
		LogResponses: false,
		LogDuration:  true,
		LogErrors:    true,
		Logger:       &defaultLogger{},
	}
}

// LoggingMiddleware provides request/response logging
func LoggingMiddleware(config *LogConfig) core.Middleware {
	if config == nil {
		config = DefaultLogConfig()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			if config.RequestFilter != nil && !config.RequestFilter(ctx) {
				return next.Handle(ctx)
			}

			if config.LogRequests && config.Logger != nil {
				config.Logger.LogRequest(ctx)
			}

			start := time.Now()
			result, err := next.Handle(ctx)
			duration := time.Since(start)

			if err != nil && config.LogErrors && config.Logger != nil {
				config.Logger.LogError(ctx, err)
			}

			if config.LogResponses && config.Logger != nil {
				config.Logger.LogResponse(ctx, result, duration)
			} else if config.LogDuration {
				logDuration(ctx, duration)
			}

			return result, err
		})
	}
}

// TracingMiddleware opens a span per interaction. The span context replaces
// ctx.Context so service spans nest under it.
func TracingMiddleware(tp trace.TracerProvider) core.Middleware {
	var tracer trace.Tracer
	if tp != nil {
		tracer = tp.Tracer("github.com/KirkDiggler/pgte-bot/internal/discord")
	} else {
		tracer = otel.Tracer("github.com/KirkDiggler/pgte-bot/internal/discord")
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			labels := extractLabels(ctx)
			attrs := make([]attribute.KeyValue, 0, len(labels))
			for k, v := range labels {
				attrs = append(attrs, attribute.String("discord."+k, v))
			}

			spanCtx, span := tracer.Start(ctx.Context, "discord."+interactionName(ctx),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
			)
			defer span.End()
			ctx.Context = spanCtx

			result, err := next.Handle(ctx)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				span.SetAttributes(attribute.Int("discord.error_code", ToHandlerError(err).Code))
			}

			return result, err
		})
	}
}

// defaultLogger provides basic stdout logging
type defaultLogger struct{}

func (l *defaultLogger) LogRequest(ctx *core.InteractionContext) {
	if ctx.IsCommand() {
		log.Printf("[Discord] Command: %s, User: %s, Guild: %s",
			interactionName(ctx),
			ctx.UserID,
			ctx.GuildID,
		)
	} else if ctx.IsComponent() {
		customID := ctx.GetCustomID()
		if parsed, err := core.ParseCustomID(customID); err == nil {
			log.Printf("[Discord] Component: %s:%s, Target: %s, User: %s, Guild: %s",
				parsed.Domain,
				parsed.Action,
				parsed.Target,
				ctx.UserID,
				ctx.GuildID,
			)
		} else {
			log.Printf("[Discord] Component: %s, User: %s, Guild: %s",
				customID,
				ctx.UserID,
				ctx.GuildID,
			)
		}
	} else if ctx.IsModal() {
		log.Printf("[Discord] Modal: %s, User: %s, Guild: %s",
			ctx.GetCustomID(),
			ctx.UserID,
			ctx.GuildID,
		)
	}
}

func (l *defaultLogger) LogResponse(ctx *core.InteractionContext, result *core.HandlerResult, duration time.Duration) {
	status := "success"
	if result == nil || result.Response == nil {
		status = "no_response"
	} else if result.Response.Ephemeral {
		status = "ephemeral"
	}

	log.Printf("[Discord] %s response: %s, Duration: %v", interactionName(ctx), status, duration)
}

func (l *defaultLogger) LogError(ctx *core.InteractionContext, err error) {
	log.Printf("[Discord] Error in %s: %v", interactionName(ctx), err)
}

// logDuration logs just the duration
func logDuration(ctx *core.InteractionContext, duration time.Duration) {
	log.Printf("[Discord] %s completed in %v", interactionName(ctx), duration)
}

// interactionName names an interaction for logs and spans, e.g.
// "pgte/sheet/show" or "pgte:adj".
func interactionName(ctx *core.InteractionContext) string {
	switch {
	case ctx.IsCommand():
		name := ctx.GetCommandName()
		if group := ctx.GetSubcommandGroup(); group != "" {
			name += "/" + group
		}
		if sub := ctx.GetSubcommand(); sub != "" {
			name += "/" + sub
		}
		return name
	case ctx.IsComponent(), ctx.IsModal():
		if parsed, err := core.ParseCustomID(ctx.GetCustomID()); err == nil {
			return parsed.Domain + ":" + parsed.Action
		}
		return ctx.GetCustomID()
	}
	return "unknown"
}

// extractLabels extracts common labels for spans
func extractLabels(ctx *core.InteractionContext) map[string]string {
	labels := map[string]string{
		"guild_id": ctx.GuildID,
		"user_id":  ctx.UserID,
	}

	switch {
	case ctx.IsCommand():
		labels["interaction_type"] = "command"
		labels["command"] = ctx.GetCommandName()
		if group := ctx.GetSubcommandGroup(); group != "" {
			labels["subcommand_group"] = group
		}
		if sub := ctx.GetSubcommand(); sub != "" {
			labels["subcommand"] = sub
		}
	case ctx.IsComponent():
		labels["interaction_type"] = "component"
		if parsed, err := core.ParseCustomID(ctx.GetCustomID()); err == nil {
			labels["domain"] = parsed.Domain
			labels["action"] = parsed.Action
		}
	case ctx.IsModal():
		labels["interaction_type"] = "modal"
		if parsed, err := core.ParseCustomID(ctx.GetCustomID()); err == nil {
			labels["domain"] = parsed.Domain
			labels["action"] = parsed.Action
		}
	}

	return labels
}

// RequestIDMiddleware tags each interaction with a generated request ID
func RequestIDMiddleware(gen uuid.Generator) core.Middleware {
	if gen == nil {
		gen = uuid.NewGoogleUUIDGenerator()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			requestID := gen.New()
			ctx.WithValue(RequestIDKey, requestID)

			log.Printf("[Discord] [%s] Starting %s for user %s", requestID, interactionName(ctx), ctx.UserID)

			return next.Handle(ctx)
		})
	}
}

// RequestIDKey is the context key holding the request ID
const RequestIDKey = "request_id"

// GetRequestID returns the request ID set by RequestIDMiddleware
func GetRequestID(ctx *core.InteractionContext) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
