package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Pipeline is the entry point for every Discord interaction the bot receives.
// The /pgte slash command and every pgte: button, select and modal go through
// Execute, which offers the interaction to each registered handler in order.
// In practice each handler is a Router built for one custom ID domain, so
// the first router whose domain matches answers and the rest are skipped.
type Pipeline struct {
	handlers []Handler

	// Wraps routers as they are registered
	middleware []Middleware

	// Turns an error that escaped the router middleware into a reply
	errorHandler ErrorHandler

	stopOnFirst bool

	mu sync.RWMutex
}

// Middleware is a function that wraps a handler
type Middleware func(Handler) Handler

// ErrorHandler handles errors that occur during pipeline execution
type ErrorHandler func(ctx *InteractionContext, err error) *HandlerResult

// NewPipeline creates a pipeline that stops at the first matching router
func NewPipeline() *Pipeline {
	return &Pipeline{
		handlers:     make([]Handler, 0),
		middleware:   make([]Middleware, 0),
		errorHandler: defaultErrorHandler,
		stopOnFirst:  true,
	}
}

// Register adds handlers, wrapping each in the middleware added so far
func (p *Pipeline) Register(handlers ...Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, h := range handlers {
		wrapped := h
		for i := len(p.middleware) - 1; i >= 0; i-- {
			wrapped = p.middleware[i](wrapped)
		}
		p.handlers = append(p.handlers, wrapped)
	}
}

// Use adds middleware to the pipeline
func (p *Pipeline) Use(middleware ...Middleware) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.middleware = append(p.middleware, middleware...)
}

// SetErrorHandler sets a custom error handler
func (p *Pipeline) SetErrorHandler(handler ErrorHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.errorHandler = handler
}

// SetStopOnFirst configures whether to stop after the first handler that can handle
func (p *Pipeline) SetStopOnFirst(stop bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopOnFirst = stop
}

// Execute answers one interaction. Handlers reach the reply through
// GetResponder, so a slow roll can defer before it edits the sheet message.
func (p *Pipeline) Execute(ctx context.Context, s Session, i *discordgo.InteractionCreate) error {
	interactionCtx := NewInteractionContext(ctx, s, i)

	log.Printf("[Pipeline] Executing for command: %s, group: %s, subcommand: %s, custom ID: %s",
		interactionCtx.GetCommandName(),
		interactionCtx.GetSubcommandGroup(),
		interactionCtx.GetSubcommand(),
		interactionCtx.GetCustomID())

	responder := NewDiscordResponder(ctx, s, i)
	interactionCtx.WithValue(responderKey, responder)

	p.mu.RLock()
	handlers := make([]Handler, len(p.handlers))
	copy(handlers, p.handlers)
	stopOnFirst := p.stopOnFirst
	errorHandler := p.errorHandler
	p.mu.RUnlock()

	handled := false
	for idx, handler := range handlers {
		if !handler.CanHandle(interactionCtx) {
			continue
		}
		log.Printf("[Pipeline] Handler %d handling interaction", idx)
		result, err := handler.Handle(interactionCtx)

		if err != nil {
			result = errorHandler(interactionCtx, err)
		}

		if result != nil && result.Response != nil {
			if err := p.sendResponse(responder, result); err != nil {
				return fmt.Errorf("failed to send response: %w", err)
			}
		}

		handled = true

		if stopOnFirst || (result != nil && result.StopPropagation) {
			break
		}
	}

	// Stale custom IDs and commands from another bot land here
	if !handled && !responder.HasResponded() {
		result := &HandlerResult{
			Response: NewEphemeralResponse("I don't know how to handle that command."),
		}
		return p.sendResponse(responder, result)
	}

	return nil
}

// sendResponse edits the deferred reply when there is one
func (p *Pipeline) sendResponse(responder InteractionResponder, result *HandlerResult) error {
	if result.Deferred || responder.IsDeferred() {
		return responder.Edit(result.Response)
	}
	return responder.Respond(result.Response)
}

// HandlerCount returns the number of registered handlers
func (p *Pipeline) HandlerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.handlers)
}

// defaultErrorHandler shows a HandlerError's message only to the player who
// triggered it. Anything else is reported generically.
func defaultErrorHandler(ctx *InteractionContext, err error) *HandlerResult {
	var handlerErr *HandlerError
	if errors.As(err, &handlerErr) && handlerErr.UserMessage != "" {
		return &HandlerResult{
			Response: NewEphemeralResponse(handlerErr.UserMessage),
		}
	}
	return &HandlerResult{
		Response: NewEphemeralResponse("An error occurred while processing your request."),
	}
}

// MiddlewareChain composes middleware so the first one listed runs outermost
func MiddlewareChain(middleware ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(middleware) - 1; i >= 0; i-- {
			next = middleware[i](next)
		}
		return next
	}
}
