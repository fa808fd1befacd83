package middleware

import (
	"log"
	"time"

	"github.com/KirkDiggler/pgte-bot/internal/discord/core"
)

// DeferConfig configures the defer middleware
type DeferConfig struct {
	// AlwaysDefer forces deferred response for all interactions
	AlwaysDefer bool

	// EphemeralByDefault makes deferred command responses ephemeral
	EphemeralByDefault bool

	// DeferAfter defers if handler doesn't respond within this duration
	// Set to 0 to disable auto-defer
	DeferAfter time.Duration

	// SkipDeferFor allows skipping defer for specific domains/actions
	SkipDeferFor []DeferSkipRule
}

// DeferSkipRule defines when to skip deferring. Action "*" matches every
// action in the domain.
type DeferSkipRule struct {
	Domain string
	Action string
}

// DefaultDeferConfig returns a sensible default configuration
func DefaultDeferConfig() *DeferConfig {
	return &DeferConfig{
		DeferAfter: 2 * time.Second, // Discord requires a response within 3s
	}
}

// DeferMiddleware handles Discord's 3-second response requirement. Buttons
// are acknowledged with a deferred update so the sheet message is edited in
// place once the handler finishes.
func DeferMiddleware(config *DeferConfig) core.Middleware {
	if config == nil {
		config = DefaultDeferConfig()
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			responder, ok := core.GetResponder(ctx)
			if !ok {
				return next.Handle(ctx)
			}

			// Modals must be the first response, so anything that may open
			// one is never deferred.
			if shouldSkipDefer(ctx, config) {
				return next.Handle(ctx)
			}

			if config.AlwaysDefer {
				deferInteraction(ctx, responder, config)
				result, err := next.Handle(ctx)
				if result != nil {
					result.Deferred = responder.IsDeferred()
				}
				return result, err
			}

			if config.DeferAfter <= 0 {
				return next.Handle(ctx)
			}

			type handlerResponse struct {
				result *core.HandlerResult
				err    error
			}
			responseChan := make(chan handlerResponse, 1)

			go func() {
				result, err := next.Handle(ctx)
				responseChan <- handlerResponse{result, err}
			}()

			timer := time.NewTimer(config.DeferAfter)
			defer timer.Stop()

			select {
			case resp := <-responseChan:
				return resp.result, resp.err

			case <-timer.C:
				deferInteraction(ctx, responder, config)

				resp := <-responseChan
				if resp.result != nil {
					resp.result.Deferred = responder.IsDeferred()
				}
				return resp.result, resp.err
			}
		})
	}
}

func deferInteraction(ctx *core.InteractionContext, responder core.InteractionResponder, config *DeferConfig) {
	var err error
	if ctx.IsComponent() {
		err = responder.DeferUpdate()
	} else {
		err = responder.Defer(config.EphemeralByDefault)
	}
	if err != nil {
		log.Printf("[Discord] Failed to defer %s: %v", interactionName(ctx), err)
	}
}

// shouldSkipDefer checks if defer should be skipped for this interaction
func shouldSkipDefer(ctx *core.InteractionContext, config *DeferConfig) bool {
	if ctx.IsComponent() || ctx.IsModal() {
		customID, err := core.ParseCustomID(ctx.GetCustomID())
		if err == nil {
			for _, rule := range config.SkipDeferFor {
				if rule.Domain == customID.Domain &&
					(rule.Action == "*" || rule.Action == customID.Action) {
					return true
				}
			}
		}
	}

	if ctx.IsCommand() {
		name := ctx.GetCommandName()
		sub := ctx.GetSubcommand()
		for _, rule := range config.SkipDeferFor {
			if rule.Domain == name && (rule.Action == "" || rule.Action == "*" || rule.Action == sub) {
				return true
			}
		}
	}

	return false
}

// AlwaysDeferMiddleware is a simple middleware that always defers
func AlwaysDeferMiddleware() core.Middleware {
	return DeferMiddleware(&DeferConfig{
		AlwaysDefer: true,
	})
}

// SmartDeferMiddleware defers after 2 seconds if handler hasn't responded
func SmartDeferMiddleware(skip ...DeferSkipRule) core.Middleware {
	config := DefaultDeferConfig()
	config.SkipDeferFor = skip
	return DeferMiddleware(config)
}
