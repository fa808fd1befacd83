package core

import (
	"fmt"
	"strings"
)

// Router owns one slash command and the custom ID domain of the same name.
// For the "pgte" router:
//
//	/pgte sheet show        -> cmd:pgte:sheet:show
//	pgte:adj:c-1:tokens:+1  -> component:adj
//	pgte:aspect:c-1:aspect2 -> modal:aspect
//
// A pattern may end in ":*" to catch every longer pattern with that prefix.
type Router struct {
	domain string

	handlers map[string]Handler

	// Applied to each handler at registration, so Use must come first
	middleware []Middleware

	customIDBuilder *CustomIDBuilder

	pipeline *Pipeline
}

// NewRouter creates a router for domain. Register adds it to pipeline.
func NewRouter(domain string, pipeline *Pipeline) *Router {
	return &Router{
		domain:          domain,
		handlers:        make(map[string]Handler),
		middleware:      make([]Middleware, 0),
		customIDBuilder: NewCustomIDBuilder(domain),
		pipeline:        pipeline,
	}
}

// Use adds middleware to handlers registered after this call
func (r *Router) Use(middleware ...Middleware) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Handle registers a handler for a routing pattern
func (r *Router) Handle(pattern string, handler Handler) *Router {
	wrapped := handler
	for i := len(r.middleware) - 1; i >= 0; i-- {
		wrapped = r.middleware[i](wrapped)
	}

	r.handlers[pattern] = wrapped
	return r
}

// SubcommandFunc handles "/<parent> <sub>"
func (r *Router) SubcommandFunc(parent, sub string, fn func(*InteractionContext) (*HandlerResult, error)) *Router {
	return r.Handle(fmt.Sprintf("cmd:%s:%s", parent, sub), HandlerFunc(fn))
}

// SubcommandGroupFunc handles "/<parent> <group> <sub>", e.g. "/pgte sheet show"
func (r *Router) SubcommandGroupFunc(parent, group, sub string, fn func(*InteractionContext) (*HandlerResult, error)) *Router {
	return r.Handle(fmt.Sprintf("cmd:%s:%s:%s", parent, group, sub), HandlerFunc(fn))
}

// ComponentFunc handles buttons and select menus whose custom ID action is action
func (r *Router) ComponentFunc(action string, fn func(*InteractionContext) (*HandlerResult, error)) *Router {
	return r.Handle("component:"+action, HandlerFunc(fn))
}

// ModalFunc handles modal submits whose custom ID action is action
func (r *Router) ModalFunc(action string, fn func(*InteractionContext) (*HandlerResult, error)) *Router {
	return r.Handle("modal:"+action, HandlerFunc(fn))
}

// Build creates a single handler from all registered routes
func (r *Router) Build() Handler {
	return &routerHandler{
		domain:   r.domain,
		handlers: r.handlers,
	}
}

// Register adds the built router to the pipeline
func (r *Router) Register() {
	if r.pipeline != nil {
		r.pipeline.Register(r.Build())
	}
}

// GetCustomIDBuilder returns the builder for this router's custom IDs
func (r *Router) GetCustomIDBuilder() *CustomIDBuilder {
	return r.customIDBuilder
}

type routerHandler struct {
	domain   string
	handlers map[string]Handler
}

// CanHandle reports whether a route matches the interaction
func (h *routerHandler) CanHandle(ctx *InteractionContext) bool {
	return h.lookup(ctx) != nil
}

// Handle dispatches to the matching route
func (h *routerHandler) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	handler := h.lookup(ctx)
	if handler == nil {
		return nil, NewRouteError(h.domain, h.extractPattern(ctx))
	}
	return handler.Handle(ctx)
}

// lookup tries the exact pattern, then ":*" wildcards from longest to shortest.
func (h *routerHandler) lookup(ctx *InteractionContext) Handler {
	pattern := h.extractPattern(ctx)
	if pattern == "" {
		return nil
	}

	if handler, ok := h.handlers[pattern]; ok {
		return handler
	}

	parts := strings.Split(pattern, ":")
	for i := len(parts); i > 0; i-- {
		if handler, ok := h.handlers[strings.Join(parts[:i], ":")+":*"]; ok {
			return handler
		}
	}
	return nil
}

// extractPattern maps an interaction to its routing pattern, or "" when it
// belongs to another command or domain.
func (h *routerHandler) extractPattern(ctx *InteractionContext) string {
	switch {
	case ctx.IsCommand():
		if ctx.GetCommandName() != h.domain {
			return ""
		}
		sub := ctx.GetSubcommand()
		if group := ctx.GetSubcommandGroup(); group != "" {
			return fmt.Sprintf("cmd:%s:%s:%s", h.domain, group, sub)
		}
		if sub != "" {
			return fmt.Sprintf("cmd:%s:%s", h.domain, sub)
		}
		return "cmd:" + h.domain

	case ctx.IsComponent(), ctx.IsModal():
		customID, err := ParseCustomID(ctx.GetCustomID())
		if err != nil || customID.Domain != h.domain {
			return ""
		}
		kind := "component"
		if ctx.IsModal() {
			kind = "modal"
		}
		return kind + ":" + customID.Action
	}

	return ""
}
