package middleware

import (
	"slices"

	"github.com/KirkDiggler/pgte-bot/internal/discord/core"
)

// AuthConfig configures authorization behavior
type AuthConfig struct {
	// RequireGuildMember requires the interaction to come from a server
	RequireGuildMember bool

	// RequiredRoles lists role IDs user must have (any of)
	RequiredRoles []string

	// UserWhitelist allows specific users regardless of other checks
	UserWhitelist []string

	// UserBlacklist blocks specific users
	UserBlacklist []string

	// CustomChecker allows custom authorization logic
	CustomChecker AuthChecker
}

// AuthChecker is a custom authorization function
type AuthChecker func(ctx *core.InteractionContext) (bool, string)

// AuthorizationMiddleware checks if user is authorized
func AuthorizationMiddleware(config *AuthConfig) core.Middleware {
	if config == nil {
		config = &AuthConfig{}
	}

	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			// Check blacklist first
			if slices.Contains(config.UserBlacklist, ctx.UserID) {
				return unauthorizedResponse("You are not authorized to use this bot."), nil
			}

			// Whitelisted users bypass the remaining checks
			if slices.Contains(config.UserWhitelist, ctx.UserID) {
				return next.Handle(ctx)
			}

			if config.RequireGuildMember && ctx.GuildID == "" {
				return unauthorizedResponse("Character sheets can only be used in a server."), nil
			}

			if len(config.RequiredRoles) > 0 && !hasRequiredRole(ctx, config.RequiredRoles) {
				return unauthorizedResponse("You don't have the required role to use character sheets."), nil
			}

			if config.CustomChecker != nil {
				if allowed, reason := config.CustomChecker(ctx); !allowed {
					return unauthorizedResponse(reason), nil
				}
			}

			return next.Handle(ctx)
		})
	}
}

// RoleRequiredMiddleware requires user to have specific role
func RoleRequiredMiddleware(roleIDs ...string) core.Middleware {
	return AuthorizationMiddleware(&AuthConfig{
		RequiredRoles: roleIDs,
	})
}

// BlockUsersMiddleware refuses interactions from the listed users
func BlockUsersMiddleware(userIDs ...string) core.Middleware {
	return AuthorizationMiddleware(&AuthConfig{
		UserBlacklist: userIDs,
	})
}

// DomainAuthMiddleware applies auth rules based on command domain
func DomainAuthMiddleware(rules map[string]*AuthConfig) core.Middleware {
	return func(next core.Handler) core.Handler {
		return core.HandlerFunc(func(ctx *core.InteractionContext) (*core.HandlerResult, error) {
			var domain string

			if ctx.IsCommand() {
				domain = ctx.GetCommandName()
			} else if ctx.IsComponent() || ctx.IsModal() {
				if parsed, err := core.ParseCustomID(ctx.GetCustomID()); err == nil {
					domain = parsed.Domain
				}
			}

			if config, ok := rules[domain]; ok {
				return AuthorizationMiddleware(config)(next).Handle(ctx)
			}

			return next.Handle(ctx)
		})
	}
}

// hasRequiredRole checks if member has any of the required roles
func hasRequiredRole(ctx *core.InteractionContext, requiredRoles []string) bool {
	if ctx.Member == nil {
		return false
	}

	for _, memberRole := range ctx.Member.Roles {
		if slices.Contains(requiredRoles, memberRole) {
			return true
		}
	}

	return false
}

// unauthorizedResponse creates an unauthorized error response
func unauthorizedResponse(message string) *core.HandlerResult {
	return &core.HandlerResult{
		Response: core.NewEphemeralResponse("❌ " + message),
	}
}
