package authn

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ecomarket/storefront/internal/logging"
	"github.com/ecomarket/storefront/internal/repo"
	"github.com/ecomarket/storefront/internal/token"
)

const bearerPrefix = "Bearer "

// Middleware resolves the bearer credential on each request into an Identity
// and installs it in the request context. Credential failures never reject the
// request: they leave it anonymous and the per-route permission check decides
// the outcome downstream. Only an unexpected credential store error fails the
// request, with a 500.
func Middleware(codec *token.Codec, users *repo.GormRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, "/health") {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return next(c)
			}
			raw := header[len(bearerPrefix):]

			if !codec.VerifyAccessToken(raw) {
				return next(c)
			}

			ctx := c.Request().Context()
			email := codec.ExtractSubject(raw)
			roleClaim := codec.ExtractRoleClaim(raw)

			user, err := users.FindByEmail(ctx, email)
			if err != nil {
				// Only a missing user degrades to anonymous; a store fault
				// must not masquerade as an auth failure.
				if errors.Is(err, repo.ErrUserNotFound) {
					return next(c)
				}
				logging.FromContext(ctx).Error("credential lookup failed",
					"email", email, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}

			// Staleness guard: a role change since issuance forces re-login
			// instead of honoring the token's old claim. A removed role counts
			// as a change; the token still asserts one.
			current := ""
			if user.Role != nil {
				current = user.Role.Name
			}
			if roleClaim != current {
				logging.FromContext(ctx).Warn("stale role claim ignored",
					"email", email, "claim", roleClaim, "current", current)
				return next(c)
			}

			req := c.Request().WithContext(IntoContext(ctx, NewIdentity(user)))
			c.SetRequest(req)
			return next(c)
		}
	}
}

// Require gates a route on the permission registered for the named operation
// in OperationPermissions. Anonymous requests get 401, authenticated requests
// without the capability get 403.
func Require(operation string) echo.MiddlewareFunc {
	permission, ok := OperationPermissions[operation]
	if !ok {
		panic("authn: unknown operation " + operation)
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := FromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !Authorize(id, permission) {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}
			return next(c)
		}
	}
}
