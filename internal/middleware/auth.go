package middleware

import (
	"storefront-api/internal/apperr"
	"storefront-api/internal/model"
	"storefront-api/internal/service"

	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// Session reads the session cookie and puts the authenticated principal on
// the request context. Requests without a valid cookie are rejected before
// any handler runs.
func Session(auth service.AuthService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return apperr.Unauthorized("authentication required")
			}

			principal, err := auth.VerifyToken(cookie.Value)
			if err != nil {
				return err
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// RequireRole guards a route group with a uniform role check instead of
// per-handler conditionals.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := PrincipalFrom(c)
			if principal == nil {
				return apperr.Unauthorized("authentication required")
			}
			if principal.Role != role {
				return apperr.Forbidden("%s role required", role)
			}
			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated principal, or nil on routes that
// did not pass through Session.
func PrincipalFrom(c echo.Context) *service.Principal {
	principal, _ := c.Get(principalKey).(*service.Principal)
	return principal
}
