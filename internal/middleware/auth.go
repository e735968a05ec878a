package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/planora/planora-api/internal/auth"
)

// Context keys set by RequireAccessToken for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

// RequireAccessToken returns an Echo middleware that gates protected routes
// on a Bearer access token. A missing or malformed Authorization header is
// unauthenticated (401); a header that is present but carries an invalid or
// expired token is forbidden (403). On success the resolved identity is
// attached to the request context under CtxUserID and CtxEmail. The check
// short-circuits the pipeline before any protected handler runs.
func RequireAccessToken(issuer *auth.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := issuer.VerifyAccess(raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid token"})
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxEmail, claims.Email)
			return next(c)
		}
	}
}

// UserID extracts the authenticated user's id stored by RequireAccessToken.
// The boolean is false when the middleware did not run on this route.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok
}

// Email extracts the authenticated user's email from the context.
func Email(c echo.Context) (string, bool) {
	email, ok := c.Get(CtxEmail).(string)
	return email, ok
}
