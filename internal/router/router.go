// Package router wires handlers, authentication and rate limiting onto the
// Echo instance. Route grouping follows the access rules: credential
// endpoints sit behind the strict limiter, the personal API behind the
// access-token gate with the loose limiter, and the reset/image endpoints
// are public by contract.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/planora/planora-api/internal/handler"
)

// Handlers collects everything RegisterRoutes needs.
type Handlers struct {
	Auth    *handler.AuthHandler
	Reset   *handler.PasswordResetHandler
	Users   *handler.UserHandler
	Events  *handler.EventHandler
	Images  *handler.ImageHandler
	Message *handler.MessageHandler
}

// RegisterRoutes mounts the full HTTP surface.
func RegisterRoutes(e *echo.Echo, h Handlers, requireToken, strictLimit, looseLimit echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// Credential endpoints: no session yet, tight per-IP budget.
	e.POST("/users/register", h.Auth.Register, strictLimit)
	e.POST("/users/login", h.Auth.Login, strictLimit)

	// Token exchange and logout. Refresh authenticates via the refresh
	// token in the body; logout requires a live access token.
	e.POST("/users/refresh", h.Auth.Refresh)
	e.POST("/users/logout", h.Auth.Logout, requireToken, looseLimit)

	// Password reset: reachable without any token by design.
	e.POST("/forgot-password", h.Reset.ForgotPassword)
	e.POST("/verify-reset-token", h.Reset.VerifyResetToken)
	e.POST("/set-new-password", h.Reset.SetNewPassword)

	// Profile images: public by contract (no token, no limiter).
	e.POST("/upload-profile-image/:id", h.Images.Upload)
	e.GET("/get-profile-image/:id", h.Images.Download)

	// User profile routes require a valid access token.
	e.GET("/users/:id", h.Users.Get, requireToken)
	e.PATCH("/users/:id", h.Users.Patch, requireToken, looseLimit)

	events := e.Group("/events", requireToken, looseLimit)
	events.POST("", h.Events.Create)
	events.GET("", h.Events.List)
	events.GET("/date/:date", h.Events.ListByDay)
	events.GET("/:id", h.Events.Get)
	events.PUT("/:id", h.Events.Update)
	events.DELETE("/:id", h.Events.Delete)

	e.POST("/send-message", h.Message.Send, requireToken, looseLimit)
}
