package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/planora/planora-api/internal/auth"
	"github.com/planora/planora-api/internal/config"
	"github.com/planora/planora-api/internal/queue"
	"github.com/planora/planora-api/internal/repository"
	"github.com/planora/planora-api/internal/session"
)

// PasswordResetHandler implements the three-step reset flow: request a
// token by email, verify it, spend it on a password change. The steps are
// separate entry points; only the last one has side effects.
type PasswordResetHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Issuer *auth.Issuer
	Resets session.ResetConsumer
	Mailer queue.Notifier
}

func NewPasswordResetHandler(cfg config.Config, users *repository.UserRepo, issuer *auth.Issuer, resets session.ResetConsumer, mailer queue.Notifier) *PasswordResetHandler {
	return &PasswordResetHandler{Cfg: cfg, Users: users, Issuer: issuer, Resets: resets, Mailer: mailer}
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

type resetTokenReq struct {
	Token string `json:"token"`
}

type setNewPasswordReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ForgotPassword looks up the account, issues a reset token and mails a
// reset link. Delivery failures surface as 500; the client can retry.
func (h *PasswordResetHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no account for this email"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	token, err := h.Issuer.NewResetToken(u.ID, u.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue reset token failed"})
	}

	link := fmt.Sprintf("%s?token=%s", h.Cfg.ResetURLBase, token)
	err = h.Mailer.SendEmail(ctx, queue.EmailMessage{
		To:      u.Email,
		Subject: "Reset your password",
		Body:    "Follow this link to choose a new password: " + link,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not send reset email"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "reset email sent"})
}

// VerifyResetToken is a pure validity check: signature and expiry only.
// It does not consume the token.
func (h *PasswordResetHandler) VerifyResetToken(c echo.Context) error {
	var req resetTokenReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}
	if _, err := h.Issuer.VerifyReset(strings.TrimSpace(req.Token)); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or expired token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "token valid"})
}

// SetNewPassword re-validates the token, consumes it (single-use mode) and
// overwrites the target user's password. The target comes from the token's
// claims, never from the request body.
func (h *PasswordResetHandler) SetNewPassword(c echo.Context) error {
	var req setNewPasswordReq
	if err := c.Bind(&req); err != nil ||
		strings.TrimSpace(req.Token) == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token and new_password required"})
	}

	claims, err := h.Issuer.VerifyReset(strings.TrimSpace(req.Token))
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or expired token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if h.Cfg.ResetSingleUse {
		first, err := h.Resets.Consume(ctx, claims.ID, auth.ResetExpiry(claims))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset bookkeeping failed"})
		}
		if !first {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "token already used"})
		}
	}

	hash, err := auth.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Users.UpdatePassword(ctx, claims.UserID, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account no longer exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
