package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/planora/planora-api/internal/auth"
	"github.com/planora/planora-api/internal/config"
	"github.com/planora/planora-api/internal/repository"
	"github.com/planora/planora-api/internal/session"
)

// AuthHandler bundles dependencies for the register/login/refresh/logout
// endpoints. Sessions may be a no-op only when session tracking is
// disabled in config (the stateless deployment).
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Issuer   *auth.Issuer
	Sessions session.Registry
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, issuer *auth.Issuer, sessions session.Registry) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Issuer: issuer, Sessions: sessions}
}

// ----- DTOs -----

type registerReq struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	PhoneNumber     string `json:"phone_number"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

type authResp struct {
	User         userPart `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
}

// Register creates a user and returns an initial token pair.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if req.Password != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords do not match"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName),
		strings.TrimSpace(req.PhoneNumber), h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return h.issuePair(c, ctx, uid, req.Email)
}

// Login verifies credentials and returns a fresh token pair. A missing row
// and a wrong password are indistinguishable to the client.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return h.issuePair(c, ctx, u.ID, u.Email)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// new pair is issued in its place, so a rotated-out token is rejected on
// any later use. Identity comes from the token's own claims.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh_token required"})
	}
	raw := strings.TrimSpace(req.RefreshToken)

	claims, err := h.Issuer.VerifyRefresh(raw)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid refresh token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if h.Cfg.SessionTracking {
		live, err := h.Sessions.IsLive(ctx, raw)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session check failed"})
		}
		if !live {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "refresh token revoked"})
		}
	}

	access, err := h.Issuer.NewAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := h.Issuer.NewRefreshToken(claims.UserID, claims.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}

	// Rotation bookkeeping is on the critical path: the old token must be
	// dead and the new one live before the client sees the response.
	if h.Cfg.SessionTracking {
		if err := h.Sessions.Register(ctx, refresh); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save session failed"})
		}
		if err := h.Sessions.Revoke(ctx, raw); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke session failed"})
		}
	}

	return c.JSON(http.StatusOK, authResp{
		User:         userPart{ID: claims.UserID, Email: claims.Email},
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// Logout revokes the specific refresh token supplied in the body. The
// route sits behind the access-token middleware; the body names which
// session to end.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	if h.Cfg.SessionTracking {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		if err := h.Sessions.Revoke(ctx, strings.TrimSpace(req.RefreshToken)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// issuePair mints an access+refresh pair for the user, registers the
// refresh token when tracking is on, and writes the auth response.
func (h *AuthHandler) issuePair(c echo.Context, ctx context.Context, uid uint64, email string) error {
	access, err := h.Issuer.NewAccessToken(uid, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := h.Issuer.NewRefreshToken(uid, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if h.Cfg.SessionTracking {
		if err := h.Sessions.Register(ctx, refresh); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save session failed"})
		}
	}
	return c.JSON(http.StatusOK, authResp{
		User:         userPart{ID: uid, Email: email},
		AccessToken:  access,
		RefreshToken: refresh,
	})
}
