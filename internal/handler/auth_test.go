package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/planora/planora-api/internal/auth"
	"github.com/planora/planora-api/internal/config"
	"github.com/planora/planora-api/internal/session"
)

func testCfg() config.Config {
	return config.Config{
		BcryptCost:      4,
		SessionTracking: true,
		ResetSingleUse:  true,
	}
}

func testIssuer() *auth.Issuer {
	return auth.NewIssuer("access", "refresh", "reset", time.Hour, time.Hour)
}

// postJSON runs a handler against a JSON POST body and returns the recorder.
func postJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestLoginMissingFields(t *testing.T) {
	h := NewAuthHandler(testCfg(), nil, testIssuer(), session.NewMemoryRegistry())

	for _, body := range []string{`{}`, `{"email":"a@b.c"}`, `{"password":"x"}`} {
		rec := postJSON(t, h.Login, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Login(%s) status = %d, want 400", body, rec.Code)
		}
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	h := NewAuthHandler(testCfg(), nil, testIssuer(), session.NewMemoryRegistry())

	rec := postJSON(t, h.Register, `{"email":"a@b.c","password":"one","confirm_password":"two"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRefreshRotation(t *testing.T) {
	iss := testIssuer()
	reg := session.NewMemoryRegistry()
	h := NewAuthHandler(testCfg(), nil, iss, reg)

	old, err := iss.NewRefreshToken(9, "amy@example.com")
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if err := reg.Register(context.Background(), old); err != nil {
		t.Fatalf("Register: %v", err)
	}

	rec := postJSON(t, h.Refresh, `{"refresh_token":"`+old+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first refresh status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp struct {
		User struct {
			ID    uint64 `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User.ID != 9 || resp.User.Email != "amy@example.com" {
		t.Errorf("identity = {%d %q}, want {9 amy@example.com}", resp.User.ID, resp.User.Email)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" || resp.RefreshToken == old {
		t.Error("rotation must return a fresh token pair")
	}

	// The rotated-out token must be dead, the new one live.
	if live, _ := reg.IsLive(context.Background(), old); live {
		t.Error("old refresh token still live after rotation")
	}
	if live, _ := reg.IsLive(context.Background(), resp.RefreshToken); !live {
		t.Error("new refresh token not registered")
	}

	rec = postJSON(t, h.Refresh, `{"refresh_token":"`+old+`"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("reused refresh token status = %d, want 403", rec.Code)
	}
}

func TestRefreshNotLiveRejected(t *testing.T) {
	iss := testIssuer()
	h := NewAuthHandler(testCfg(), nil, iss, session.NewMemoryRegistry())

	// Cryptographically valid but never registered.
	tok, _ := iss.NewRefreshToken(3, "x@y.z")
	rec := postJSON(t, h.Refresh, `{"refresh_token":"`+tok+`"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRefreshInvalidSignature(t *testing.T) {
	h := NewAuthHandler(testCfg(), nil, testIssuer(), session.NewMemoryRegistry())

	other := auth.NewIssuer("x", "other-refresh-secret", "z", time.Hour, time.Hour)
	forged, _ := other.NewRefreshToken(3, "x@y.z")

	rec := postJSON(t, h.Refresh, `{"refresh_token":"`+forged+`"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRefreshMissingToken(t *testing.T) {
	h := NewAuthHandler(testCfg(), nil, testIssuer(), session.NewMemoryRegistry())
	rec := postJSON(t, h.Refresh, `{}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRefreshStatelessMode(t *testing.T) {
	cfg := testCfg()
	cfg.SessionTracking = false
	iss := testIssuer()
	h := NewAuthHandler(cfg, nil, iss, nil)

	// No registry: any valid signature is honored, every time.
	tok, _ := iss.NewRefreshToken(4, "s@t.u")
	for i := 0; i < 2; i++ {
		rec := postJSON(t, h.Refresh, `{"refresh_token":"`+tok+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("stateless refresh #%d status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestLogoutRevokesSuppliedToken(t *testing.T) {
	iss := testIssuer()
	reg := session.NewMemoryRegistry()
	h := NewAuthHandler(testCfg(), nil, iss, reg)

	tok, _ := iss.NewRefreshToken(5, "e@f.g")
	_ = reg.Register(context.Background(), tok)

	rec := postJSON(t, h.Logout, `{"refresh_token":"`+tok+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if live, _ := reg.IsLive(context.Background(), tok); live {
		t.Error("token still live after logout")
	}
}

func TestLogoutMissingToken(t *testing.T) {
	h := NewAuthHandler(testCfg(), nil, testIssuer(), session.NewMemoryRegistry())
	rec := postJSON(t, h.Logout, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
