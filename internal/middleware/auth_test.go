package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/planora/planora-api/internal/auth"
)

func testIssuer() *auth.Issuer {
	return auth.NewIssuer("access", "refresh", "reset", time.Hour, time.Hour)
}

func invoke(t *testing.T, issuer *auth.Issuer, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireAccessToken(issuer)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, c
}

func TestRequireAccessTokenMissingHeader(t *testing.T) {
	rec, _ := invoke(t, testIssuer(), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAccessTokenMalformedHeader(t *testing.T) {
	rec, _ := invoke(t, testIssuer(), "Token abc")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAccessTokenInvalidToken(t *testing.T) {
	rec, _ := invoke(t, testIssuer(), "Bearer not-a-jwt")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireAccessTokenExpired(t *testing.T) {
	short := auth.NewIssuer("access", "refresh", "reset", time.Millisecond, time.Hour)
	tok, err := short.NewAccessToken(5, "e@f.g")
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	rec, _ := invoke(t, short, "Bearer "+tok)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireAccessTokenWrongKind(t *testing.T) {
	iss := testIssuer()
	refresh, err := iss.NewRefreshToken(5, "e@f.g")
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	rec, _ := invoke(t, iss, "Bearer "+refresh)
	if rec.Code != http.StatusForbidden {
		t.Errorf("refresh token on a protected route: status = %d, want 403", rec.Code)
	}
}

func TestRequireAccessTokenAttachesIdentity(t *testing.T) {
	iss := testIssuer()
	tok, err := iss.NewAccessToken(77, "amy@example.com")
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	rec, c := invoke(t, iss, "Bearer "+tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if id, ok := UserID(c); !ok || id != 77 {
		t.Errorf("UserID = (%d, %v), want (77, true)", id, ok)
	}
	if email, ok := Email(c); !ok || email != "amy@example.com" {
		t.Errorf("Email = (%q, %v), want (amy@example.com, true)", email, ok)
	}
}
