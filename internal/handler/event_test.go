package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/planora/planora-api/internal/middleware"
)

// eventCtx builds a context with an authenticated user already attached.
func eventCtx(method, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, uint64(7))
	c.Set(middleware.CtxEmail, "amy@example.com")
	return c, rec
}

func TestEventCreateValidation(t *testing.T) {
	h := NewEventHandler(nil)

	cases := []string{
		`{}`,
		`{"name":"  ","from_date":"2024-03-15T10:00:00Z","to_date":"2024-03-15T12:00:00Z"}`,
		`{"name":"party"}`,
		`{"name":"party","from_date":"15.03.2024","to_date":"2024-03-15T12:00:00Z"}`,
		`{"name":"party","from_date":"2024-03-15T12:00:00Z","to_date":"2024-03-15T10:00:00Z"}`,
	}
	for _, body := range cases {
		c, rec := eventCtx(http.MethodPost, body)
		if err := h.Create(c); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Create(%s) status = %d, want 400", body, rec.Code)
		}
	}
}

func TestEventCreateUnauthenticatedContext(t *testing.T) {
	h := NewEventHandler(nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestEventListByDayBadInput(t *testing.T) {
	h := NewEventHandler(nil)

	c, rec := eventCtx(http.MethodGet, "")
	c.SetParamNames("date")
	c.SetParamValues("not-a-date")
	if err := h.ListByDay(c); err != nil {
		t.Fatalf("ListByDay returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?tz=Nowhere%2FNothing", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, uint64(7))
	c.SetParamNames("date")
	c.SetParamValues("2024-03-15")
	if err := h.ListByDay(c); err != nil {
		t.Fatalf("ListByDay returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad tz status = %d, want 400", rec.Code)
	}
}

func TestEventGetInvalidID(t *testing.T) {
	h := NewEventHandler(nil)

	c, rec := eventCtx(http.MethodGet, "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
