package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/planora/planora-api/internal/repository"
)

// UserHandler serves the user profile endpoints.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(users *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: users}
}

type userResp struct {
	ID          uint64    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// Get returns a user row by id. The password hash never leaves the
// repository layer.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, userResp{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
	})
}

// Patch applies field-by-field updates from a JSON object. Each key maps
// to one single-column UPDATE; unknown keys and password fields are
// rejected up front so a partial apply cannot hide a typo.
func (h *UserHandler) Patch(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body map[string]string
	if err := c.Bind(&body); err != nil || len(body) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}

	columns := make([]string, 0, len(body))
	for field := range body {
		col, ok := repository.UpdatableColumn(field)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("field %q cannot be updated", field)})
		}
		columns = append(columns, col)
	}
	sort.Strings(columns) // deterministic apply order

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Same-value updates report zero affected rows, so absence is checked
	// once here instead of per column.
	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	for _, col := range columns {
		if err := h.Users.UpdateField(ctx, id, col, body[col]); err != nil {
			switch {
			case errors.Is(err, repository.ErrEmailExists):
				return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
			case errors.Is(err, repository.ErrUserNotFound):
				// Zero rows because the new value equals the old one.
				continue
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
			}
		}
	}
	return c.NoContent(http.StatusNoContent)
}
