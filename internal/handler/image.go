package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/planora/planora-api/internal/storage"
)

// ImageHandler stores and serves profile images. One image per user,
// keyed "{userID}.jpg"; uploading replaces the previous one.
type ImageHandler struct {
	Blobs storage.BlobStore
}

func NewImageHandler(blobs storage.BlobStore) *ImageHandler {
	return &ImageHandler{Blobs: blobs}
}

// Upload handles POST /v1/users/:id/image with a multipart "image" part.
func (h *ImageHandler) Upload(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read image"})
	}
	defer src.Close()

	if err := h.Blobs.Put(imageKey(userID), src, "image/jpeg"); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store image"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "image uploaded"})
}

// Download handles GET /v1/users/:id/image, streaming the JPEG or
// answering an empty 204 when the user has no image.
func (h *ImageHandler) Download(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rc, err := h.Blobs.Get(imageKey(userID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.NoContent(http.StatusNoContent)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not read image"})
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, "image/jpeg", rc)
}

func imageKey(userID uint64) string {
	return fmt.Sprintf("%d.jpg", userID)
}
