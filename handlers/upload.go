package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"arland/storage"
)

type UploadController struct {
	store *storage.ImageStore
}

func NewUploadController(store *storage.ImageStore) *UploadController {
	return &UploadController{store: store}
}

// UploadImage accepts one multipart image up to 10MB and returns its public
// URL for use in a listing's image list.
func (uc *UploadController) UploadImage(c echo.Context) error {
	if uc.store == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Image storage is not configured"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Image file is required"})
	}

	if file.Size > storage.MaxUploadSize {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Image exceeds the 10MB size limit"})
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Only image uploads are allowed"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read upload"})
	}
	defer src.Close()

	url, err := uc.store.UploadImage(c.Request().Context(), file.Filename, contentType, src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to upload image"})
	}

	return c.JSON(http.StatusCreated, map[string]string{"url": url})
}
