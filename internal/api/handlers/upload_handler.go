// server/internal/api/handlers/upload_handler.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"garage-ops-api-server/internal/models"
	"garage-ops-api-server/internal/s3"
	"garage-ops-api-server/internal/workorder"

	"github.com/gin-gonic/gin"
)

// UploadHandler accepts a multipart file, pushes it to object storage and
// returns the media pointer the caller attaches to an entity. Entities only
// ever reference acknowledged uploads.
type UploadHandler struct {
	Uploader *s3.Uploader
}

func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, KindValidation, "A file is required")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := s3.ValidateUpload(contentType, fileHeader.Size); err != nil {
		switch {
		case errors.Is(err, s3.ErrTooLarge):
			respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		case errors.Is(err, s3.ErrUnsupportedType):
			respondError(c, http.StatusBadRequest, KindValidation, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, KindDependency, "Upload validation failed")
		}
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	mediaID := workorder.NewID("med")
	objectKey := fmt.Sprintf("uploads/%s%s", mediaID, filepath.Ext(fileHeader.Filename))
	url, err := h.Uploader.UploadFile(context.Background(), file, objectKey, contentType)
	if err != nil {
		respondError(c, http.StatusInternalServerError, KindDependency, "Failed to store uploaded file")
		return
	}

	c.JSON(http.StatusCreated, models.MediaPointer{
		ID:       mediaID,
		URL:      url,
		FileName: fileHeader.Filename,
		FileType: contentType,
	})
}
