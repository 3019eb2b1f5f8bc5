package handler

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

type fileOpener interface {
	Open(token string) (*os.File, string, error)
}

// FileHandler serves objects kept by the local store through signed tokens.
type FileHandler struct {
	store fileOpener
}

// NewFileHandler constructs the handler.
func NewFileHandler(store fileOpener) *FileHandler {
	return &FileHandler{store: store}
}

// Download godoc
// @Summary Download stored file
// @Tags Files
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /files/{token} [get]
func (h *FileHandler) Download(c *gin.Context) {
	file, key, err := h.store.Open(c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrObjectNotFound):
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
		case errors.Is(err, storage.ErrTokenExpired), errors.Is(err, storage.ErrInvalidToken):
			response.Error(c, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "download link is invalid or expired"))
		default:
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		}
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read file"))
		return
	}
	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read file"))
		return
	}

	c.Header("Cache-Control", "private, max-age=0")
	c.DataFromReader(http.StatusOK, info.Size(), storage.DetectContentType(head[:n]), file, map[string]string{
		"Content-Disposition": `inline; filename="` + path.Base(key) + `"`,
	})
}
