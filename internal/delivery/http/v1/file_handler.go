package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"smartcareer-backend/pkg/apperror"
	"smartcareer-backend/pkg/storage"
)

type FileHandler struct {
	store storage.Getter
}

// NewFileHandler serves objects from the in-process store.
func NewFileHandler(r *gin.RouterGroup, store storage.Getter) {
	handler := &FileHandler{store: store}
	r.GET("/files/*key", handler.Get)
}

// Get godoc
// @Summary      Download a stored file
// @Tags         files
// @Param        key  path  string  true  "Object key"
// @Success      200
// @Failure      404  {object}  response.Response
// @Router       /files/{key} [get]
func (h *FileHandler) Get(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		_ = c.Error(apperror.NotFound("File not found"))
		return
	}
	obj, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			_ = c.Error(apperror.NotFound("File not found"))
			return
		}
		_ = c.Error(apperror.Internal(err))
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}
