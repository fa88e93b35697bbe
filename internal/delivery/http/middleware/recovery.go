package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"smartcareer-backend/internal/delivery/http/response"
	"smartcareer-backend/pkg/i18n"
	"smartcareer-backend/pkg/logger"
)

// Recovery turns panics into the generic 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Log.Error("Panic recovered",
					"panic", rec,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(response.RequestIDKey),
					"stack", string(debug.Stack()),
				)
				response.Abort(c, http.StatusInternalServerError, Text(c, i18n.InternalError))
			}
		}()
		c.Next()
	}
}
