package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"smartcareer-backend/internal/delivery/http/response"
	"smartcareer-backend/pkg/apperror"
	"smartcareer-backend/pkg/i18n"
	"smartcareer-backend/pkg/logger"
	"smartcareer-backend/pkg/validation"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		var validationErrs validator.ValidationErrors
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError

		switch {
		case errors.As(err, &appErr):
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Internal Server Error",
					"error", appErr.Err,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(response.RequestIDKey),
				)
				response.Error(c, appErr.Code, Text(c, i18n.InternalError))
				return
			}
			response.Error(c, appErr.Code, appErr.Message)
		case errors.As(err, &validationErrs):
			response.Error(c, http.StatusBadRequest, strings.Join(validation.FormatValidationErrors(err), "; "))
		case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			response.Error(c, http.StatusBadRequest, Text(c, i18n.ValidationError))
		default:
			// Never expose internal error details to clients.
			logger.Log.Error("Unhandled error",
				"error", err,
				"path", c.Request.URL.Path,
				"request_id", c.GetString(response.RequestIDKey),
			)
			response.Error(c, http.StatusInternalServerError, Text(c, i18n.InternalError))
		}
	}
}

// NoRoute answers unknown paths with the envelope.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, Text(c, i18n.RouteNotFound))
	}
}
