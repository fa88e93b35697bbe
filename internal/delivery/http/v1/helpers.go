package v1

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/apperror"
)

func currentUserID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}

// bindJSON binds and validates the body. Validation errors are passed on
// as-is so the error middleware can label the fields.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var validationErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &validationErrs):
		_ = c.Error(err)
	case errors.Is(err, io.EOF):
		_ = c.Error(apperror.BadRequest("Request body is required"))
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		_ = c.Error(apperror.BadRequest("Invalid request body"))
	default:
		_ = c.Error(apperror.BadRequest(err.Error()))
	}
	return false
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(apperror.BadRequest("Invalid " + name))
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		_ = c.Error(apperror.BadRequest("Invalid " + name))
		return 0, false
	}
	return n, true
}

func tokenExpiry(c *gin.Context) time.Time {
	if v, ok := c.Get(string(domain.KeyTokenExpiry)); ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Now().Add(24 * time.Hour)
}

// readUpload reads a multipart file field up to max bytes.
func readUpload(c *gin.Context, field string, max int64) (string, []byte, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		_ = c.Error(apperror.BadRequest("File field '" + field + "' is required"))
		return "", nil, false
	}
	if max > 0 && fh.Size > max {
		_ = c.Error(apperror.BadRequest("File is too large"))
		return "", nil, false
	}
	f, err := fh.Open()
	if err != nil {
		_ = c.Error(apperror.Internal(err))
		return "", nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, fh.Size+1))
	if err != nil {
		_ = c.Error(apperror.Internal(err))
		return "", nil, false
	}
	return fh.Filename, data, true
}

