package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
)

type HTTPError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Error: message,
		Code:  code,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Respond maps any error returned by a use case onto the HTTP contract.
func Respond(c *gin.Context, err error) {
	err = TranslateUnique(err)

	var be BusinessError
	if errors.As(err, &be) {
		message := be.Message
		if message == "" {
			message = be.Code
		}
		body := gin.H{"error": message, "code": be.Code}
		for k, v := range be.Extra {
			body[k] = v
		}
		c.AbortWithStatusJSON(be.HTTPStatus(), body)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "not_found", "Không tìm thấy dữ liệu.")
		return
	}

	logger.FromContext(c.Request.Context()).Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("unexpected error")

	Internal(c, "internal_error", "Đã có lỗi xảy ra, vui lòng thử lại sau.")
}
