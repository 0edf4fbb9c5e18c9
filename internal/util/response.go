package util

import (
	"errors"
	"mcq_quiz_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 错误响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	Error(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// HandleError 将业务错误分类映射为状态码，未分类错误记录日志并返回 500
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		NotFound(c, Detail(err, ErrNotFound))
	case errors.Is(err, ErrTokenExpired):
		Unauthorized(c, "Token has expired. Please log in again.")
	case errors.Is(err, ErrUnauthorized):
		Unauthorized(c, "Could not validate credentials")
	case errors.Is(err, ErrForbidden):
		Forbidden(c, Detail(err, ErrForbidden))
	case errors.Is(err, ErrConflict):
		Error(c, http.StatusConflict, Detail(err, ErrConflict))
	case errors.Is(err, ErrValidation):
		BadRequest(c, Detail(err, ErrValidation))
	default:
		LogInternalError(c, err)
	}
}
