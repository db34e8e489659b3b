package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/error/code"
	Logger "vizinho-http-service/pkg/logger"
)

// Response is the envelope of every API reply
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 reply
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    code.ErrSuccess,
		Message: code.GetMessage(code.ErrSuccess),
		Data:    data,
	})
}

// Created writes a 201 reply
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    code.ErrSuccess,
		Message: code.GetMessage(code.ErrSuccess),
		Data:    data,
	})
}

// Fail writes the status and default message of errorCode
func Fail(c *gin.Context, errorCode int, data interface{}) {
	c.JSON(code.GetStatus(errorCode), Response{
		Code:    errorCode,
		Message: code.GetMessage(errorCode),
		Data:    data,
	})
}

// FailWithMessage is Fail with a custom message
func FailWithMessage(c *gin.Context, errorCode int, message string, data interface{}) {
	c.JSON(code.GetStatus(errorCode), Response{
		Code:    errorCode,
		Message: message,
		Data:    data,
	})
}

// ParamError rejects a malformed request
func ParamError(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrValidation)
	}
	FailWithMessage(c, code.ErrValidation, message, nil)
}

// ServerError writes a 500
func ServerError(c *gin.Context) {
	Fail(c, code.ErrUnknown, nil)
}

// NotFound writes a 404
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrNotFound)
	}
	FailWithMessage(c, code.ErrNotFound, message, nil)
}

// Unauthorized writes a 401
func Unauthorized(c *gin.Context) {
	Fail(c, code.ErrTokenInvalid, nil)
}

// Forbidden writes a 403
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = code.GetMessage(code.ErrPermissionDenied)
	}
	FailWithMessage(c, code.ErrPermissionDenied, message, nil)
}

// Error maps a service error onto its code. Domain errors keep their own
// message; anything else is logged and reported as an internal error.
func Error(c *gin.Context, err error) {
	errorCode := CodeOf(err)
	if errorCode == code.ErrUnknown {
		Logger.Error("request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		ServerError(c)
		return
	}

	var domainErr *models.DomainError
	if errors.As(err, &domainErr) {
		FailWithMessage(c, errorCode, domainErr.Message, nil)
		return
	}
	Fail(c, errorCode, nil)
}

// CodeOf returns the error code matching the kind of err
func CodeOf(err error) int {
	switch {
	case err == nil:
		return code.ErrSuccess
	case errors.Is(err, models.ErrValidation):
		return code.ErrValidation
	case errors.Is(err, models.ErrPermissionDenied):
		return code.ErrPermissionDenied
	case errors.Is(err, models.ErrNotFound):
		return code.ErrNotFound
	case errors.Is(err, models.ErrInvalidTransition):
		return code.ErrInvalidTransition
	case errors.Is(err, models.ErrStaleState):
		return code.ErrStaleState
	case errors.Is(err, models.ErrPaymentFailed):
		return code.ErrPaymentFailed
	}
	return code.ErrUnknown
}
