package response

import (
	"errors"
	"net/http"

	"storefront-backend/internal/shared/apperror"
	"storefront-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Response là envelope chung cho mọi API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Meta - phân trang
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Success responses
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, message string, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error responses
// detail được đặt vào error.details (có thể nil)
func Error(c *gin.Context, statusCode int, message string, detail interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Error: &ErrorBody{
			Code:    codeForStatus(statusCode),
			Message: message,
			Details: detail,
		},
	})
}

func ErrorWithCode(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError map error từ service layer sang HTTP response:
//   - validation.Errors (ozzo) → 422 kèm lỗi từng field
//   - *apperror.AppError → status theo Kind, message nguyên văn
//   - còn lại → 500, message chung, lỗi gốc chỉ được log
func FromError(c *gin.Context, err error) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		ErrorWithCode(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "The given data was invalid.", vErrs)
		return
	}

	if appErr := apperror.As(err); appErr != nil {
		status := apperror.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed: "+appErr.Code, err)
			ErrorWithCode(c, status, appErr.Code, "Internal server error", nil)
			return
		}
		ErrorWithCode(c, status, appErr.Code, appErr.Message, nil)
		return
	}

	logger.Error("Unhandled error", err)
	InternalServerError(c, "Internal server error")
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func NotFound(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func MethodNotAllowed(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", message, nil)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message, nil)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
