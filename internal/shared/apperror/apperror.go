package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind phân loại lỗi để map sang HTTP status ở handler layer
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindUnauthorized
)

// AppError là base error cho tất cả domain
// Message được trả thẳng cho client, Err chỉ để log
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap allows error wrapping compatibility
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is so sánh theo Code để sentinel vẫn match sau khi Wrap
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap trả về bản copy của sentinel có gắn cause
func (e *AppError) Wrap(err error) *AppError {
	return &AppError{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

// ============================================
// CONSTRUCTORS
// ============================================

func NotFound(code, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message}
}

func Validation(code, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: message}
}

func Conflict(code, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

func Unauthorized(code, message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: code, Message: message}
}

func Internal(code, message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: code, Message: message, Err: err}
}

// ============================================
// HELPERS
// ============================================

// As lấy *AppError trong error chain (nil nếu không có)
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsNotFound(err error) bool {
	appErr := As(err)
	return appErr != nil && appErr.Kind == KindNotFound
}

func IsValidation(err error) bool {
	appErr := As(err)
	return appErr != nil && appErr.Kind == KindValidation
}

// HTTPStatus map error sang HTTP status code
func HTTPStatus(err error) int {
	appErr := As(err)
	if appErr == nil {
		return http.StatusInternalServerError
	}

	switch appErr.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
