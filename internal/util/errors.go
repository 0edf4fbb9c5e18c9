package util

import (
	"errors"
	"fmt"
)

// 业务错误分类，服务层通过 fmt.Errorf("%w: ...") 包装，控制器统一映射为 HTTP 状态码
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("could not validate credentials")
	ErrTokenExpired = errors.New("token has expired, please log in again")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrInternal     = errors.New("internal error")
)

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Internal 包装未预期的存储错误，原始错误仍可通过 errors.Is/As 取得
func Internal(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, msg, err)
}

// Detail 返回去掉分类前缀后的错误描述，用于响应体
func Detail(err error, kind error) string {
	msg := err.Error()
	prefix := kind.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
