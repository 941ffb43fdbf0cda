package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不直接暴露HTTP状态码）
// 2. Message是可以直接展示给用户的提示
// 3. Err是内部错误，只写日志，不返回给客户端
// 4. Fields记录表单校验失败的字段名（可选）
type AppError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
	Err     error    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，便于errors.Is(err, ErrBookNotFound)
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（网络错误、序列化错误等）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// WithCause 以同样的错误码和提示包装一个底层错误
// 预定义错误是共享变量，不能直接修改其Err字段
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Fields:  e.Fields,
		Err:     err,
	}
}

// WithFields 附带校验失败的字段
func (e *AppError) WithFields(fields ...string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Fields:  append([]string(nil), fields...),
		Err:     e.Err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、资源不存在）
// - 5xxxx: 服务端错误（远端图书服务异常）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal          = 50000 // 内部错误
	ErrCodeRedisError        = 50002 // Redis错误
	ErrCodeRemoteError       = 50003 // 远端接口调用失败
	ErrCodeRemoteUnavailable = 50004 // 远端接口熔断中

	// 资源错误（40400-40499）
	ErrCodeNotFound     = 40400 // 资源不存在(通用)
	ErrCodeBookNotFound = 40402 // 图书不存在

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误
// =========================================

var (
	ErrInternal          = New(ErrCodeInternal, "Internal error")
	ErrRedisError        = New(ErrCodeRedisError, "Cache service error")
	ErrRemoteError       = New(ErrCodeRemoteError, "Book service request failed")
	ErrRemoteUnavailable = New(ErrCodeRemoteUnavailable, "Book service temporarily unavailable")

	ErrNotFound     = New(ErrCodeNotFound, "Not found")
	ErrBookNotFound = New(ErrCodeBookNotFound, "Book not found")

	ErrInvalidParams = New(ErrCodeInvalidParams, "Please fill in all required fields")
	ErrBindError     = New(ErrCodeBindError, "Malformed request")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal error")
}

// HasCode 判断错误链上是否存在指定错误码
func HasCode(err error, code int) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}
