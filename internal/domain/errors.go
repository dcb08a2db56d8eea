package domain

import (
	"errors"
	"fmt"
)

// 预定义的领域错误
var (
	// ErrInvalidInput 无效的输入
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("resource not found")
	// ErrUpstream 上游服务（LLM 网关或数据源）失败
	ErrUpstream = errors.New("upstream failure")
	// ErrInternal 内部错误
	ErrInternal = errors.New("internal error")
)

// DomainError 领域错误，携带对外安全的描述
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error 实现 error 接口（用于日志与内部传递）
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage 返回用户友好的错误消息（不含内部细节）
func (e *DomainError) UserMessage() string {
	return e.Message
}

// Unwrap 返回包装的错误
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewInvalidInputError 创建无效输入错误
func NewInvalidInputError(message string) error {
	return &DomainError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// NewUpstreamError 创建上游失败错误
func NewUpstreamError(service string, err error) error {
	return &DomainError{
		Code:    "UPSTREAM_ERROR",
		Message: fmt.Sprintf("%s is unavailable", service),
		Err:     fmt.Errorf("%w: %v", ErrUpstream, err),
	}
}

// NewInternalError 创建内部错误（不暴露细节）
func NewInternalError(err error) error {
	return &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Err:     fmt.Errorf("%w: %v", ErrInternal, err),
	}
}

// IsInvalidInput 判断是否为无效输入错误
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound 判断是否为资源不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUpstream 判断是否为上游失败
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}
