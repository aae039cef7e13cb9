package domain

import "errors"

// 业务错误哨兵：handler 统一映射为 HTTP 状态码
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already exists")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError 带给用户看的具体文案，errors.Is 仍命中 ErrValidation
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }
func (e *ValidationError) Unwrap() error { return ErrValidation }

func Validation(msg string) error { return &ValidationError{msg: msg} }
