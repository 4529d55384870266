package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCustomerNotFound 客户不存在。
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrDuplicateEmail 邮箱已被其他客户使用。
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrAddressNotFound 地址不存在。
	ErrAddressNotFound = errors.New("address not found")
)

// InsufficientPointsError 积分不足。
type InsufficientPointsError struct {
	Available int
	Requested int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient loyalty points: available %d, requested %d", e.Available, e.Requested)
}

// ValidationError 输入校验失败。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation 判断是否为校验类错误。
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
