package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound 订单不存在。
	ErrOrderNotFound = errors.New("order not found")
	// ErrItemNotFound 订单行不存在。
	ErrItemNotFound = errors.New("order item not found")
	// ErrOrderEmpty 订单必须至少包含一个订单行。
	ErrOrderEmpty = errors.New("order must contain at least one item")
	// ErrPaymentAlreadyAttached 订单已有支付记录，支付只允许附加一次。
	ErrPaymentAlreadyAttached = errors.New("payment already attached")
)

// StateConflictError 非法状态迁移。
type StateConflictError struct {
	Current Status
	Action  string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s order in status %s", e.Action, e.Current)
}

// PaymentMismatchError 支付金额与订单总额不符。
type PaymentMismatchError struct {
	Expected string
	Actual   string
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("payment amount %s does not match order total %s", e.Actual, e.Expected)
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
