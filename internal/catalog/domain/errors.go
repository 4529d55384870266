package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound 商品不存在。
	ErrProductNotFound = errors.New("product not found")
	// ErrReviewNotFound 评论不存在。
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateSKU SKU 已被占用。
	ErrDuplicateSKU = errors.New("sku already in use")
	// ErrDuplicateReview 每位客户对同一商品至多一条评论。
	ErrDuplicateReview = errors.New("customer already reviewed this product")
	// ErrProductDiscontinued 商品已下架，拒绝一切变更。
	ErrProductDiscontinued = errors.New("product is discontinued")
)

// InsufficientStockError 库存不足，扣减被拒绝。
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: have %d, requested %d", e.ProductID, e.Available, e.Requested)
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
