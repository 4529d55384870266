// Package vo 提供跨上下文共享的值对象（金额、邮箱、电话）。
// 值对象不可变、自校验，构造失败即返回校验错误。
package vo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount   = errors.New("amount must not be negative")
	ErrInvalidCurrency  = errors.New("currency must be a 3-letter ISO code")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Money 金额值对象
// 金额使用 decimal 避免浮点误差，币种为 ISO 4217 三位代码。
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney 创建金额，金额不允许为负。
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return Money{}, ErrInvalidCurrency
		}
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// NewMoneyFromString 从十进制字符串创建金额。
func NewMoneyFromString(amount string, currency string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return NewMoney(d, currency)
}

// MustMoney 创建金额，非法输入直接 panic，仅用于常量与测试。
func MustMoney(amount string, currency string) Money {
	m, err := NewMoneyFromString(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero 返回指定币种的零值金额。
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: strings.ToUpper(strings.TrimSpace(currency))}
}

// Add 同币种相加。
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub 同币种相减，结果允许为负（由调用方裁决业务合法性）。
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// MulInt 金额乘以整数数量。
func (m Money) MulInt(qty int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(qty))), Currency: m.Currency}
}

// Equal 金额与币种均相等。
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// IsPositive 金额大于零。
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }

// IsZero 金额为零。
func (m Money) IsZero() bool { return m.Amount.IsZero() }

// IsNegative 金额小于零。
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// LessThan 同币种比较，币种不同时返回 false。
func (m Money) LessThan(other Money) bool {
	return m.Currency == other.Currency && m.Amount.LessThan(other.Amount)
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}
