package vo

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidPhone = errors.New("invalid phone number")
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// Email 邮箱值对象，统一转为小写保存。
type Email struct {
	value string
}

// NewEmail 校验并创建邮箱。
func NewEmail(raw string) (Email, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(raw) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: raw}, nil
}

// MustEmail 从可信存储还原邮箱，跳过校验。仅用于仓储反序列化与测试。
func MustEmail(raw string) Email {
	return Email{value: strings.ToLower(strings.TrimSpace(raw))}
}

func (e Email) String() string { return e.value }

// IsZero 未设置。
func (e Email) IsZero() bool { return e.value == "" }

// Phone 电话值对象，E.164 风格，允许为空（可选字段）。
type Phone struct {
	value string
}

// NewPhone 校验并创建电话，空串表示未填写。
func NewPhone(raw string) (Phone, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, " ", ""))
	if raw == "" {
		return Phone{}, nil
	}
	if !phonePattern.MatchString(raw) {
		return Phone{}, ErrInvalidPhone
	}
	return Phone{value: raw}, nil
}

// MustPhone 从可信存储还原电话，跳过校验。仅用于仓储反序列化与测试。
func MustPhone(raw string) Phone {
	return Phone{value: strings.TrimSpace(raw)}
}

func (p Phone) String() string { return p.value }

func (p Phone) IsZero() bool { return p.value == "" }
