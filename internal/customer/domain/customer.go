// Package domain 包含客户服务的领域模型。
// Customer 为聚合根，地址集合随聚合一起读写，
// 忠诚度等级由积分派生，不单独存储状态。
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/pkg/eventsourcing"

	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

const eventSchemaVersion = 1

// LoyaltyTier 忠诚度等级。
type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "BRONZE"
	TierSilver   LoyaltyTier = "SILVER"
	TierGold     LoyaltyTier = "GOLD"
	TierPlatinum LoyaltyTier = "PLATINUM"
)

// TierFor 按积分派生等级。
func TierFor(points int) LoyaltyTier {
	switch {
	case points >= 20000:
		return TierPlatinum
	case points >= 5000:
		return TierGold
	case points >= 1000:
		return TierSilver
	default:
		return TierBronze
	}
}

// Address 客户地址，属于 Customer 聚合内部实体。
// 存在地址时必须恰好有一个主地址。
type Address struct {
	AddressID  string `json:"address_id"`
	Label      string `json:"label"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Primary    bool   `json:"primary"`
}

// Customer 客户聚合根
type Customer struct {
	eventsourcing.AggregateRoot
	ID            uint              `json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	CustomerID    string            `json:"customer_id"`
	Name          string            `json:"name"`
	Email         vo.Email          `json:"email"`
	Phone         vo.Phone          `json:"phone"`
	Preferences   map[string]string `json:"preferences"`
	LoyaltyPoints int               `json:"loyalty_points"`
	Addresses     []Address         `json:"addresses"`
}

// NewCustomer 注册客户。
func NewCustomer(customerID, name string, email vo.Email, phone vo.Phone) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	now := time.Now()
	c := &Customer{
		CustomerID:  customerID,
		Name:        strings.TrimSpace(name),
		Email:       email,
		Phone:       phone,
		Preferences: make(map[string]string),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	c.ApplyChange(&CustomerRegisteredEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		CustomerID:    c.CustomerID,
		Name:          c.Name,
		Email:         c.Email.String(),
		Time:          now.Unix(),
	})
	return c, nil
}

// Tier 当前忠诚度等级。
func (c *Customer) Tier() LoyaltyTier {
	return TierFor(c.LoyaltyPoints)
}

// ChangeEmail 变更邮箱。邮箱全局唯一性由应用层在事务内校验。
func (c *Customer) ChangeEmail(newEmail vo.Email) error {
	if newEmail.String() == c.Email.String() {
		return nil
	}
	old := c.Email
	c.Email = newEmail
	c.touch()

	c.ApplyChange(&CustomerEmailChangedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		CustomerID:    c.CustomerID,
		OldEmail:      old.String(),
		NewEmail:      newEmail.String(),
		Time:          c.UpdatedAt.Unix(),
	})
	return nil
}

// UpdateProfile 更新姓名、电话与偏好设置。
func (c *Customer) UpdateProfile(name string, phone vo.Phone, preferences map[string]string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	c.Name = strings.TrimSpace(name)
	c.Phone = phone
	if preferences != nil {
		c.Preferences = preferences
	}
	c.touch()

	c.ApplyChange(&CustomerProfileUpdatedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		CustomerID:    c.CustomerID,
		Name:          c.Name,
		Phone:         c.Phone.String(),
		Time:          c.UpdatedAt.Unix(),
	})
	return nil
}

// AddAddress 添加地址。第一条地址自动成为主地址；
// 显式标记主地址时原主地址退位，保证主地址恰好一个。
func (c *Customer) AddAddress(address Address) error {
	if strings.TrimSpace(address.Street) == "" {
		return &ValidationError{Field: "street", Reason: "must not be empty"}
	}
	if strings.TrimSpace(address.Country) == "" {
		return &ValidationError{Field: "country", Reason: "must not be empty"}
	}

	if len(c.Addresses) == 0 {
		address.Primary = true
	} else if address.Primary {
		for i := range c.Addresses {
			c.Addresses[i].Primary = false
		}
	}
	c.Addresses = append(c.Addresses, address)
	c.touch()

	c.ApplyChange(&CustomerAddressAddedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		CustomerID:    c.CustomerID,
		AddressID:     address.AddressID,
		Primary:       address.Primary,
		Time:          c.UpdatedAt.Unix(),
	})
	return nil
}

// RemoveAddress 移除地址。移除主地址后若仍有地址，提升第一条为主地址。
func (c *Customer) RemoveAddress(addressID string) error {
	for i := range c.Addresses {
		if c.Addresses[i].AddressID != addressID {
			continue
		}
		wasPrimary := c.Addresses[i].Primary
		c.Addresses = append(c.Addresses[:i], c.Addresses[i+1:]...)
		if wasPrimary && len(c.Addresses) > 0 {
			c.Addresses[0].Primary = true
		}
		c.touch()

		c.ApplyChange(&CustomerAddressRemovedEvent{
			EventID:       uuid.NewString(),
			SchemaVersion: eventSchemaVersion,
			CustomerID:    c.CustomerID,
			AddressID:     addressID,
			Time:          c.UpdatedAt.Unix(),
		})
		return nil
	}
	return ErrAddressNotFound
}

// SetPrimaryAddress 切换主地址，目标已是主地址时不产生事件。
func (c *Customer) SetPrimaryAddress(addressID string) error {
	var target *Address
	for i := range c.Addresses {
		if c.Addresses[i].AddressID == addressID {
			target = &c.Addresses[i]
		}
	}
	if target == nil {
		return ErrAddressNotFound
	}
	if target.Primary {
		return nil
	}
	for i := range c.Addresses {
		c.Addresses[i].Primary = c.Addresses[i].AddressID == addressID
	}
	c.touch()

	c.ApplyChange(&CustomerAddressPrimaryChangedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		CustomerID:    c.CustomerID,
		AddressID:     addressID,
		Time:          c.UpdatedAt.Unix(),
	})
	return nil
}

// PrimaryAddress 返回主地址，无地址时返回 nil。
func (c *Customer) PrimaryAddress() *Address {
	for i := range c.Addresses {
		if c.Addresses[i].Primary {
			return &c.Addresses[i]
		}
	}
	return nil
}

// AddLoyaltyPoints 增加积分，delta 必须为正。
func (c *Customer) AddLoyaltyPoints(delta int, reason string) error {
	if delta <= 0 {
		return &ValidationError{Field: "points", Reason: "must be positive"}
	}
	c.LoyaltyPoints += delta
	c.touch()
	c.applyLoyaltyChanged(delta, reason)
	return nil
}

// RedeemLoyaltyPoints 扣减积分，不可将积分扣为负数。
func (c *Customer) RedeemLoyaltyPoints(delta int, reason string) error {
	if delta <= 0 {
		return &ValidationError{Field: "points", Reason: "must be positive"}
	}
	if delta > c.LoyaltyPoints {
		return &InsufficientPointsError{Available: c.LoyaltyPoints, Requested: delta}
	}
	c.LoyaltyPoints -= delta
	c.touch()
	c.applyLoyaltyChanged(-delta, reason)
	return nil
}

func (c *Customer) applyLoyaltyChanged(delta int, reason string) {
	c.ApplyChange(&CustomerLoyaltyChangedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		CustomerID:    c.CustomerID,
		Delta:         delta,
		Points:        c.LoyaltyPoints,
		Tier:          string(c.Tier()),
		Reason:        reason,
		Time:          c.UpdatedAt.Unix(),
	})
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now()
}
