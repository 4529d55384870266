package domain

import (
	"context"

	"github.com/wyfcoding/pkg/eventsourcing"

	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
)

// CustomerRepository 客户写仓储接口。
type CustomerRepository interface {
	GetByID(ctx context.Context, customerID string) (*Customer, error)
	// GetByEmail 按邮箱查找，未找到返回 (nil, nil)，用于唯一性校验。
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	GetAll(ctx context.Context, limit, offset int) ([]*Customer, error)
	Add(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, customerID string) error
	Exists(ctx context.Context, customerID string) (bool, error)
	Find(ctx context.Context, spec *persistence.Specification) ([]*Customer, error)
	FindSingle(ctx context.Context, spec *persistence.Specification) (*Customer, error)
	Count(ctx context.Context, spec *persistence.Specification) (int64, error)
}

// EventStore 领域事件存储接口。
type EventStore interface {
	Save(ctx context.Context, aggregateID string, events []eventsourcing.DomainEvent, expectedVersion int64) error
	Load(ctx context.Context, aggregateID string) ([]eventsourcing.DomainEvent, error)
}

// EventPublisher 集成事件发布接口（Outbox 模式）。
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}

// CustomerDocument 客户读模型文档，存放于 Redis 供点查。
type CustomerDocument struct {
	CustomerID    string            `json:"customer_id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone,omitempty"`
	Preferences   map[string]string `json:"preferences,omitempty"`
	LoyaltyPoints int               `json:"loyalty_points"`
	LoyaltyTier   string            `json:"loyalty_tier"`
	Addresses     []Address         `json:"addresses,omitempty"`
	UpdatedAt     int64             `json:"updated_at"`
}

// NewCustomerDocument 由聚合当前状态构建读模型文档。
func NewCustomerDocument(c *Customer) *CustomerDocument {
	return &CustomerDocument{
		CustomerID:    c.CustomerID,
		Name:          c.Name,
		Email:         c.Email.String(),
		Phone:         c.Phone.String(),
		Preferences:   c.Preferences,
		LoyaltyPoints: c.LoyaltyPoints,
		LoyaltyTier:   string(c.Tier()),
		Addresses:     c.Addresses,
		UpdatedAt:     c.UpdatedAt.Unix(),
	}
}

// CustomerReadRepository 客户点查读仓储（Redis）。
type CustomerReadRepository interface {
	Save(ctx context.Context, doc *CustomerDocument) error
	Get(ctx context.Context, customerID string) (*CustomerDocument, error)
	Delete(ctx context.Context, customerID string) error
}
