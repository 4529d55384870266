package domain

import (
	"context"

	"github.com/wyfcoding/pkg/eventsourcing"

	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
)

// OrderRepository 订单写仓储接口。
type OrderRepository interface {
	GetByID(ctx context.Context, orderID string) (*Order, error)
	GetByCustomerID(ctx context.Context, customerID string, limit, offset int) ([]*Order, error)
	GetAll(ctx context.Context, limit, offset int) ([]*Order, error)
	Add(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, orderID string) error
	Exists(ctx context.Context, orderID string) (bool, error)
	Find(ctx context.Context, spec *persistence.Specification) ([]*Order, error)
	FindSingle(ctx context.Context, spec *persistence.Specification) (*Order, error)
	Count(ctx context.Context, spec *persistence.Specification) (int64, error)
}

// EventStore 领域事件存储接口，事件与聚合在同一事务中落库。
type EventStore interface {
	Save(ctx context.Context, aggregateID string, events []eventsourcing.DomainEvent, expectedVersion int64) error
	Load(ctx context.Context, aggregateID string) ([]eventsourcing.DomainEvent, error)
}

// EventPublisher 集成事件发布接口（Outbox 模式）。
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}

// OrderItemDocument 订单行读模型。
type OrderItemDocument struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Discount    string `json:"discount"`
	Subtotal    string `json:"subtotal"`
}

// OrderDocument 订单读模型文档，由投影服务维护。
type OrderDocument struct {
	OrderID         string              `json:"order_id"`
	CustomerID      string              `json:"customer_id"`
	Status          string              `json:"status"`
	Total           string              `json:"total"`
	TotalValue      float64             `json:"total_value"`
	Currency        string              `json:"currency"`
	ItemCount       int                 `json:"item_count"`
	Items           []OrderItemDocument `json:"items"`
	Paid            bool                `json:"paid"`
	TrackingNumber  string              `json:"tracking_number,omitempty"`
	Carrier         string              `json:"carrier,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	ShippingAddress string              `json:"shipping_address"`
	CreatedAt       int64               `json:"created_at"`
	UpdatedAt       int64               `json:"updated_at"`
}

// NewOrderDocument 由聚合当前状态构建读模型文档。
func NewOrderDocument(o *Order) *OrderDocument {
	total := o.TotalAmount()
	doc := &OrderDocument{
		OrderID:         o.OrderID,
		CustomerID:      o.CustomerID,
		Status:          string(o.Status),
		Total:           total.Amount.String(),
		TotalValue:      total.Amount.InexactFloat64(),
		Currency:        total.Currency,
		ItemCount:       len(o.Items),
		Paid:            o.Payment != nil,
		TrackingNumber:  o.TrackingNumber,
		Carrier:         o.Carrier,
		CancelReason:    o.CancelReason,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt.Unix(),
		UpdatedAt:       o.UpdatedAt.Unix(),
	}
	for _, item := range o.Items {
		doc.Items = append(doc.Items, OrderItemDocument{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Amount.String(),
			Discount:    item.Discount.Amount.String(),
			Subtotal:    item.Subtotal().Amount.String(),
		})
	}
	return doc
}

// OrderReadRepository 订单点查读仓储（Redis）。
type OrderReadRepository interface {
	Save(ctx context.Context, doc *OrderDocument) error
	Get(ctx context.Context, orderID string) (*OrderDocument, error)
	Delete(ctx context.Context, orderID string) error
}

// OrderSearchQuery 订单检索条件。
type OrderSearchQuery struct {
	CustomerID string
	Status     string
	Page       int
	Size       int
}

// OrderSearchRepository 订单历史检索仓储（Elasticsearch）。
type OrderSearchRepository interface {
	Index(ctx context.Context, doc *OrderDocument) error
	Get(ctx context.Context, orderID string) (*OrderDocument, error)
	Search(ctx context.Context, query *OrderSearchQuery) ([]*OrderDocument, int64, error)
	Delete(ctx context.Context, orderID string) error
}
