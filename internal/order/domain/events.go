package domain

import (
	"time"

	"github.com/wyfcoding/pkg/eventsourcing"
)

// Kafka 主题，每种事件一个主题。
const (
	TopicOrderCreated         = "order.created"
	TopicOrderItemAdded       = "order.item_added"
	TopicOrderItemRemoved     = "order.item_removed"
	TopicOrderItemQtyChanged  = "order.item_quantity_changed"
	TopicOrderConfirmed       = "order.confirmed"
	TopicOrderShipped         = "order.shipped"
	TopicOrderDelivered       = "order.delivered"
	TopicOrderCancelled       = "order.cancelled"
	TopicOrderPaymentAttached = "order.payment_attached"
)

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	OrderID       string `json:"order_id"`
	CustomerID    string `json:"customer_id"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
	ItemCount     int    `json:"item_count"`
	Time          int64  `json:"time"`
}

func (e *OrderCreatedEvent) EventType() string     { return "OrderCreated" }
func (e *OrderCreatedEvent) AggregateID() string   { return e.OrderID }
func (e *OrderCreatedEvent) Version() int64        { return e.Ver }
func (e *OrderCreatedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *OrderCreatedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// OrderItemAddedEvent 订单行新增事件，携带合并后的数量与最新总额。
type OrderItemAddedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	OrderID       string `json:"order_id"`
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
	Time          int64  `json:"time"`
}

func (e *OrderItemAddedEvent) EventType() string     { return "OrderItemAdded" }
func (e *OrderItemAddedEvent) AggregateID() string   { return e.OrderID }
func (e *OrderItemAddedEvent) Version() int64        { return e.Ver }
func (e *OrderItemAddedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *OrderItemAddedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// OrderItemRemovedEvent 订单行移除事件
type OrderItemRemovedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	OrderID       string `json:"order_id"`
	ProductID     string `json:"product_id"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
	Time          int64  `json:"time"`
}

func (e *OrderItemRemovedEvent) EventType() string     { return "OrderItemRemoved" }
func (e *OrderItemRemovedEvent) AggregateID() string   { return e.OrderID }
func (e *OrderItemRemovedEvent) Version() int64        { return e.Ver }
func (e *OrderItemRemovedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *OrderItemRemovedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// OrderItemQuantityChangedEvent 订单行数量调整事件
type OrderItemQuantityChangedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	OrderID       string `json:"order_id"`
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
	Time          int64  `json:"time"`
}

func (e *OrderItemQuantityChangedEvent) EventType() string     { return "OrderItemQuantityChanged" }
func (e *OrderItemQuantityChangedEvent) AggregateID() string   { return e.OrderID }
func (e *OrderItemQuantityChangedEvent) Version() int64        { return e.Ver }
func (e *OrderItemQuantityChangedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *OrderItemQuantityChangedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// OrderConfirmedEvent 订单确认事件
type OrderConfirmedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	OrderID       string `json:"order_id"`
	CustomerID    string `json:"customer_id"`
	Time          int64  `json:"time"`
}

func (e *OrderConfirmedEvent) EventType() string     { return "OrderConfirmed" }
func (e *OrderConfirmedEvent) AggregateID() string   { return e.OrderID }
func (e *OrderConfirmedEvent) Version() int64        { return e.Ver }
func (e *OrderConfirmedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *OrderConfirmedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// OrderShippedEvent 订单发货事件
type OrderShippedEvent struct {
	eventsourcing.BaseEvent
	EventID        string `json:"event_id"`
	SchemaVersion  int    `json:"schema_version"`
	OrderID        string `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
	Time           int64  `json:"time"`
}

func (e *OrderShippedEvent) EventType() string     { return "OrderShipped" }
func (e *OrderShippedEvent) AggregateID() string   { return e.OrderID }
func (e *OrderShippedEvent) Version() int64        { return e.Ver }
func (e *OrderShippedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *OrderShippedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// OrderDeliveredEvent 订单送达事件
type OrderDeliveredEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	OrderID       string `json:"order_id"`
	Time          int64  `json:"time"`
}

func (e *OrderDeliveredEvent) EventType() string     { return "OrderDelivered" }
func (e *OrderDeliveredEvent) AggregateID() string   { return e.OrderID }
func (e *OrderDeliveredEvent) Version() int64        { return e.Ver }
func (e *OrderDeliveredEvent) SetVersion(v int64)    { e.Ver = v }
func (e *OrderDeliveredEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// OrderCancelledEvent 订单取消事件
type OrderCancelledEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	OrderID       string `json:"order_id"`
	Reason        string `json:"reason"`
	Time          int64  `json:"time"`
}

func (e *OrderCancelledEvent) EventType() string     { return "OrderCancelled" }
func (e *OrderCancelledEvent) AggregateID() string   { return e.OrderID }
func (e *OrderCancelledEvent) Version() int64        { return e.Ver }
func (e *OrderCancelledEvent) SetVersion(v int64)    { e.Ver = v }
func (e *OrderCancelledEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// OrderPaymentAttachedEvent 支付附加事件
type OrderPaymentAttachedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	OrderID       string `json:"order_id"`
	PaymentID     string `json:"payment_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Method        string `json:"method"`
	Time          int64  `json:"time"`
}

func (e *OrderPaymentAttachedEvent) EventType() string     { return "OrderPaymentAttached" }
func (e *OrderPaymentAttachedEvent) AggregateID() string   { return e.OrderID }
func (e *OrderPaymentAttachedEvent) Version() int64        { return e.Ver }
func (e *OrderPaymentAttachedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *OrderPaymentAttachedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// TopicFor 事件类型到 Kafka 主题的静态映射。
func TopicFor(event eventsourcing.DomainEvent) string {
	switch event.(type) {
	case *OrderCreatedEvent:
		return TopicOrderCreated
	case *OrderItemAddedEvent:
		return TopicOrderItemAdded
	case *OrderItemRemovedEvent:
		return TopicOrderItemRemoved
	case *OrderItemQuantityChangedEvent:
		return TopicOrderItemQtyChanged
	case *OrderConfirmedEvent:
		return TopicOrderConfirmed
	case *OrderShippedEvent:
		return TopicOrderShipped
	case *OrderDeliveredEvent:
		return TopicOrderDelivered
	case *OrderCancelledEvent:
		return TopicOrderCancelled
	case *OrderPaymentAttachedEvent:
		return TopicOrderPaymentAttached
	default:
		return ""
	}
}
