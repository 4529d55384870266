package domain

import (
	"time"

	"github.com/wyfcoding/pkg/eventsourcing"
)

// Kafka 主题，每种事件一个主题。
const (
	TopicCustomerRegistered            = "customer.registered"
	TopicCustomerEmailChanged          = "customer.email_changed"
	TopicCustomerProfileUpdated        = "customer.profile_updated"
	TopicCustomerAddressAdded          = "customer.address_added"
	TopicCustomerAddressRemoved        = "customer.address_removed"
	TopicCustomerAddressPrimaryChanged = "customer.address_primary_changed"
	TopicCustomerLoyaltyChanged        = "customer.loyalty_changed"
)

// CustomerRegisteredEvent 客户注册事件
type CustomerRegisteredEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	CustomerID    string `json:"customer_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Time          int64  `json:"time"`
}

func (e *CustomerRegisteredEvent) EventType() string     { return "CustomerRegistered" }
func (e *CustomerRegisteredEvent) AggregateID() string   { return e.CustomerID }
func (e *CustomerRegisteredEvent) Version() int64        { return e.Ver }
func (e *CustomerRegisteredEvent) SetVersion(v int64)    { e.Ver = v }
func (e *CustomerRegisteredEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// CustomerEmailChangedEvent 邮箱变更事件
type CustomerEmailChangedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	CustomerID    string `json:"customer_id"`
	OldEmail      string `json:"old_email"`
	NewEmail      string `json:"new_email"`
	Time          int64  `json:"time"`
}

func (e *CustomerEmailChangedEvent) EventType() string     { return "CustomerEmailChanged" }
func (e *CustomerEmailChangedEvent) AggregateID() string   { return e.CustomerID }
func (e *CustomerEmailChangedEvent) Version() int64        { return e.Ver }
func (e *CustomerEmailChangedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *CustomerEmailChangedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// CustomerProfileUpdatedEvent 资料更新事件
type CustomerProfileUpdatedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	CustomerID    string `json:"customer_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Time          int64  `json:"time"`
}

func (e *CustomerProfileUpdatedEvent) EventType() string     { return "CustomerProfileUpdated" }
func (e *CustomerProfileUpdatedEvent) AggregateID() string   { return e.CustomerID }
func (e *CustomerProfileUpdatedEvent) Version() int64        { return e.Ver }
func (e *CustomerProfileUpdatedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *CustomerProfileUpdatedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// CustomerAddressAddedEvent 地址新增事件
type CustomerAddressAddedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	CustomerID    string `json:"customer_id"`
	AddressID     string `json:"address_id"`
	Primary       bool   `json:"primary"`
	Time          int64  `json:"time"`
}

func (e *CustomerAddressAddedEvent) EventType() string     { return "CustomerAddressAdded" }
func (e *CustomerAddressAddedEvent) AggregateID() string   { return e.CustomerID }
func (e *CustomerAddressAddedEvent) Version() int64        { return e.Ver }
func (e *CustomerAddressAddedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *CustomerAddressAddedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// CustomerAddressRemovedEvent 地址移除事件
type CustomerAddressRemovedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	CustomerID    string `json:"customer_id"`
	AddressID     string `json:"address_id"`
	Time          int64  `json:"time"`
}

func (e *CustomerAddressRemovedEvent) EventType() string     { return "CustomerAddressRemoved" }
func (e *CustomerAddressRemovedEvent) AggregateID() string   { return e.CustomerID }
func (e *CustomerAddressRemovedEvent) Version() int64        { return e.Ver }
func (e *CustomerAddressRemovedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *CustomerAddressRemovedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// CustomerAddressPrimaryChangedEvent 主地址切换事件
type CustomerAddressPrimaryChangedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	CustomerID    string `json:"customer_id"`
	AddressID     string `json:"address_id"`
	Time          int64  `json:"time"`
}

func (e *CustomerAddressPrimaryChangedEvent) EventType() string     { return "CustomerAddressPrimaryChanged" }
func (e *CustomerAddressPrimaryChangedEvent) AggregateID() string   { return e.CustomerID }
func (e *CustomerAddressPrimaryChangedEvent) Version() int64        { return e.Ver }
func (e *CustomerAddressPrimaryChangedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *CustomerAddressPrimaryChangedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// CustomerLoyaltyChangedEvent 积分变更事件，携带变更后的绝对值与等级。
type CustomerLoyaltyChangedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	CustomerID    string `json:"customer_id"`
	Delta         int    `json:"delta"`
	Points        int    `json:"points"`
	Tier          string `json:"tier"`
	Reason        string `json:"reason"`
	Time          int64  `json:"time"`
}

func (e *CustomerLoyaltyChangedEvent) EventType() string     { return "CustomerLoyaltyChanged" }
func (e *CustomerLoyaltyChangedEvent) AggregateID() string   { return e.CustomerID }
func (e *CustomerLoyaltyChangedEvent) Version() int64        { return e.Ver }
func (e *CustomerLoyaltyChangedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *CustomerLoyaltyChangedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// TopicFor 事件类型到 Kafka 主题的静态映射。
func TopicFor(event eventsourcing.DomainEvent) string {
	switch event.(type) {
	case *CustomerRegisteredEvent:
		return TopicCustomerRegistered
	case *CustomerEmailChangedEvent:
		return TopicCustomerEmailChanged
	case *CustomerProfileUpdatedEvent:
		return TopicCustomerProfileUpdated
	case *CustomerAddressAddedEvent:
		return TopicCustomerAddressAdded
	case *CustomerAddressRemovedEvent:
		return TopicCustomerAddressRemoved
	case *CustomerAddressPrimaryChangedEvent:
		return TopicCustomerAddressPrimaryChanged
	case *CustomerLoyaltyChangedEvent:
		return TopicCustomerLoyaltyChanged
	default:
		return ""
	}
}
