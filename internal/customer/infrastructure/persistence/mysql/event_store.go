package mysql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/eventsourcing"
	"gorm.io/gorm"

	"github.com/wyfcoding/ecommerce/internal/customer/domain"
)

// eventStore 客户领域事件存储，与聚合写入共享事务。
type eventStore struct {
	db *gorm.DB
}

// NewEventStore 创建事件存储。
func NewEventStore(db *gorm.DB) domain.EventStore {
	return &eventStore{db: db}
}

func (s *eventStore) Save(ctx context.Context, aggregateID string, events []eventsourcing.DomainEvent, expectedVersion int64) error {
	db := s.getDB(ctx)

	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}

		po := &EventPO{
			AggregateID: aggregateID,
			EventType:   event.EventType(),
			Payload:     string(payload),
			OccurredAt:  event.OccurredAt().UnixNano(),
		}

		if err := db.Create(po).Error; err != nil {
			return err
		}
	}
	return nil
}

// Load 按落库顺序重放聚合的全部事件。
func (s *eventStore) Load(ctx context.Context, aggregateID string) ([]eventsourcing.DomainEvent, error) {
	var pos []*EventPO
	if err := s.getDB(ctx).WithContext(ctx).
		Where("aggregate_id = ?", aggregateID).Order("id").Find(&pos).Error; err != nil {
		return nil, err
	}

	events := make([]eventsourcing.DomainEvent, 0, len(pos))
	for _, po := range pos {
		event, err := unmarshalEvent(po.EventType, []byte(po.Payload))
		if err != nil {
			return nil, fmt.Errorf("decode event %s/%d: %w", po.EventType, po.ID, err)
		}
		events = append(events, event)
	}
	return events, nil
}

func unmarshalEvent(eventType string, payload []byte) (eventsourcing.DomainEvent, error) {
	var event eventsourcing.DomainEvent
	switch eventType {
	case "CustomerRegistered":
		event = &domain.CustomerRegisteredEvent{}
	case "CustomerEmailChanged":
		event = &domain.CustomerEmailChangedEvent{}
	case "CustomerProfileUpdated":
		event = &domain.CustomerProfileUpdatedEvent{}
	case "CustomerAddressAdded":
		event = &domain.CustomerAddressAddedEvent{}
	case "CustomerAddressRemoved":
		event = &domain.CustomerAddressRemovedEvent{}
	case "CustomerAddressPrimaryChanged":
		event = &domain.CustomerAddressPrimaryChangedEvent{}
	case "CustomerLoyaltyChanged":
		event = &domain.CustomerLoyaltyChangedEvent{}
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventStore) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return s.db
}
