// Package consumer 订阅客户领域事件，驱动读模型投影与缓存失效。
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/wyfcoding/ecommerce/internal/customer/application"
	"github.com/wyfcoding/ecommerce/internal/customer/domain"
)

// CustomerProjectionHandler 消费客户事件并重建读模型。
// 所有客户事件都触发整体重建，天然幂等，乱序与重复投递均可容忍。
type CustomerProjectionHandler struct {
	projector *application.CustomerProjectionService
	logger    *slog.Logger
}

// NewCustomerProjectionHandler 创建投影处理器。
func NewCustomerProjectionHandler(projector *application.CustomerProjectionService, logger *slog.Logger) *CustomerProjectionHandler {
	return &CustomerProjectionHandler{projector: projector, logger: logger}
}

// Handle 处理一条客户事件消息。
func (h *CustomerProjectionHandler) Handle(ctx context.Context, msg kafkago.Message) error {
	switch msg.Topic {
	case domain.TopicCustomerRegistered,
		domain.TopicCustomerEmailChanged,
		domain.TopicCustomerProfileUpdated,
		domain.TopicCustomerAddressAdded,
		domain.TopicCustomerAddressRemoved,
		domain.TopicCustomerAddressPrimaryChanged,
		domain.TopicCustomerLoyaltyChanged:
	default:
		h.logger.WarnContext(ctx, "unexpected topic for customer projection", "topic", msg.Topic)
		return nil
	}

	var envelope struct {
		CustomerID string `json:"customer_id"`
	}
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		return fmt.Errorf("decode message from %s: %w", msg.Topic, err)
	}
	if envelope.CustomerID == "" {
		h.logger.WarnContext(ctx, "customer event without customer_id skipped", "topic", msg.Topic)
		return nil
	}

	return h.projector.Refresh(ctx, envelope.CustomerID)
}
