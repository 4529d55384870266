// Package consumer 实现订单服务的 Kafka 消费者处理器。
package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/ecommerce/internal/order/application"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

// OrderProjectionHandler 订单读模型投影消费者。
// 所有订单事件载荷都携带 order_id，投影统一回源重建文档。
type OrderProjectionHandler struct {
	projector *application.OrderProjectionService
	logger    *slog.Logger
}

// NewOrderProjectionHandler 创建投影处理器。
func NewOrderProjectionHandler(projector *application.OrderProjectionService, logger *slog.Logger) *OrderProjectionHandler {
	return &OrderProjectionHandler{projector: projector, logger: logger}
}

// Handle 解析聚合 ID 并刷新读模型。
func (h *OrderProjectionHandler) Handle(ctx context.Context, msg kafka.Message) error {
	switch msg.Topic {
	case domain.TopicOrderCreated,
		domain.TopicOrderItemAdded,
		domain.TopicOrderItemRemoved,
		domain.TopicOrderItemQtyChanged,
		domain.TopicOrderConfirmed,
		domain.TopicOrderShipped,
		domain.TopicOrderDelivered,
		domain.TopicOrderCancelled,
		domain.TopicOrderPaymentAttached:
		var payload struct {
			OrderID string `json:"order_id"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			h.logger.ErrorContext(ctx, "failed to unmarshal order event",
				"topic", msg.Topic, "error", err)
			return err
		}
		if payload.OrderID == "" {
			return nil
		}
		return h.projector.Refresh(ctx, payload.OrderID)
	default:
		h.logger.WarnContext(ctx, "unknown order event topic", "topic", msg.Topic)
		return nil
	}
}
