// Package consumer 实现商品目录的 Kafka 消费者处理器。
// 处理器返回错误时消息会被重新投递，处理逻辑需保证幂等。
package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/ecommerce/internal/catalog/application"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

// ProductProjectionHandler 读模型投影消费者。
type ProductProjectionHandler struct {
	projector *application.ProductProjectionService
	logger    *slog.Logger
}

// NewProductProjectionHandler 创建投影处理器。
func NewProductProjectionHandler(projector *application.ProductProjectionService, logger *slog.Logger) *ProductProjectionHandler {
	return &ProductProjectionHandler{projector: projector, logger: logger}
}

// Handle 按主题反序列化事件并分发给投影服务。
func (h *ProductProjectionHandler) Handle(ctx context.Context, msg kafka.Message) error {
	switch msg.Topic {
	case domain.TopicProductCreated:
		var event domain.ProductCreatedEvent
		if err := h.decode(ctx, msg, &event); err != nil {
			return err
		}
		return h.projector.HandleProductCreated(ctx, &event)

	case domain.TopicProductDetailsUpdated:
		var event domain.ProductDetailsUpdatedEvent
		if err := h.decode(ctx, msg, &event); err != nil {
			return err
		}
		return h.projector.HandleDetailsUpdated(ctx, &event)

	case domain.TopicProductPriceChanged:
		var event domain.ProductPriceChangedEvent
		if err := h.decode(ctx, msg, &event); err != nil {
			return err
		}
		return h.projector.HandlePriceChanged(ctx, &event)

	case domain.TopicProductStockChanged:
		var event domain.ProductStockChangedEvent
		if err := h.decode(ctx, msg, &event); err != nil {
			return err
		}
		return h.projector.HandleStockChanged(ctx, &event)

	case domain.TopicProductReviewApproved:
		var event domain.ProductReviewApprovedEvent
		if err := h.decode(ctx, msg, &event); err != nil {
			return err
		}
		return h.projector.HandleReviewApproved(ctx, &event)

	case domain.TopicProductFeaturedChanged:
		var event domain.ProductFeaturedChangedEvent
		if err := h.decode(ctx, msg, &event); err != nil {
			return err
		}
		return h.projector.HandleFeaturedChanged(ctx, &event)

	case domain.TopicProductDiscontinued:
		var event domain.ProductDiscontinuedEvent
		if err := h.decode(ctx, msg, &event); err != nil {
			return err
		}
		return h.projector.HandleDiscontinued(ctx, &event)

	case domain.TopicProductStockLow, domain.TopicProductReviewAdded:
		// 告警与未审核评论不影响读模型。
		return nil

	default:
		h.logger.WarnContext(ctx, "unknown catalog event topic", "topic", msg.Topic)
		return nil
	}
}

func (h *ProductProjectionHandler) decode(ctx context.Context, msg kafka.Message, event any) error {
	if err := json.Unmarshal(msg.Value, event); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal catalog event",
			"topic", msg.Topic, "error", err)
		return err
	}
	return nil
}
