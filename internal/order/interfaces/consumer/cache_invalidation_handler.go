package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/ecommerce/internal/order/application"
)

// CacheInvalidationHandler 订单变更事件到达时清除查询缓存。
type CacheInvalidationHandler struct {
	invalidator *application.CacheInvalidationService
	logger      *slog.Logger
}

// NewCacheInvalidationHandler 创建缓存失效处理器。
func NewCacheInvalidationHandler(invalidator *application.CacheInvalidationService, logger *slog.Logger) *CacheInvalidationHandler {
	return &CacheInvalidationHandler{invalidator: invalidator, logger: logger}
}

// Handle 解析聚合 ID 并失效相关缓存。
func (h *CacheInvalidationHandler) Handle(ctx context.Context, msg kafka.Message) error {
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
	return h.invalidator.InvalidateOrder(ctx, payload.OrderID)
}
