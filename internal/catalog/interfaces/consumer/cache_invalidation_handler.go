package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/ecommerce/internal/catalog/application"
)

// CacheInvalidationHandler 商品变更事件到达时清除查询缓存。
// 所有商品事件载荷都携带 product_id，处理器不关心事件的具体类型。
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
		ProductID string `json:"product_id"`
	}
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal catalog event",
			"topic", msg.Topic, "error", err)
		return err
	}
	if payload.ProductID == "" {
		return nil
	}
	return h.invalidator.InvalidateProduct(ctx, payload.ProductID)
}
