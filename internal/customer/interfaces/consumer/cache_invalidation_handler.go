package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/wyfcoding/ecommerce/internal/customer/application"
)

// CacheInvalidationHandler 消费客户事件并失效查询缓存。
// 与投影消费者分属不同消费组，互不阻塞。
type CacheInvalidationHandler struct {
	invalidator *application.CacheInvalidationService
	logger      *slog.Logger
}

// NewCacheInvalidationHandler 创建缓存失效处理器。
func NewCacheInvalidationHandler(invalidator *application.CacheInvalidationService, logger *slog.Logger) *CacheInvalidationHandler {
	return &CacheInvalidationHandler{invalidator: invalidator, logger: logger}
}

// Handle 处理一条客户事件消息，失败返回错误等待重投。
func (h *CacheInvalidationHandler) Handle(ctx context.Context, msg kafkago.Message) error {
	var envelope struct {
		CustomerID string `json:"customer_id"`
	}
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		return fmt.Errorf("decode message from %s: %w", msg.Topic, err)
	}
	if envelope.CustomerID == "" {
		return nil
	}
	return h.invalidator.InvalidateCustomer(ctx, envelope.CustomerID)
}
