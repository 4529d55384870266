package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wyfcoding/ecommerce/pkg/cache"
)

// CacheInvalidationService 订单缓存失效服务。
type CacheInvalidationService struct {
	cache  cache.Service
	logger *slog.Logger
}

// NewCacheInvalidationService 创建缓存失效服务。
func NewCacheInvalidationService(cacheSvc cache.Service, logger *slog.Logger) *CacheInvalidationService {
	return &CacheInvalidationService{cache: cacheSvc, logger: logger}
}

// InvalidateOrder 清除单个订单相关的全部查询缓存。
func (s *CacheInvalidationService) InvalidateOrder(ctx context.Context, orderID string) error {
	if err := s.cache.Remove(ctx, orderCacheKey(orderID)); err != nil {
		return fmt.Errorf("invalidate order %s: %w", orderID, err)
	}
	if err := s.cache.RemoveByPattern(ctx, orderListPattern); err != nil {
		return fmt.Errorf("invalidate order lists: %w", err)
	}
	s.logger.DebugContext(ctx, "cache invalidated", "order_id", orderID)
	return nil
}
