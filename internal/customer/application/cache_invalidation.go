package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wyfcoding/ecommerce/pkg/cache"
)

// CacheInvalidationService 客户缓存失效服务。
type CacheInvalidationService struct {
	cache  cache.Service
	logger *slog.Logger
}

// NewCacheInvalidationService 创建缓存失效服务。
func NewCacheInvalidationService(cacheSvc cache.Service, logger *slog.Logger) *CacheInvalidationService {
	return &CacheInvalidationService{cache: cacheSvc, logger: logger}
}

// InvalidateCustomer 清除单个客户相关的查询缓存。
func (s *CacheInvalidationService) InvalidateCustomer(ctx context.Context, customerID string) error {
	if err := s.cache.Remove(ctx, customerCacheKey(customerID)); err != nil {
		return fmt.Errorf("invalidate customer %s: %w", customerID, err)
	}
	s.logger.DebugContext(ctx, "cache invalidated", "customer_id", customerID)
	return nil
}
