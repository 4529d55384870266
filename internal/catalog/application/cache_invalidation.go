package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wyfcoding/ecommerce/pkg/cache"
)

// CacheInvalidationService 缓存失效服务。
// 商品任一变更事件到达时，精确清除点查缓存并按前缀清除列表与检索缓存。
// 失效失败返回错误，由消费者重投递重试；读路径本身不依赖失效成功。
type CacheInvalidationService struct {
	cache  cache.Service
	logger *slog.Logger
}

// NewCacheInvalidationService 创建缓存失效服务。
func NewCacheInvalidationService(cacheSvc cache.Service, logger *slog.Logger) *CacheInvalidationService {
	return &CacheInvalidationService{cache: cacheSvc, logger: logger}
}

// InvalidateProduct 清除单个商品相关的全部查询缓存。
func (s *CacheInvalidationService) InvalidateProduct(ctx context.Context, productID string) error {
	if err := s.cache.Remove(ctx, productCacheKey(productID)); err != nil {
		return fmt.Errorf("invalidate product %s: %w", productID, err)
	}
	if err := s.cache.RemoveByPattern(ctx, searchKeyPattern); err != nil {
		return fmt.Errorf("invalidate search results: %w", err)
	}
	s.logger.DebugContext(ctx, "cache invalidated", "product_id", productID)
	return nil
}
