package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

// OrderProjectionService 订单读模型投影服务。
// 订单事件高度依赖聚合整体状态（行、支付、状态机），投影统一采用
// 回源写模型重建文档的方式：对任意事件 Refresh 一次即可得到最新快照，
// 重复投递同一事件产生相同文档，天然幂等。
type OrderProjectionService struct {
	repo       domain.OrderRepository
	readRepo   domain.OrderReadRepository
	searchRepo domain.OrderSearchRepository
	logger     *slog.Logger
}

// NewOrderProjectionService 创建订单投影服务。
func NewOrderProjectionService(
	repo domain.OrderRepository,
	readRepo domain.OrderReadRepository,
	searchRepo domain.OrderSearchRepository,
	logger *slog.Logger,
) *OrderProjectionService {
	return &OrderProjectionService{
		repo:       repo,
		readRepo:   readRepo,
		searchRepo: searchRepo,
		logger:     logger,
	}
}

// Refresh 从写模型重建订单读模型文档并双写 Redis 与 Elasticsearch。
func (s *OrderProjectionService) Refresh(ctx context.Context, orderID string) error {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}
	if order == nil {
		s.logger.WarnContext(ctx, "order event for unknown order, skipped", "order_id", orderID)
		return nil
	}

	doc := domain.NewOrderDocument(order)
	if err := s.readRepo.Save(ctx, doc); err != nil {
		return fmt.Errorf("save read model: %w", err)
	}
	if err := s.searchRepo.Index(ctx, doc); err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	return nil
}
