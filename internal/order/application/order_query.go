package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/pkg/cache"
)

const (
	orderKeyPrefix    = "order:detail:"
	orderListPrefix   = "order:list:"
	orderListPattern  = "order:list:*"
	orderDetailTTL    = 5 * time.Minute
	orderListTTL      = 30 * time.Second
)

func orderCacheKey(orderID string) string {
	return orderKeyPrefix + orderID
}

func orderListCacheKey(q *domain.OrderSearchQuery) string {
	return fmt.Sprintf("%s%s:%s:%d:%d", orderListPrefix, q.CustomerID, q.Status, q.Page, q.Size)
}

// OrderSearchResult 订单检索结果。
type OrderSearchResult struct {
	Items []*domain.OrderDocument `json:"items"`
	Total int64                   `json:"total"`
}

// OrderQueryService 订单查询服务。
type OrderQueryService struct {
	repo       domain.OrderRepository
	readRepo   domain.OrderReadRepository
	searchRepo domain.OrderSearchRepository
	cache      cache.Service
	logger     *slog.Logger
}

// NewOrderQueryService 创建订单查询服务。
func NewOrderQueryService(
	repo domain.OrderRepository,
	readRepo domain.OrderReadRepository,
	searchRepo domain.OrderSearchRepository,
	cacheSvc cache.Service,
	logger *slog.Logger,
) *OrderQueryService {
	return &OrderQueryService{
		repo:       repo,
		readRepo:   readRepo,
		searchRepo: searchRepo,
		cache:      cacheSvc,
		logger:     logger,
	}
}

// GetOrder 点查订单文档。
func (s *OrderQueryService) GetOrder(ctx context.Context, orderID string) (*domain.OrderDocument, error) {
	var doc domain.OrderDocument
	err := s.cache.GetOrSet(ctx, orderCacheKey(orderID), orderDetailTTL, &doc,
		func(ctx context.Context) (any, error) {
			return s.loadDocument(ctx, orderID)
		})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *OrderQueryService) loadDocument(ctx context.Context, orderID string) (*domain.OrderDocument, error) {
	doc, err := s.readRepo.Get(ctx, orderID)
	if err != nil {
		s.logger.WarnContext(ctx, "read model unavailable, falling back to primary store",
			"order_id", orderID, "error", err)
	}
	if doc != nil {
		return doc, nil
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return domain.NewOrderDocument(order), nil
}

// SearchOrders 订单历史检索。
func (s *OrderQueryService) SearchOrders(ctx context.Context, query *domain.OrderSearchQuery) (*OrderSearchResult, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Size < 1 || query.Size > 100 {
		query.Size = 20
	}

	var result OrderSearchResult
	err := s.cache.GetOrSet(ctx, orderListCacheKey(query), orderListTTL, &result,
		func(ctx context.Context) (any, error) {
			items, total, serr := s.searchRepo.Search(ctx, query)
			if serr != nil {
				return nil, serr
			}
			return &OrderSearchResult{Items: items, Total: total}, nil
		})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListCustomerOrders 客户订单列表。
func (s *OrderQueryService) ListCustomerOrders(ctx context.Context, customerID string, page, size int) (*OrderSearchResult, error) {
	return s.SearchOrders(ctx, &domain.OrderSearchQuery{
		CustomerID: customerID,
		Page:       page,
		Size:       size,
	})
}
