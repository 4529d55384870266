package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/wyfcoding/ecommerce/internal/customer/domain"
	"github.com/wyfcoding/ecommerce/pkg/cache"
)

const (
	customerKeyPrefix = "customer:detail:"
	customerDetailTTL = 5 * time.Minute
)

func customerCacheKey(customerID string) string {
	return customerKeyPrefix + customerID
}

// CustomerQueryService 客户查询服务。
// 客户数据只有点查与按邮箱查找两种读路径，读模型只落 Redis，不进检索引擎。
type CustomerQueryService struct {
	repo     domain.CustomerRepository
	readRepo domain.CustomerReadRepository
	cache    cache.Service
	logger   *slog.Logger
}

// NewCustomerQueryService 创建客户查询服务。
func NewCustomerQueryService(
	repo domain.CustomerRepository,
	readRepo domain.CustomerReadRepository,
	cacheSvc cache.Service,
	logger *slog.Logger,
) *CustomerQueryService {
	return &CustomerQueryService{
		repo:     repo,
		readRepo: readRepo,
		cache:    cacheSvc,
		logger:   logger,
	}
}

// GetCustomer 点查客户文档。
func (s *CustomerQueryService) GetCustomer(ctx context.Context, customerID string) (*domain.CustomerDocument, error) {
	var doc domain.CustomerDocument
	err := s.cache.GetOrSet(ctx, customerCacheKey(customerID), customerDetailTTL, &doc,
		func(ctx context.Context) (any, error) {
			return s.loadDocument(ctx, customerID)
		})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *CustomerQueryService) loadDocument(ctx context.Context, customerID string) (*domain.CustomerDocument, error) {
	doc, err := s.readRepo.Get(ctx, customerID)
	if err != nil {
		s.logger.WarnContext(ctx, "read model unavailable, falling back to primary store",
			"customer_id", customerID, "error", err)
	}
	if doc != nil {
		return doc, nil
	}

	customer, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}
	return domain.NewCustomerDocument(customer), nil
}

// GetCustomerByEmail 按邮箱查找，直接走写库（登录与唯一性场景，不缓存）。
func (s *CustomerQueryService) GetCustomerByEmail(ctx context.Context, email string) (*domain.CustomerDocument, error) {
	customer, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}
	return domain.NewCustomerDocument(customer), nil
}

// ListCustomers 客户列表（后台分页）。
func (s *CustomerQueryService) ListCustomers(ctx context.Context, limit, offset int) ([]*domain.CustomerDocument, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	customers, err := s.repo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	docs := make([]*domain.CustomerDocument, len(customers))
	for i, c := range customers {
		docs[i] = domain.NewCustomerDocument(c)
	}
	return docs, nil
}
