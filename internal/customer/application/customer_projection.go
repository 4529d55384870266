package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wyfcoding/ecommerce/internal/customer/domain"
)

// CustomerProjectionService 客户读模型投影服务。
// 客户事件都携带 customer_id，投影统一回源写模型重建文档，幂等。
type CustomerProjectionService struct {
	repo     domain.CustomerRepository
	readRepo domain.CustomerReadRepository
	logger   *slog.Logger
}

// NewCustomerProjectionService 创建客户投影服务。
func NewCustomerProjectionService(
	repo domain.CustomerRepository,
	readRepo domain.CustomerReadRepository,
	logger *slog.Logger,
) *CustomerProjectionService {
	return &CustomerProjectionService{repo: repo, readRepo: readRepo, logger: logger}
}

// Refresh 从写模型重建客户读模型文档。
func (s *CustomerProjectionService) Refresh(ctx context.Context, customerID string) error {
	customer, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("load customer %s: %w", customerID, err)
	}
	if customer == nil {
		s.logger.WarnContext(ctx, "customer event for unknown customer, skipped",
			"customer_id", customerID)
		return nil
	}
	if err := s.readRepo.Save(ctx, domain.NewCustomerDocument(customer)); err != nil {
		return fmt.Errorf("save read model: %w", err)
	}
	return nil
}
