// Package application 编排商品目录的用例。
// 命令侧在单个事务内完成聚合落库、事件存储与 Outbox 发布；
// 查询侧只读读模型，投影与缓存失效由消费者驱动。
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/idgen"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

// CreateProductCommand 创建商品命令。
type CreateProductCommand struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	Price         string `json:"price" binding:"required"`
	Currency      string `json:"currency" binding:"required"`
	SKU           string `json:"sku" binding:"required"`
	StockQuantity int    `json:"stock_quantity"`
	MinStockLevel int    `json:"min_stock_level"`
	CategoryID    string `json:"category_id"`
	Weight        string `json:"weight"`
}

// UpdateProductDetailsCommand 更新商品信息命令。
type UpdateProductDetailsCommand struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
}

// ChangePriceCommand 调价命令。
type ChangePriceCommand struct {
	Price    string `json:"price" binding:"required"`
	Currency string `json:"currency" binding:"required"`
}

// AdjustStockCommand 库存调整命令，Delta 为正数。
type AdjustStockCommand struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

// AddReviewCommand 提交评论命令。
type AddReviewCommand struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
}

// CatalogCommandService 商品目录命令服务。
type CatalogCommandService struct {
	repo       domain.ProductRepository
	eventStore domain.EventStore
	publisher  domain.EventPublisher
	uow        persistence.UnitOfWork
	logger     *slog.Logger
}

// NewCatalogCommandService 创建命令服务。
func NewCatalogCommandService(
	repo domain.ProductRepository,
	eventStore domain.EventStore,
	publisher domain.EventPublisher,
	uow persistence.UnitOfWork,
	logger *slog.Logger,
) *CatalogCommandService {
	return &CatalogCommandService{
		repo:       repo,
		eventStore: eventStore,
		publisher:  publisher,
		uow:        uow,
		logger:     logger,
	}
}

// CreateProduct 创建商品，SKU 全局唯一。
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd *CreateProductCommand) (string, error) {
	price, err := vo.NewMoneyFromString(cmd.Price, cmd.Currency)
	if err != nil {
		return "", err
	}

	existing, err := s.repo.GetBySKU(ctx, cmd.SKU)
	if err != nil {
		return "", fmt.Errorf("check sku: %w", err)
	}
	if existing != nil {
		return "", domain.ErrDuplicateSKU
	}

	productID := fmt.Sprintf("PRD-%d", idgen.GenID())
	product, err := domain.NewProduct(productID, cmd.Name, cmd.Description, price,
		cmd.SKU, cmd.StockQuantity, cmd.MinStockLevel, cmd.CategoryID)
	if err != nil {
		return "", err
	}

	if cmd.Weight != "" {
		weight, werr := decimal.NewFromString(cmd.Weight)
		if werr != nil {
			return "", &domain.ValidationError{Field: "weight", Reason: "invalid decimal"}
		}
		if werr := product.SetShipping(weight, domain.Dimensions{}); werr != nil {
			return "", werr
		}
	}

	if err := s.commit(ctx, product, func(txCtx context.Context) error {
		return s.repo.Add(txCtx, product)
	}); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "product created",
		"product_id", productID, "sku", product.SKU)
	return productID, nil
}

// UpdateProductDetails 更新名称、描述与类目。
func (s *CatalogCommandService) UpdateProductDetails(ctx context.Context, productID string, cmd *UpdateProductDetailsCommand) error {
	return s.mutate(ctx, productID, func(p *domain.Product) error {
		return p.UpdateDetails(cmd.Name, cmd.Description, cmd.CategoryID)
	})
}

// ChangePrice 调整商品价格。
func (s *CatalogCommandService) ChangePrice(ctx context.Context, productID string, cmd *ChangePriceCommand) error {
	price, err := vo.NewMoneyFromString(cmd.Price, cmd.Currency)
	if err != nil {
		return err
	}
	return s.mutate(ctx, productID, func(p *domain.Product) error {
		return p.ChangePrice(price)
	})
}

// IncreaseStock 增加库存。
func (s *CatalogCommandService) IncreaseStock(ctx context.Context, productID string, cmd *AdjustStockCommand) error {
	return s.mutate(ctx, productID, func(p *domain.Product) error {
		return p.IncreaseStock(cmd.Delta, cmd.Reason)
	})
}

// DecreaseStock 扣减库存，库存不足时拒绝。
func (s *CatalogCommandService) DecreaseStock(ctx context.Context, productID string, cmd *AdjustStockCommand) error {
	return s.mutate(ctx, productID, func(p *domain.Product) error {
		return p.DecreaseStock(cmd.Delta, cmd.Reason)
	})
}

// AddReview 提交评论，每位客户对同一商品至多一条。
func (s *CatalogCommandService) AddReview(ctx context.Context, productID string, cmd *AddReviewCommand) (string, error) {
	reviewID := fmt.Sprintf("RVW-%d", idgen.GenID())
	err := s.mutate(ctx, productID, func(p *domain.Product) error {
		return p.AddReview(reviewID, cmd.CustomerID, cmd.Rating, cmd.Comment)
	})
	if err != nil {
		return "", err
	}
	return reviewID, nil
}

// ApproveReview 审核通过评论。
func (s *CatalogCommandService) ApproveReview(ctx context.Context, productID, reviewID string) error {
	return s.mutate(ctx, productID, func(p *domain.Product) error {
		return p.ApproveReview(reviewID)
	})
}

// SetFeatured 设置推荐标记。
func (s *CatalogCommandService) SetFeatured(ctx context.Context, productID string, featured bool) error {
	return s.mutate(ctx, productID, func(p *domain.Product) error {
		p.SetFeatured(featured)
		return nil
	})
}

// DiscontinueProduct 下架商品。
func (s *CatalogCommandService) DiscontinueProduct(ctx context.Context, productID, reason string) error {
	return s.mutate(ctx, productID, func(p *domain.Product) error {
		return p.Discontinue(reason)
	})
}

// mutate 加载聚合、执行行为并在事务内持久化。
func (s *CatalogCommandService) mutate(ctx context.Context, productID string, fn func(p *domain.Product) error) error {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("load product %s: %w", productID, err)
	}
	if product == nil {
		return domain.ErrProductNotFound
	}

	if err := fn(product); err != nil {
		return err
	}

	return s.commit(ctx, product, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, product)
	})
}

// commit 在同一事务内完成聚合保存、事件存储与 Outbox 发布。
// 事务提交成功后事件即被可靠投递，待发队列在提交边界内清空。
func (s *CatalogCommandService) commit(ctx context.Context, product *domain.Product, save func(txCtx context.Context) error) error {
	return s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if err := save(txCtx); err != nil {
			return err
		}

		events := product.GetUncommittedEvents()
		if len(events) == 0 {
			return nil
		}
		if err := s.eventStore.Save(txCtx, product.ProductID, events, product.Version()); err != nil {
			return fmt.Errorf("save events: %w", err)
		}
		for _, event := range events {
			topic := domain.TopicFor(event)
			if topic == "" {
				s.logger.WarnContext(txCtx, "event without topic mapping skipped",
					"event_type", event.EventType())
				continue
			}
			if err := s.publisher.Publish(txCtx, topic, product.ProductID, event); err != nil {
				return fmt.Errorf("publish %s: %w", topic, err)
			}
		}
		product.MarkCommitted()
		return nil
	})
}
