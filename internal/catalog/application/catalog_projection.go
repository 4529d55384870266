package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

// priceValue 把事件里的十进制字符串转为检索用浮点数，解析失败回落为 0。
func priceValue(price string) float64 {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// ProductProjectionService 商品读模型投影服务。
// 消费领域事件，将变更落到 Redis 点查文档与 Elasticsearch 检索文档。
// 事件载荷携带绝对值（新库存、新价格、新均分），重放同一事件得到相同文档，天然幂等。
type ProductProjectionService struct {
	readRepo   domain.ProductReadRepository
	searchRepo domain.ProductSearchRepository
	repo       domain.ProductRepository
	logger     *slog.Logger
}

// NewProductProjectionService 创建投影服务。
func NewProductProjectionService(
	readRepo domain.ProductReadRepository,
	searchRepo domain.ProductSearchRepository,
	repo domain.ProductRepository,
	logger *slog.Logger,
) *ProductProjectionService {
	return &ProductProjectionService{
		readRepo:   readRepo,
		searchRepo: searchRepo,
		repo:       repo,
		logger:     logger,
	}
}

// HandleProductCreated 创建事件：载荷足以构成初始文档，无需回源。
func (s *ProductProjectionService) HandleProductCreated(ctx context.Context, event *domain.ProductCreatedEvent) error {
	doc := &domain.ProductDocument{
		ProductID:     event.ProductID,
		Name:          event.Name,
		SKU:           event.SKU,
		Price:         event.Price,
		PriceValue:    priceValue(event.Price),
		Currency:      event.Currency,
		CategoryID:    event.CategoryID,
		StockQuantity: event.Stock,
		InStock:       event.Stock > 0,
		Active:        true,
		UpdatedAt:     event.Time,
	}
	return s.save(ctx, doc)
}

// HandleDetailsUpdated 基础信息更新：只覆盖载荷中的字段。
func (s *ProductProjectionService) HandleDetailsUpdated(ctx context.Context, event *domain.ProductDetailsUpdatedEvent) error {
	return s.patch(ctx, event.ProductID, event.Time, func(doc *domain.ProductDocument) {
		doc.Name = event.Name
		doc.Description = event.Description
		doc.CategoryID = event.CategoryID
	})
}

// HandlePriceChanged 价格变更。
func (s *ProductProjectionService) HandlePriceChanged(ctx context.Context, event *domain.ProductPriceChangedEvent) error {
	return s.patch(ctx, event.ProductID, event.Time, func(doc *domain.ProductDocument) {
		doc.Price = event.NewPrice
		doc.PriceValue = priceValue(event.NewPrice)
		doc.Currency = event.Currency
	})
}

// HandleStockChanged 库存变更：载荷携带变更后的绝对数量。
func (s *ProductProjectionService) HandleStockChanged(ctx context.Context, event *domain.ProductStockChangedEvent) error {
	return s.patch(ctx, event.ProductID, event.Time, func(doc *domain.ProductDocument) {
		doc.StockQuantity = event.NewStock
		doc.InStock = event.NewStock > 0
	})
}

// HandleReviewApproved 评论审核通过：覆盖平均评分并回源刷新已审核计数。
func (s *ProductProjectionService) HandleReviewApproved(ctx context.Context, event *domain.ProductReviewApprovedEvent) error {
	product, err := s.repo.GetByID(ctx, event.ProductID)
	if err != nil {
		return fmt.Errorf("load product %s: %w", event.ProductID, err)
	}
	if product == nil {
		s.logger.WarnContext(ctx, "review approved for unknown product, skipped",
			"product_id", event.ProductID)
		return nil
	}
	return s.save(ctx, domain.NewProductDocument(product))
}

// HandleFeaturedChanged 推荐标记变更。
func (s *ProductProjectionService) HandleFeaturedChanged(ctx context.Context, event *domain.ProductFeaturedChangedEvent) error {
	return s.patch(ctx, event.ProductID, event.Time, func(doc *domain.ProductDocument) {
		doc.Featured = event.Featured
	})
}

// HandleDiscontinued 下架：文档保留但标记不可售，检索默认过滤。
func (s *ProductProjectionService) HandleDiscontinued(ctx context.Context, event *domain.ProductDiscontinuedEvent) error {
	return s.patch(ctx, event.ProductID, event.Time, func(doc *domain.ProductDocument) {
		doc.Active = false
	})
}

// Rebuild 从写模型全量重建单个商品的读模型文档。
func (s *ProductProjectionService) Rebuild(ctx context.Context, productID string) error {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	return s.save(ctx, domain.NewProductDocument(product))
}

// patch 加载现有文档、应用增量修改并写回。
// 文档缺失时回源写模型重建，避免乱序或丢失事件把读模型打穿。
func (s *ProductProjectionService) patch(ctx context.Context, productID string, eventTime int64, apply func(doc *domain.ProductDocument)) error {
	doc, err := s.load(ctx, productID)
	if err != nil {
		return err
	}
	if doc == nil {
		s.logger.WarnContext(ctx, "projection document missing, rebuilding from primary store",
			"product_id", productID)
		return s.Rebuild(ctx, productID)
	}

	apply(doc)
	if eventTime > doc.UpdatedAt {
		doc.UpdatedAt = eventTime
	}
	return s.save(ctx, doc)
}

func (s *ProductProjectionService) load(ctx context.Context, productID string) (*domain.ProductDocument, error) {
	doc, err := s.readRepo.Get(ctx, productID)
	if err != nil {
		s.logger.WarnContext(ctx, "read repo unavailable, trying search store",
			"product_id", productID, "error", err)
	}
	if doc != nil {
		return doc, nil
	}
	return s.searchRepo.Get(ctx, productID)
}

// save 双写 Redis 与 Elasticsearch，任一失败返回错误交由消费者重试。
func (s *ProductProjectionService) save(ctx context.Context, doc *domain.ProductDocument) error {
	if err := s.readRepo.Save(ctx, doc); err != nil {
		return fmt.Errorf("save read model: %w", err)
	}
	if err := s.searchRepo.Index(ctx, doc); err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	return nil
}
