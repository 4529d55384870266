package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/pkg/cache"
)

// 缓存键约定：点查一键一品，列表与检索结果带参数指纹，失效时按前缀批量清除。
const (
	productKeyPrefix  = "catalog:product:"
	searchKeyPrefix   = "catalog:products:search:"
	facetsKeyPrefix   = "catalog:products:facets:"
	searchKeyPattern  = "catalog:products:*"
	productDetailTTL  = 5 * time.Minute
	searchResultTTL   = 30 * time.Second
)

func productCacheKey(productID string) string {
	return productKeyPrefix + productID
}

func searchCacheKey(q *domain.ProductSearchQuery) string {
	return fmt.Sprintf("%s%s:%s:%s:%s:%t:%s:%d:%d", searchKeyPrefix,
		q.Keyword, q.CategoryID, q.PriceMin, q.PriceMax, q.ActiveOnly, q.SortBy, q.Page, q.Size)
}

func facetsCacheKey(q *domain.ProductSearchQuery) string {
	return fmt.Sprintf("%s%s:%s", facetsKeyPrefix, q.Keyword, q.CategoryID)
}

// ProductSearchResult 检索结果。
type ProductSearchResult struct {
	Items []*domain.ProductDocument `json:"items"`
	Total int64                     `json:"total"`
}

// CatalogQueryService 商品目录查询服务。
// 点查走 Redis 读模型，检索走 Elasticsearch，两者前面都有一层结果缓存；
// 读模型缺失时回源写库重建文档，缓存故障降级为直接回源。
type CatalogQueryService struct {
	repo       domain.ProductRepository
	readRepo   domain.ProductReadRepository
	searchRepo domain.ProductSearchRepository
	cache      cache.Service
	logger     *slog.Logger
}

// NewCatalogQueryService 创建查询服务。
func NewCatalogQueryService(
	repo domain.ProductRepository,
	readRepo domain.ProductReadRepository,
	searchRepo domain.ProductSearchRepository,
	cacheSvc cache.Service,
	logger *slog.Logger,
) *CatalogQueryService {
	return &CatalogQueryService{
		repo:       repo,
		readRepo:   readRepo,
		searchRepo: searchRepo,
		cache:      cacheSvc,
		logger:     logger,
	}
}

// GetProduct 点查商品文档。
func (s *CatalogQueryService) GetProduct(ctx context.Context, productID string) (*domain.ProductDocument, error) {
	var doc domain.ProductDocument
	err := s.cache.GetOrSet(ctx, productCacheKey(productID), productDetailTTL, &doc,
		func(ctx context.Context) (any, error) {
			return s.loadDocument(ctx, productID)
		})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// loadDocument 依次尝试 Redis 读模型与写库回源。
func (s *CatalogQueryService) loadDocument(ctx context.Context, productID string) (*domain.ProductDocument, error) {
	doc, err := s.readRepo.Get(ctx, productID)
	if err != nil {
		s.logger.WarnContext(ctx, "read model unavailable, falling back to primary store",
			"product_id", productID, "error", err)
	}
	if doc != nil {
		return doc, nil
	}

	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return domain.NewProductDocument(product), nil
}

// SearchProducts 条件检索商品。
func (s *CatalogQueryService) SearchProducts(ctx context.Context, query *domain.ProductSearchQuery) (*ProductSearchResult, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Size < 1 || query.Size > 100 {
		query.Size = 20
	}

	var result ProductSearchResult
	err := s.cache.GetOrSet(ctx, searchCacheKey(query), searchResultTTL, &result,
		func(ctx context.Context) (any, error) {
			items, total, serr := s.searchRepo.Search(ctx, query)
			if serr != nil {
				return nil, serr
			}
			return &ProductSearchResult{Items: items, Total: total}, nil
		})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetFacets 检索聚合统计。
func (s *CatalogQueryService) GetFacets(ctx context.Context, query *domain.ProductSearchQuery) (*domain.ProductFacets, error) {
	var facets domain.ProductFacets
	err := s.cache.GetOrSet(ctx, facetsCacheKey(query), searchResultTTL, &facets,
		func(ctx context.Context) (any, error) {
			return s.searchRepo.Facets(ctx, query)
		})
	if err != nil {
		return nil, err
	}
	return &facets, nil
}

// GetProductBySKU 按 SKU 查询，直接走写库（后台与校验场景，不缓存）。
func (s *CatalogQueryService) GetProductBySKU(ctx context.Context, sku string) (*domain.ProductDocument, error) {
	product, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return domain.NewProductDocument(product), nil
}

// ListReviews 商品评论列表（含未审核，后台场景）。
func (s *CatalogQueryService) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product.Reviews, nil
}
