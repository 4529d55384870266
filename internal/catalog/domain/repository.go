package domain

import (
	"context"

	"github.com/wyfcoding/pkg/eventsourcing"

	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
)

// ProductRepository 商品写仓储接口。
type ProductRepository interface {
	// GetByID 根据业务主键获取商品，未找到返回 (nil, nil)。
	GetByID(ctx context.Context, productID string) (*Product, error)
	// GetBySKU 根据 SKU 获取商品。
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	// GetAll 全量列表（分页）。
	GetAll(ctx context.Context, limit, offset int) ([]*Product, error)
	// Add 新增商品。
	Add(ctx context.Context, product *Product) error
	// Update 更新商品（乐观锁，版本冲突返回 ErrVersionConflict 类错误并由调用方重试）。
	Update(ctx context.Context, product *Product) error
	// Delete 物理删除，不产生补偿事件。
	Delete(ctx context.Context, productID string) error
	// Exists 判断商品是否存在。
	Exists(ctx context.Context, productID string) (bool, error)
	// Find 按规约查询。
	Find(ctx context.Context, spec *persistence.Specification) ([]*Product, error)
	// FindSingle 按规约查询单个。
	FindSingle(ctx context.Context, spec *persistence.Specification) (*Product, error)
	// Count 按规约计数。
	Count(ctx context.Context, spec *persistence.Specification) (int64, error)
}

// EventStore 领域事件存储接口，事件与聚合在同一事务中落库。
type EventStore interface {
	Save(ctx context.Context, aggregateID string, events []eventsourcing.DomainEvent, expectedVersion int64) error
	Load(ctx context.Context, aggregateID string) ([]eventsourcing.DomainEvent, error)
}

// EventPublisher 集成事件发布接口（Outbox 模式）。
// Publish 在 context 携带事务时加入该事务，否则使用独立连接。
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	PublishInTx(ctx context.Context, tx any, topic string, key string, event any) error
}

// ProductDocument 商品读模型文档
// 由投影服务根据领域事件增量维护，存放于 Redis（点查）与 Elasticsearch（检索）。
type ProductDocument struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         string  `json:"price"`
	PriceValue    float64 `json:"price_value"`
	Currency      string  `json:"currency"`
	SKU           string  `json:"sku"`
	CategoryID    string  `json:"category_id"`
	StockQuantity int     `json:"stock_quantity"`
	InStock       bool    `json:"in_stock"`
	Active        bool    `json:"active"`
	Featured      bool    `json:"featured"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
	UpdatedAt     int64   `json:"updated_at"`
}

// NewProductDocument 由聚合当前状态构建读模型文档。
// 投影服务在需要全量重建文档时使用（创建事件或文档丢失后的兜底重建）。
func NewProductDocument(p *Product) *ProductDocument {
	approved := 0
	for _, r := range p.Reviews {
		if r.Approved {
			approved++
		}
	}
	return &ProductDocument{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price.Amount.String(),
		PriceValue:    p.Price.Amount.InexactFloat64(),
		Currency:      p.Price.Currency,
		SKU:           p.SKU,
		CategoryID:    p.CategoryID,
		StockQuantity: p.StockQuantity,
		InStock:       p.StockQuantity > 0,
		Active:        p.Active,
		Featured:      p.Featured,
		AverageRating: p.AverageRating(),
		ReviewCount:   approved,
		UpdatedAt:     p.UpdatedAt.Unix(),
	}
}

// ProductReadRepository 商品点查读仓储（Redis）。
type ProductReadRepository interface {
	Save(ctx context.Context, doc *ProductDocument) error
	Get(ctx context.Context, productID string) (*ProductDocument, error)
	Delete(ctx context.Context, productID string) error
}

// ProductSearchQuery 检索条件。
type ProductSearchQuery struct {
	Keyword    string
	CategoryID string
	PriceMin   string
	PriceMax   string
	ActiveOnly bool
	SortBy     string
	Page       int
	Size       int
}

// ProductFacets 检索聚合统计。
type ProductFacets struct {
	CategoryCounts map[string]int64 `json:"category_counts"`
	PriceBuckets   map[string]int64 `json:"price_buckets"`
	AverageRating  float64          `json:"average_rating"`
}

// ProductSearchRepository 商品检索仓储（Elasticsearch）。
type ProductSearchRepository interface {
	// Index 全量写入文档（upsert）。
	Index(ctx context.Context, doc *ProductDocument) error
	// Get 按文档 ID 获取，未找到返回 (nil, nil)。
	Get(ctx context.Context, productID string) (*ProductDocument, error)
	// Search 条件检索，返回命中文档与总数。
	Search(ctx context.Context, query *ProductSearchQuery) ([]*ProductDocument, int64, error)
	// Facets 分面统计：类目计数、价格区间、平均评分。
	Facets(ctx context.Context, query *ProductSearchQuery) (*ProductFacets, error)
	// Delete 删除文档。
	Delete(ctx context.Context, productID string) error
}
