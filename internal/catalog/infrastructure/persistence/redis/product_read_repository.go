package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

// productReadRepository 商品读模型点查仓储。
// 文档由投影服务写入，带 TTL 兜底，过期后由回源重建。
type productReadRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewProductReadRepository 创建商品读模型仓储。
func NewProductReadRepository(client redis.UniversalClient) domain.ProductReadRepository {
	return &productReadRepository{
		client: client,
		prefix: "catalog:doc:",
		ttl:    24 * time.Hour,
	}
}

func (r *productReadRepository) Save(ctx context.Context, doc *domain.ProductDocument) error {
	if doc == nil {
		return nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(doc.ProductID), data, r.ttl).Err()
}

func (r *productReadRepository) Get(ctx context.Context, productID string) (*domain.ProductDocument, error) {
	data, err := r.client.Get(ctx, r.key(productID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc domain.ProductDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *productReadRepository) Delete(ctx context.Context, productID string) error {
	return r.client.Del(ctx, r.key(productID)).Err()
}

func (r *productReadRepository) key(id string) string {
	return r.prefix + id
}
