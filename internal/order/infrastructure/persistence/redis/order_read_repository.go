package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

// orderReadRepository 订单读模型点查仓储。
type orderReadRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewOrderReadRepository 创建订单读模型仓储。
func NewOrderReadRepository(client redis.UniversalClient) domain.OrderReadRepository {
	return &orderReadRepository{
		client: client,
		prefix: "order:doc:",
		ttl:    24 * time.Hour,
	}
}

func (r *orderReadRepository) Save(ctx context.Context, doc *domain.OrderDocument) error {
	if doc == nil {
		return nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(doc.OrderID), data, r.ttl).Err()
}

func (r *orderReadRepository) Get(ctx context.Context, orderID string) (*domain.OrderDocument, error) {
	data, err := r.client.Get(ctx, r.key(orderID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc domain.OrderDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *orderReadRepository) Delete(ctx context.Context, orderID string) error {
	return r.client.Del(ctx, r.key(orderID)).Err()
}

func (r *orderReadRepository) key(id string) string {
	return r.prefix + id
}
