package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wyfcoding/ecommerce/internal/customer/domain"
)

// customerReadRepository 客户读模型点查仓储。
type customerReadRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewCustomerReadRepository 创建客户读模型仓储。
func NewCustomerReadRepository(client redis.UniversalClient) domain.CustomerReadRepository {
	return &customerReadRepository{
		client: client,
		prefix: "customer:doc:",
		ttl:    24 * time.Hour,
	}
}

func (r *customerReadRepository) Save(ctx context.Context, doc *domain.CustomerDocument) error {
	if doc == nil {
		return nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(doc.CustomerID), data, r.ttl).Err()
}

func (r *customerReadRepository) Get(ctx context.Context, customerID string) (*domain.CustomerDocument, error) {
	data, err := r.client.Get(ctx, r.key(customerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc domain.CustomerDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *customerReadRepository) Delete(ctx context.Context, customerID string) error {
	return r.client.Del(ctx, r.key(customerID)).Err()
}

func (r *customerReadRepository) key(id string) string {
	return r.prefix + id
}
