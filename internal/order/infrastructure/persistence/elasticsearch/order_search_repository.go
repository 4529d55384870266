package elasticsearch

import (
	"context"
	"encoding/json"

	search_pkg "github.com/wyfcoding/pkg/search"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

type orderSearchRepository struct {
	client *search_pkg.Client
	index  string
}

// esSearchResponse ES 搜索响应结构

type esSearchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// NewOrderSearchRepository 创建订单检索仓储。
func NewOrderSearchRepository(client *search_pkg.Client, index string) domain.OrderSearchRepository {
	if client == nil {
		return nil
	}
	if index == "" {
		index = "orders"
	}
	return &orderSearchRepository{client: client, index: index}
}

func (r *orderSearchRepository) Index(ctx context.Context, doc *domain.OrderDocument) error {
	if doc == nil {
		return nil
	}
	return r.client.Index(ctx, r.index, doc.OrderID, doc)
}

func (r *orderSearchRepository) Get(ctx context.Context, orderID string) (*domain.OrderDocument, error) {
	query := map[string]any{
		"size": 1,
		"query": map[string]any{
			"term": map[string]any{"order_id.keyword": orderID},
		},
	}
	var resp esSearchResponse
	if err := r.client.Search(ctx, r.index, query, &resp); err != nil {
		return nil, err
	}
	if len(resp.Hits.Hits) == 0 {
		return nil, nil
	}
	var doc domain.OrderDocument
	if err := json.Unmarshal(resp.Hits.Hits[0].Source, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *orderSearchRepository) Search(ctx context.Context, q *domain.OrderSearchQuery) ([]*domain.OrderDocument, int64, error) {
	filter := make([]map[string]any, 0, 2)
	if q.CustomerID != "" {
		filter = append(filter, map[string]any{
			"term": map[string]any{"customer_id.keyword": q.CustomerID},
		})
	}
	if q.Status != "" {
		filter = append(filter, map[string]any{
			"term": map[string]any{"status.keyword": q.Status},
		})
	}

	query := map[string]any{
		"from": (q.Page - 1) * q.Size,
		"size": q.Size,
		"sort": []map[string]any{{"created_at": map[string]any{"order": "desc"}}},
	}
	if len(filter) == 0 {
		query["query"] = map[string]any{"match_all": map[string]any{}}
	} else {
		query["query"] = map[string]any{
			"bool": map[string]any{"filter": filter},
		}
	}

	var resp esSearchResponse
	if err := r.client.Search(ctx, r.index, query, &resp); err != nil {
		return nil, 0, err
	}
	docs := make([]*domain.OrderDocument, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var doc domain.OrderDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}
		docs = append(docs, &doc)
	}
	return docs, resp.Hits.Total.Value, nil
}

func (r *orderSearchRepository) Delete(ctx context.Context, orderID string) error {
	return r.client.Delete(ctx, r.index, orderID)
}
