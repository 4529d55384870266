package elasticsearch

import (
	"context"
	"encoding/json"
	"strconv"

	search_pkg "github.com/wyfcoding/pkg/search"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

type productSearchRepository struct {
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

type esFacetsResponse struct {
	Aggregations struct {
		Categories struct {
			Buckets []struct {
				Key      string `json:"key"`
				DocCount int64  `json:"doc_count"`
			} `json:"buckets"`
		} `json:"categories"`
		PriceRanges struct {
			Buckets []struct {
				Key      string `json:"key"`
				DocCount int64  `json:"doc_count"`
			} `json:"buckets"`
		} `json:"price_ranges"`
		AvgRating struct {
			Value float64 `json:"value"`
		} `json:"avg_rating"`
	} `json:"aggregations"`
}

// NewProductSearchRepository 创建商品检索仓储。
func NewProductSearchRepository(client *search_pkg.Client, index string) domain.ProductSearchRepository {
	if client == nil {
		return nil
	}
	if index == "" {
		index = "catalog_products"
	}
	return &productSearchRepository{client: client, index: index}
}

func (r *productSearchRepository) Index(ctx context.Context, doc *domain.ProductDocument) error {
	if doc == nil {
		return nil
	}
	return r.client.Index(ctx, r.index, doc.ProductID, doc)
}

func (r *productSearchRepository) Get(ctx context.Context, productID string) (*domain.ProductDocument, error) {
	query := map[string]any{
		"size": 1,
		"query": map[string]any{
			"term": map[string]any{"product_id.keyword": productID},
		},
	}
	var resp esSearchResponse
	if err := r.client.Search(ctx, r.index, query, &resp); err != nil {
		return nil, err
	}
	if len(resp.Hits.Hits) == 0 {
		return nil, nil
	}
	var doc domain.ProductDocument
	if err := json.Unmarshal(resp.Hits.Hits[0].Source, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *productSearchRepository) Search(ctx context.Context, q *domain.ProductSearchQuery) ([]*domain.ProductDocument, int64, error) {
	query := map[string]any{
		"from":  (q.Page - 1) * q.Size,
		"size":  q.Size,
		"query": buildQuery(q),
		"sort":  buildSort(q.SortBy),
	}

	var resp esSearchResponse
	if err := r.client.Search(ctx, r.index, query, &resp); err != nil {
		return nil, 0, err
	}
	docs := make([]*domain.ProductDocument, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var doc domain.ProductDocument
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}
		docs = append(docs, &doc)
	}
	return docs, resp.Hits.Total.Value, nil
}

func (r *productSearchRepository) Facets(ctx context.Context, q *domain.ProductSearchQuery) (*domain.ProductFacets, error) {
	query := map[string]any{
		"size":  0,
		"query": buildQuery(q),
		"aggs": map[string]any{
			"categories": map[string]any{
				"terms": map[string]any{"field": "category_id.keyword", "size": 50},
			},
			"price_ranges": map[string]any{
				"range": map[string]any{
					"field": "price_value",
					"ranges": []map[string]any{
						{"key": "0-10", "to": 10},
						{"key": "10-50", "from": 10, "to": 50},
						{"key": "50-100", "from": 50, "to": 100},
						{"key": "100+", "from": 100},
					},
				},
			},
			"avg_rating": map[string]any{
				"avg": map[string]any{"field": "average_rating"},
			},
		},
	}

	var resp esFacetsResponse
	if err := r.client.Search(ctx, r.index, query, &resp); err != nil {
		return nil, err
	}

	facets := &domain.ProductFacets{
		CategoryCounts: make(map[string]int64, len(resp.Aggregations.Categories.Buckets)),
		PriceBuckets:   make(map[string]int64, len(resp.Aggregations.PriceRanges.Buckets)),
		AverageRating:  resp.Aggregations.AvgRating.Value,
	}
	for _, bucket := range resp.Aggregations.Categories.Buckets {
		facets.CategoryCounts[bucket.Key] = bucket.DocCount
	}
	for _, bucket := range resp.Aggregations.PriceRanges.Buckets {
		facets.PriceBuckets[bucket.Key] = bucket.DocCount
	}
	return facets, nil
}

func (r *productSearchRepository) Delete(ctx context.Context, productID string) error {
	return r.client.Delete(ctx, r.index, productID)
}

func buildQuery(q *domain.ProductSearchQuery) map[string]any {
	must := make([]map[string]any, 0, 2)
	filter := make([]map[string]any, 0, 3)

	if q.Keyword != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":  q.Keyword,
				"fields": []string{"name^2", "description", "sku"},
			},
		})
	}
	if q.CategoryID != "" {
		filter = append(filter, map[string]any{
			"term": map[string]any{"category_id.keyword": q.CategoryID},
		})
	}
	if q.ActiveOnly {
		filter = append(filter, map[string]any{
			"term": map[string]any{"active": true},
		})
	}
	if priceRange := buildPriceRange(q.PriceMin, q.PriceMax); priceRange != nil {
		filter = append(filter, priceRange)
	}

	if len(must) == 0 && len(filter) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}
	boolQuery := map[string]any{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	return map[string]any{"bool": boolQuery}
}

func buildPriceRange(minPrice, maxPrice string) map[string]any {
	bounds := map[string]any{}
	if v, err := strconv.ParseFloat(minPrice, 64); err == nil && minPrice != "" {
		bounds["gte"] = v
	}
	if v, err := strconv.ParseFloat(maxPrice, 64); err == nil && maxPrice != "" {
		bounds["lte"] = v
	}
	if len(bounds) == 0 {
		return nil
	}
	return map[string]any{"range": map[string]any{"price_value": bounds}}
}

func buildSort(sortBy string) []map[string]any {
	switch sortBy {
	case "price_asc":
		return []map[string]any{{"price_value": map[string]any{"order": "asc"}}}
	case "price_desc":
		return []map[string]any{{"price_value": map[string]any{"order": "desc"}}}
	case "rating":
		return []map[string]any{{"average_rating": map[string]any{"order": "desc"}}}
	case "newest":
		return []map[string]any{{"updated_at": map[string]any{"order": "desc"}}}
	default:
		return []map[string]any{{"_score": map[string]any{"order": "desc"}}, {"updated_at": map[string]any{"order": "desc"}}}
	}
}
