package domain

import (
	"time"

	"github.com/wyfcoding/pkg/eventsourcing"
)

// Kafka 主题，每种事件一个主题，名称为小写点分形式。
const (
	TopicProductCreated         = "product.created"
	TopicProductDetailsUpdated  = "product.details_updated"
	TopicProductPriceChanged    = "product.price_changed"
	TopicProductStockChanged    = "product.stock_changed"
	TopicProductStockLow        = "product.stock_low"
	TopicProductReviewAdded     = "product.review_added"
	TopicProductReviewApproved  = "product.review_approved"
	TopicProductFeaturedChanged = "product.featured_changed"
	TopicProductDiscontinued    = "product.discontinued"
)

// ProductCreatedEvent 商品创建事件
// 事件只携带聚合字段的拷贝，不持有聚合引用。
type ProductCreatedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Price         string `json:"price"`
	Currency      string `json:"currency"`
	CategoryID    string `json:"category_id"`
	Stock         int    `json:"stock"`
	Time          int64  `json:"time"`
}

func (e *ProductCreatedEvent) EventType() string     { return "ProductCreated" }
func (e *ProductCreatedEvent) AggregateID() string   { return e.ProductID }
func (e *ProductCreatedEvent) Version() int64        { return e.Ver }
func (e *ProductCreatedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *ProductCreatedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// ProductDetailsUpdatedEvent 商品基础信息更新事件
type ProductDetailsUpdatedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id"`
	Time          int64  `json:"time"`
}

func (e *ProductDetailsUpdatedEvent) EventType() string     { return "ProductDetailsUpdated" }
func (e *ProductDetailsUpdatedEvent) AggregateID() string   { return e.ProductID }
func (e *ProductDetailsUpdatedEvent) Version() int64        { return e.Ver }
func (e *ProductDetailsUpdatedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *ProductDetailsUpdatedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// ProductPriceChangedEvent 商品价格变更事件
type ProductPriceChangedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	ProductID     string `json:"product_id"`
	OldPrice      string `json:"old_price"`
	NewPrice      string `json:"new_price"`
	Currency      string `json:"currency"`
	Time          int64  `json:"time"`
}

func (e *ProductPriceChangedEvent) EventType() string     { return "ProductPriceChanged" }
func (e *ProductPriceChangedEvent) AggregateID() string   { return e.ProductID }
func (e *ProductPriceChangedEvent) Version() int64        { return e.Ver }
func (e *ProductPriceChangedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *ProductPriceChangedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// ProductStockChangedEvent 库存变更事件
// 携带变更前后数量与原因，供审计与读模型部分更新。
type ProductStockChangedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	ProductID     string `json:"product_id"`
	PreviousStock int    `json:"previous_stock"`
	NewStock      int    `json:"new_stock"`
	Reason        string `json:"reason"`
	Time          int64  `json:"time"`
}

func (e *ProductStockChangedEvent) EventType() string     { return "ProductStockChanged" }
func (e *ProductStockChangedEvent) AggregateID() string   { return e.ProductID }
func (e *ProductStockChangedEvent) Version() int64        { return e.Ver }
func (e *ProductStockChangedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *ProductStockChangedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// ProductStockLowEvent 库存低于警戒线事件
type ProductStockLowEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	ProductID     string `json:"product_id"`
	CurrentStock  int    `json:"current_stock"`
	MinStockLevel int    `json:"min_stock_level"`
	Time          int64  `json:"time"`
}

func (e *ProductStockLowEvent) EventType() string     { return "ProductStockLow" }
func (e *ProductStockLowEvent) AggregateID() string   { return e.ProductID }
func (e *ProductStockLowEvent) Version() int64        { return e.Ver }
func (e *ProductStockLowEvent) SetVersion(v int64)    { e.Ver = v }
func (e *ProductStockLowEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// ProductReviewAddedEvent 评论提交事件
type ProductReviewAddedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	ProductID     string `json:"product_id"`
	ReviewID      string `json:"review_id"`
	CustomerID    string `json:"customer_id"`
	Rating        int    `json:"rating"`
	Time          int64  `json:"time"`
}

func (e *ProductReviewAddedEvent) EventType() string     { return "ProductReviewAdded" }
func (e *ProductReviewAddedEvent) AggregateID() string   { return e.ProductID }
func (e *ProductReviewAddedEvent) Version() int64        { return e.Ver }
func (e *ProductReviewAddedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *ProductReviewAddedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// ProductReviewApprovedEvent 评论审核通过事件
// 携带审核后的平均评分，读模型可直接覆盖该字段。
type ProductReviewApprovedEvent struct {
	eventsourcing.BaseEvent
	EventID       string  `json:"event_id"`
	SchemaVersion int     `json:"schema_version"`
	ProductID     string  `json:"product_id"`
	ReviewID      string  `json:"review_id"`
	Rating        int     `json:"rating"`
	AverageRating float64 `json:"average_rating"`
	Time          int64   `json:"time"`
}

func (e *ProductReviewApprovedEvent) EventType() string     { return "ProductReviewApproved" }
func (e *ProductReviewApprovedEvent) AggregateID() string   { return e.ProductID }
func (e *ProductReviewApprovedEvent) Version() int64        { return e.Ver }
func (e *ProductReviewApprovedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *ProductReviewApprovedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// ProductFeaturedChangedEvent 推荐标记变更事件
type ProductFeaturedChangedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	ProductID     string `json:"product_id"`
	Featured      bool   `json:"featured"`
	Time          int64  `json:"time"`
}

func (e *ProductFeaturedChangedEvent) EventType() string     { return "ProductFeaturedChanged" }
func (e *ProductFeaturedChangedEvent) AggregateID() string   { return e.ProductID }
func (e *ProductFeaturedChangedEvent) Version() int64        { return e.Ver }
func (e *ProductFeaturedChangedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *ProductFeaturedChangedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }

// ProductDiscontinuedEvent 商品下架事件
type ProductDiscontinuedEvent struct {
	eventsourcing.BaseEvent
	EventID       string `json:"event_id"`
	SchemaVersion int    `json:"schema_version"`
	ProductID     string `json:"product_id"`
	Reason        string `json:"reason"`
	Time          int64  `json:"time"`
}

func (e *ProductDiscontinuedEvent) EventType() string     { return "ProductDiscontinued" }
func (e *ProductDiscontinuedEvent) AggregateID() string   { return e.ProductID }
func (e *ProductDiscontinuedEvent) Version() int64        { return e.Ver }
func (e *ProductDiscontinuedEvent) SetVersion(v int64)    { e.Ver = v }
func (e *ProductDiscontinuedEvent) OccurredAt() time.Time { return time.Unix(e.Time, 0) }
