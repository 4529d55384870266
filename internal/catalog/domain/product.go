// Package domain 包含商品目录服务的领域模型。
// Product 为聚合根：状态只能通过行为方法变更，行为方法校验不变量并记录领域事件，
// 事件在事务提交时随 Outbox 一并落库。
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/eventsourcing"

	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

const eventSchemaVersion = 1

// Dimensions 商品外形尺寸（厘米）。
type Dimensions struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
}

// Review 商品评论，属于 Product 聚合内部实体。
// 新评论默认未审核，未审核评论不计入平均评分。
type Review struct {
	ReviewID   string    `json:"review_id"`
	CustomerID string    `json:"customer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// Product 商品聚合根
type Product struct {
	eventsourcing.AggregateRoot
	ID            uint       `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ProductID     string     `json:"product_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         vo.Money   `json:"price"`
	SKU           string     `json:"sku"`
	StockQuantity int        `json:"stock_quantity"`
	MinStockLevel int        `json:"min_stock_level"`
	CategoryID    string     `json:"category_id"`
	Active        bool       `json:"active"`
	Featured      bool       `json:"featured"`
	Weight        decimal.Decimal `json:"weight"`
	Dimensions    Dimensions `json:"dimensions"`
	Reviews       []Review   `json:"reviews"`
}

// NewProduct 创建商品聚合，所有不变量在第一个事件产生之前校验完毕。
func NewProduct(productID, name, description string, price vo.Money, sku string, stock, minStock int, categoryID string) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(name) > 255 {
		return nil, &ValidationError{Field: "name", Reason: "must not exceed 255 characters"}
	}
	if !price.IsPositive() {
		return nil, &ValidationError{Field: "price", Reason: "must be positive"}
	}
	if strings.TrimSpace(sku) == "" {
		return nil, &ValidationError{Field: "sku", Reason: "must not be empty"}
	}
	if stock < 0 {
		return nil, &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	if minStock < 0 {
		return nil, &ValidationError{Field: "min_stock_level", Reason: "must not be negative"}
	}

	now := time.Now()
	p := &Product{
		ProductID:     productID,
		Name:          strings.TrimSpace(name),
		Description:   description,
		Price:         price,
		SKU:           strings.ToUpper(strings.TrimSpace(sku)),
		StockQuantity: stock,
		MinStockLevel: minStock,
		CategoryID:    categoryID,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	p.ApplyChange(&ProductCreatedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		ProductID:     p.ProductID,
		Name:          p.Name,
		SKU:           p.SKU,
		Price:         p.Price.Amount.String(),
		Currency:      p.Price.Currency,
		CategoryID:    p.CategoryID,
		Stock:         p.StockQuantity,
		Time:          now.Unix(),
	})
	return p, nil
}

// UpdateDetails 更新名称、描述与类目。
func (p *Product) UpdateDetails(name, description, categoryID string) error {
	if err := p.ensureActive(); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.CategoryID = categoryID
	p.touch()

	p.ApplyChange(&ProductDetailsUpdatedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		ProductID:     p.ProductID,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		Time:          p.UpdatedAt.Unix(),
	})
	return nil
}

// ChangePrice 调整价格，新价格必须为正且币种一致。
func (p *Product) ChangePrice(newPrice vo.Money) error {
	if err := p.ensureActive(); err != nil {
		return err
	}
	if !newPrice.IsPositive() {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}
	if newPrice.Currency != p.Price.Currency {
		return fmt.Errorf("%w: %s vs %s", vo.ErrCurrencyMismatch, p.Price.Currency, newPrice.Currency)
	}

	old := p.Price
	p.Price = newPrice
	p.touch()

	p.ApplyChange(&ProductPriceChangedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		ProductID:     p.ProductID,
		OldPrice:      old.Amount.String(),
		NewPrice:      newPrice.Amount.String(),
		Currency:      newPrice.Currency,
		Time:          p.UpdatedAt.Unix(),
	})
	return nil
}

// IncreaseStock 增加库存，delta 必须为正。
func (p *Product) IncreaseStock(delta int, reason string) error {
	if err := p.ensureActive(); err != nil {
		return err
	}
	if delta <= 0 {
		return &ValidationError{Field: "delta", Reason: "must be positive"}
	}

	previous := p.StockQuantity
	p.StockQuantity += delta
	p.touch()
	p.applyStockChanged(previous, reason)
	return nil
}

// DecreaseStock 扣减库存，delta 必须为正且不可将库存扣为负数。
// 扣减后低于警戒线时额外产生库存告警事件。
func (p *Product) DecreaseStock(delta int, reason string) error {
	if err := p.ensureActive(); err != nil {
		return err
	}
	if delta <= 0 {
		return &ValidationError{Field: "delta", Reason: "must be positive"}
	}
	if delta > p.StockQuantity {
		return &InsufficientStockError{ProductID: p.ProductID, Available: p.StockQuantity, Requested: delta}
	}

	previous := p.StockQuantity
	p.StockQuantity -= delta
	p.touch()
	p.applyStockChanged(previous, reason)

	if p.StockQuantity <= p.MinStockLevel {
		p.ApplyChange(&ProductStockLowEvent{
			EventID:       uuid.NewString(),
			SchemaVersion: eventSchemaVersion,
			ProductID:     p.ProductID,
			CurrentStock:  p.StockQuantity,
			MinStockLevel: p.MinStockLevel,
			Time:          p.UpdatedAt.Unix(),
		})
	}
	return nil
}

func (p *Product) applyStockChanged(previous int, reason string) {
	p.ApplyChange(&ProductStockChangedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		ProductID:     p.ProductID,
		PreviousStock: previous,
		NewStock:      p.StockQuantity,
		Reason:        reason,
		Time:          p.UpdatedAt.Unix(),
	})
}

// AddReview 提交评论，每位客户对同一商品至多一条。
func (p *Product) AddReview(reviewID, customerID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	for _, r := range p.Reviews {
		if r.CustomerID == customerID {
			return ErrDuplicateReview
		}
	}

	review := Review{
		ReviewID:   reviewID,
		CustomerID: customerID,
		Rating:     rating,
		Comment:    comment,
		Approved:   false,
		CreatedAt:  time.Now(),
	}
	p.Reviews = append(p.Reviews, review)
	p.touch()

	p.ApplyChange(&ProductReviewAddedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		ProductID:     p.ProductID,
		ReviewID:      review.ReviewID,
		CustomerID:    review.CustomerID,
		Rating:        review.Rating,
		Time:          p.UpdatedAt.Unix(),
	})
	return nil
}

// ApproveReview 审核通过评论，通过后计入平均评分。
func (p *Product) ApproveReview(reviewID string) error {
	for i := range p.Reviews {
		if p.Reviews[i].ReviewID != reviewID {
			continue
		}
		if p.Reviews[i].Approved {
			return nil // 重复审核视为幂等
		}
		p.Reviews[i].Approved = true
		p.touch()

		p.ApplyChange(&ProductReviewApprovedEvent{
			EventID:       uuid.NewString(),
			SchemaVersion: eventSchemaVersion,
			ProductID:     p.ProductID,
			ReviewID:      reviewID,
			Rating:        p.Reviews[i].Rating,
			AverageRating: p.AverageRating(),
			Time:          p.UpdatedAt.Unix(),
		})
		return nil
	}
	return ErrReviewNotFound
}

// AverageRating 已审核评论的平均评分，没有已审核评论时为 0。
func (p *Product) AverageRating() float64 {
	sum, count := 0, 0
	for _, r := range p.Reviews {
		if r.Approved {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// SetFeatured 设置推荐标记，标记未变化时不产生事件。
func (p *Product) SetFeatured(featured bool) {
	if p.Featured == featured {
		return
	}
	p.Featured = featured
	p.touch()

	p.ApplyChange(&ProductFeaturedChangedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		ProductID:     p.ProductID,
		Featured:      featured,
		Time:          p.UpdatedAt.Unix(),
	})
}

// SetShipping 设置重量与尺寸。
func (p *Product) SetShipping(weight decimal.Decimal, dims Dimensions) error {
	if weight.IsNegative() {
		return &ValidationError{Field: "weight", Reason: "must not be negative"}
	}
	p.Weight = weight
	p.Dimensions = dims
	p.touch()
	return nil
}

// Discontinue 下架商品，下架后所有变更行为被拒绝。
func (p *Product) Discontinue(reason string) error {
	if !p.Active {
		return ErrProductDiscontinued
	}
	p.Active = false
	p.touch()

	p.ApplyChange(&ProductDiscontinuedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		ProductID:     p.ProductID,
		Reason:        reason,
		Time:          p.UpdatedAt.Unix(),
	})
	return nil
}

func (p *Product) ensureActive() error {
	if !p.Active {
		return ErrProductDiscontinued
	}
	return nil
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
}
