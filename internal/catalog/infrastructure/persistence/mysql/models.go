package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

// ProductModel 商品写模型。
type ProductModel struct {
	gorm.Model
	ProductID     string          `gorm:"column:product_id;type:varchar(32);uniqueIndex;not null;comment:商品ID"`
	Name          string          `gorm:"column:name;type:varchar(255);not null;comment:名称"`
	Description   string          `gorm:"column:description;type:text;comment:描述"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(18,4);not null;comment:单价"`
	Currency      string          `gorm:"column:currency;type:varchar(3);not null;comment:币种"`
	SKU           string          `gorm:"column:sku;type:varchar(64);uniqueIndex;not null;comment:SKU"`
	StockQuantity int             `gorm:"column:stock_quantity;not null;default:0;comment:库存数量"`
	MinStockLevel int             `gorm:"column:min_stock_level;not null;default:0;comment:库存警戒线"`
	CategoryID    string          `gorm:"column:category_id;type:varchar(32);index;comment:类目ID"`
	Active        bool            `gorm:"column:active;not null;default:1;comment:是否在售"`
	Featured      bool            `gorm:"column:featured;not null;default:0;comment:是否推荐"`
	Weight        decimal.Decimal `gorm:"column:weight;type:decimal(10,3);default:0;comment:重量(kg)"`
	Length        decimal.Decimal `gorm:"column:length;type:decimal(10,2);default:0;comment:长(cm)"`
	Width         decimal.Decimal `gorm:"column:width;type:decimal(10,2);default:0;comment:宽(cm)"`
	Height        decimal.Decimal `gorm:"column:height;type:decimal(10,2);default:0;comment:高(cm)"`
	Version       int64           `gorm:"column:version;not null;default:0;comment:聚合版本"`
}

func (ProductModel) TableName() string { return "products" }

// ReviewModel 商品评论行，随聚合一起读写。
type ReviewModel struct {
	gorm.Model
	ReviewID   string `gorm:"column:review_id;type:varchar(32);uniqueIndex;not null;comment:评论ID"`
	ProductID  string `gorm:"column:product_id;type:varchar(32);index:idx_product_customer,unique;not null;comment:商品ID"`
	CustomerID string `gorm:"column:customer_id;type:varchar(32);index:idx_product_customer,unique;not null;comment:客户ID"`
	Rating     int    `gorm:"column:rating;not null;comment:评分"`
	Comment    string `gorm:"column:comment;type:text;comment:评论内容"`
	Approved   bool   `gorm:"column:approved;not null;default:0;comment:是否已审核"`
}

func (ReviewModel) TableName() string { return "product_reviews" }

// EventPO 事件存储对象
type EventPO struct {
	gorm.Model
	AggregateID string `gorm:"column:aggregate_id;type:varchar(32);index;not null;comment:聚合ID"`
	EventType   string `gorm:"column:event_type;type:varchar(50);not null;comment:事件类型"`
	Payload     string `gorm:"column:payload;type:json;not null;comment:事件负载"`
	OccurredAt  int64  `gorm:"column:occurred_at;not null;comment:发生时间"`
}

func (EventPO) TableName() string { return "product_events" }

func toProductModel(product *domain.Product) *ProductModel {
	if product == nil {
		return nil
	}
	return &ProductModel{
		Model: gorm.Model{
			ID:        product.ID,
			CreatedAt: product.CreatedAt,
			UpdatedAt: product.UpdatedAt,
		},
		ProductID:     product.ProductID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price.Amount,
		Currency:      product.Price.Currency,
		SKU:           product.SKU,
		StockQuantity: product.StockQuantity,
		MinStockLevel: product.MinStockLevel,
		CategoryID:    product.CategoryID,
		Active:        product.Active,
		Featured:      product.Featured,
		Weight:        product.Weight,
		Length:        product.Dimensions.Length,
		Width:         product.Dimensions.Width,
		Height:        product.Dimensions.Height,
		Version:       product.Version(),
	}
}

func toProduct(model *ProductModel, reviews []*ReviewModel) *domain.Product {
	if model == nil {
		return nil
	}
	p := &domain.Product{
		ID:            model.ID,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
		ProductID:     model.ProductID,
		Name:          model.Name,
		Description:   model.Description,
		Price:         vo.Money{Amount: model.Price, Currency: model.Currency},
		SKU:           model.SKU,
		StockQuantity: model.StockQuantity,
		MinStockLevel: model.MinStockLevel,
		CategoryID:    model.CategoryID,
		Active:        model.Active,
		Featured:      model.Featured,
		Weight:        model.Weight,
		Dimensions: domain.Dimensions{
			Length: model.Length,
			Width:  model.Width,
			Height: model.Height,
		},
	}
	for _, rm := range reviews {
		p.Reviews = append(p.Reviews, toReview(rm))
	}
	p.SetID(p.ProductID)
	p.SetVersion(model.Version)
	return p
}

func toReview(model *ReviewModel) domain.Review {
	return domain.Review{
		ReviewID:   model.ReviewID,
		CustomerID: model.CustomerID,
		Rating:     model.Rating,
		Comment:    model.Comment,
		Approved:   model.Approved,
		CreatedAt:  model.CreatedAt,
	}
}

func toReviewModel(productID string, review domain.Review) *ReviewModel {
	return &ReviewModel{
		Model:      gorm.Model{CreatedAt: review.CreatedAt, UpdatedAt: time.Now()},
		ReviewID:   review.ReviewID,
		ProductID:  productID,
		CustomerID: review.CustomerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		Approved:   review.Approved,
	}
}
