package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
)

// ErrVersionConflict 乐观锁版本冲突，调用方应重新加载聚合后重试。
var ErrVersionConflict = errors.New("optimistic lock failed: product modified by another transaction")

// productRepository 商品仓储实现
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建并返回一个新的 productRepository 实例。
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	var model ProductModel
	if err := r.getDB(ctx).WithContext(ctx).Where("product_id = ?", productID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	reviews, err := r.loadReviews(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toProduct(&model, reviews), nil
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var model ProductModel
	if err := r.getDB(ctx).WithContext(ctx).Where("sku = ?", sku).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	reviews, err := r.loadReviews(ctx, model.ProductID)
	if err != nil {
		return nil, err
	}
	return toProduct(&model, reviews), nil
}

func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	var models []*ProductModel
	if err := r.getDB(ctx).WithContext(ctx).Limit(limit).Offset(offset).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, len(models))
	for i, m := range models {
		products[i] = toProduct(m, nil)
	}
	return products, nil
}

func (r *productRepository) Add(ctx context.Context, product *domain.Product) error {
	db := r.getDB(ctx)
	model := toProductModel(product)
	if err := db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt
	return r.saveReviews(ctx, product)
}

// Update 保存商品（带乐观锁）
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	db := r.getDB(ctx)

	currentVersion := product.Version()
	result := db.WithContext(ctx).Model(&ProductModel{}).
		Where("product_id = ? AND version = ?", product.ProductID, currentVersion).
		Updates(map[string]any{
			"name":            product.Name,
			"description":     product.Description,
			"price":           product.Price.Amount,
			"currency":        product.Price.Currency,
			"stock_quantity":  product.StockQuantity,
			"min_stock_level": product.MinStockLevel,
			"category_id":     product.CategoryID,
			"active":          product.Active,
			"featured":        product.Featured,
			"weight":          product.Weight,
			"length":          product.Dimensions.Length,
			"width":           product.Dimensions.Width,
			"height":          product.Dimensions.Height,
			"version":         currentVersion + 1,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	product.SetVersion(currentVersion + 1)
	product.UpdatedAt = time.Now()
	return r.saveReviews(ctx, product)
}

func (r *productRepository) Delete(ctx context.Context, productID string) error {
	db := r.getDB(ctx)
	if err := db.WithContext(ctx).Where("product_id = ?", productID).Delete(&ReviewModel{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Where("product_id = ?", productID).Delete(&ProductModel{}).Error
}

func (r *productRepository) Exists(ctx context.Context, productID string) (bool, error) {
	var count int64
	err := r.getDB(ctx).WithContext(ctx).Model(&ProductModel{}).
		Where("product_id = ?", productID).Count(&count).Error
	return count > 0, err
}

func (r *productRepository) Find(ctx context.Context, spec *persistence.Specification) ([]*domain.Product, error) {
	var models []*ProductModel
	query := spec.Apply(r.getDB(ctx).WithContext(ctx).Model(&ProductModel{}))
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, len(models))
	for i, m := range models {
		products[i] = toProduct(m, nil)
	}
	return products, nil
}

func (r *productRepository) FindSingle(ctx context.Context, spec *persistence.Specification) (*domain.Product, error) {
	var model ProductModel
	query := spec.Apply(r.getDB(ctx).WithContext(ctx).Model(&ProductModel{}))
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	reviews, err := r.loadReviews(ctx, model.ProductID)
	if err != nil {
		return nil, err
	}
	return toProduct(&model, reviews), nil
}

func (r *productRepository) Count(ctx context.Context, spec *persistence.Specification) (int64, error) {
	var count int64
	query := spec.ApplyFilters(r.getDB(ctx).WithContext(ctx).Model(&ProductModel{}))
	err := query.Count(&count).Error
	return count, err
}

func (r *productRepository) loadReviews(ctx context.Context, productID string) ([]*ReviewModel, error) {
	var reviews []*ReviewModel
	if err := r.getDB(ctx).WithContext(ctx).
		Where("product_id = ?", productID).Order("id").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// saveReviews 同步评论行：已存在的按 review_id 更新审核态，新增的插入。
// 评论只增不删，数量通常很小，逐条写入换取实现简单。
func (r *productRepository) saveReviews(ctx context.Context, product *domain.Product) error {
	db := r.getDB(ctx)
	for _, review := range product.Reviews {
		result := db.WithContext(ctx).Model(&ReviewModel{}).
			Where("review_id = ?", review.ReviewID).
			Updates(map[string]any{
				"rating":   review.Rating,
				"comment":  review.Comment,
				"approved": review.Approved,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := db.WithContext(ctx).Create(toReviewModel(product.ProductID, review)).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *productRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
