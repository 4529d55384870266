package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
)

// ErrVersionConflict 乐观锁版本冲突。
var ErrVersionConflict = errors.New("optimistic lock failed: order modified by another transaction")

// orderRepository 订单仓储实现
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建并返回一个新的 orderRepository 实例。
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var model OrderModel
	if err := r.getDB(ctx).WithContext(ctx).Where("order_id = ?", orderID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	items, err := r.loadItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toOrder(&model, items), nil
}

func (r *orderRepository) GetByCustomerID(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error) {
	var models []*OrderModel
	if err := r.getDB(ctx).WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, models)
}

func (r *orderRepository) GetAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	var models []*OrderModel
	if err := r.getDB(ctx).WithContext(ctx).
		Order("id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, models)
}

func (r *orderRepository) Add(ctx context.Context, order *domain.Order) error {
	db := r.getDB(ctx)
	model := toOrderModel(order)
	if err := db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	order.ID = model.ID
	order.CreatedAt = model.CreatedAt
	order.UpdatedAt = model.UpdatedAt
	return r.saveItems(ctx, order)
}

// Update 保存订单（带乐观锁），订单行整组重写。
func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	db := r.getDB(ctx)

	currentVersion := order.Version()
	model := toOrderModel(order)
	result := db.WithContext(ctx).Model(&OrderModel{}).
		Where("order_id = ? AND version = ?", order.OrderID, currentVersion).
		Updates(map[string]any{
			"status":          model.Status,
			"currency":        model.Currency,
			"tracking_number": model.TrackingNumber,
			"carrier":         model.Carrier,
			"cancel_reason":   model.CancelReason,
			"payment_id":      model.PaymentID,
			"payment_amount":  model.PaymentAmount,
			"payment_method":  model.PaymentMethod,
			"paid_at":         model.PaidAt,
			"version":         currentVersion + 1,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	order.SetVersion(currentVersion + 1)
	order.UpdatedAt = time.Now()
	return r.saveItems(ctx, order)
}

func (r *orderRepository) Delete(ctx context.Context, orderID string) error {
	db := r.getDB(ctx)
	if err := db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&OrderItemModel{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&OrderModel{}).Error
}

func (r *orderRepository) Exists(ctx context.Context, orderID string) (bool, error) {
	var count int64
	err := r.getDB(ctx).WithContext(ctx).Model(&OrderModel{}).
		Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, err
}

func (r *orderRepository) Find(ctx context.Context, spec *persistence.Specification) ([]*domain.Order, error) {
	var models []*OrderModel
	query := spec.Apply(r.getDB(ctx).WithContext(ctx).Model(&OrderModel{}))
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, models)
}

func (r *orderRepository) FindSingle(ctx context.Context, spec *persistence.Specification) (*domain.Order, error) {
	var model OrderModel
	query := spec.Apply(r.getDB(ctx).WithContext(ctx).Model(&OrderModel{}))
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	items, err := r.loadItems(ctx, model.OrderID)
	if err != nil {
		return nil, err
	}
	return toOrder(&model, items), nil
}

func (r *orderRepository) Count(ctx context.Context, spec *persistence.Specification) (int64, error) {
	var count int64
	query := spec.ApplyFilters(r.getDB(ctx).WithContext(ctx).Model(&OrderModel{}))
	err := query.Count(&count).Error
	return count, err
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]*OrderItemModel, error) {
	var items []*OrderItemModel
	if err := r.getDB(ctx).WithContext(ctx).
		Where("order_id = ?", orderID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// saveItems 删除后整组重建订单行。行数少且在事务内执行，换取合并与删除逻辑的简单。
func (r *orderRepository) saveItems(ctx context.Context, order *domain.Order) error {
	db := r.getDB(ctx)
	if err := db.WithContext(ctx).
		Where("order_id = ?", order.OrderID).Unscoped().Delete(&OrderItemModel{}).Error; err != nil {
		return err
	}
	items := toItemModels(order)
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *orderRepository) hydrate(ctx context.Context, models []*OrderModel) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(models))
	for _, m := range models {
		items, err := r.loadItems(ctx, m.OrderID)
		if err != nil {
			return nil, err
		}
		orders = append(orders, toOrder(m, items))
	}
	return orders, nil
}

func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
