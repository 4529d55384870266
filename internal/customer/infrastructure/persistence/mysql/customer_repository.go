package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"

	"github.com/wyfcoding/ecommerce/internal/customer/domain"
	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
)

// ErrVersionConflict 乐观锁版本冲突。
var ErrVersionConflict = errors.New("optimistic lock failed: customer modified by another transaction")

// customerRepository 客户仓储实现
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建并返回一个新的 customerRepository 实例。
func NewCustomerRepository(db *gorm.DB) domain.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	var model CustomerModel
	if err := r.getDB(ctx).WithContext(ctx).Where("customer_id = ?", customerID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	addresses, err := r.loadAddresses(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toCustomer(&model, addresses), nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var model CustomerModel
	if err := r.getDB(ctx).WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	addresses, err := r.loadAddresses(ctx, model.CustomerID)
	if err != nil {
		return nil, err
	}
	return toCustomer(&model, addresses), nil
}

func (r *customerRepository) GetAll(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	var models []*CustomerModel
	if err := r.getDB(ctx).WithContext(ctx).
		Order("id").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, err
	}
	customers := make([]*domain.Customer, len(models))
	for i, m := range models {
		customers[i] = toCustomer(m, nil)
	}
	return customers, nil
}

func (r *customerRepository) Add(ctx context.Context, customer *domain.Customer) error {
	db := r.getDB(ctx)
	model := toCustomerModel(customer)
	if err := db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	customer.ID = model.ID
	customer.CreatedAt = model.CreatedAt
	customer.UpdatedAt = model.UpdatedAt
	return r.saveAddresses(ctx, customer)
}

// Update 保存客户（带乐观锁），地址整组重写。
func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	db := r.getDB(ctx)

	currentVersion := customer.Version()
	model := toCustomerModel(customer)
	result := db.WithContext(ctx).Model(&CustomerModel{}).
		Where("customer_id = ? AND version = ?", customer.CustomerID, currentVersion).
		Updates(map[string]any{
			"name":           model.Name,
			"email":          model.Email,
			"phone":          model.Phone,
			"preferences":    model.Preferences,
			"loyalty_points": model.LoyaltyPoints,
			"version":        currentVersion + 1,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	customer.SetVersion(currentVersion + 1)
	customer.UpdatedAt = time.Now()
	return r.saveAddresses(ctx, customer)
}

func (r *customerRepository) Delete(ctx context.Context, customerID string) error {
	db := r.getDB(ctx)
	if err := db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&AddressModel{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&CustomerModel{}).Error
}

func (r *customerRepository) Exists(ctx context.Context, customerID string) (bool, error) {
	var count int64
	err := r.getDB(ctx).WithContext(ctx).Model(&CustomerModel{}).
		Where("customer_id = ?", customerID).Count(&count).Error
	return count > 0, err
}

func (r *customerRepository) Find(ctx context.Context, spec *persistence.Specification) ([]*domain.Customer, error) {
	var models []*CustomerModel
	query := spec.Apply(r.getDB(ctx).WithContext(ctx).Model(&CustomerModel{}))
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	customers := make([]*domain.Customer, len(models))
	for i, m := range models {
		customers[i] = toCustomer(m, nil)
	}
	return customers, nil
}

func (r *customerRepository) FindSingle(ctx context.Context, spec *persistence.Specification) (*domain.Customer, error) {
	var model CustomerModel
	query := spec.Apply(r.getDB(ctx).WithContext(ctx).Model(&CustomerModel{}))
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	addresses, err := r.loadAddresses(ctx, model.CustomerID)
	if err != nil {
		return nil, err
	}
	return toCustomer(&model, addresses), nil
}

func (r *customerRepository) Count(ctx context.Context, spec *persistence.Specification) (int64, error) {
	var count int64
	query := spec.ApplyFilters(r.getDB(ctx).WithContext(ctx).Model(&CustomerModel{}))
	err := query.Count(&count).Error
	return count, err
}

func (r *customerRepository) loadAddresses(ctx context.Context, customerID string) ([]*AddressModel, error) {
	var addresses []*AddressModel
	if err := r.getDB(ctx).WithContext(ctx).
		Where("customer_id = ?", customerID).Order("id").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// saveAddresses 删除后整组重建地址行，保证主地址唯一性与聚合一致。
func (r *customerRepository) saveAddresses(ctx context.Context, customer *domain.Customer) error {
	db := r.getDB(ctx)
	if err := db.WithContext(ctx).
		Where("customer_id = ?", customer.CustomerID).Unscoped().Delete(&AddressModel{}).Error; err != nil {
		return err
	}
	models := toAddressModels(customer)
	if len(models) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&models).Error
}

func (r *customerRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
