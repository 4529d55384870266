package mysql

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/wyfcoding/ecommerce/internal/customer/domain"
	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

// CustomerModel 客户写模型，偏好设置序列化为 JSON 列。
type CustomerModel struct {
	gorm.Model
	CustomerID    string `gorm:"column:customer_id;type:varchar(32);uniqueIndex;not null;comment:客户ID"`
	Name          string `gorm:"column:name;type:varchar(255);not null;comment:姓名"`
	Email         string `gorm:"column:email;type:varchar(255);uniqueIndex;not null;comment:邮箱"`
	Phone         string `gorm:"column:phone;type:varchar(32);comment:电话"`
	Preferences   string `gorm:"column:preferences;type:json;comment:偏好设置"`
	LoyaltyPoints int    `gorm:"column:loyalty_points;not null;default:0;comment:积分"`
	Version       int64  `gorm:"column:version;not null;default:0;comment:聚合版本"`
}

func (CustomerModel) TableName() string { return "customers" }

// AddressModel 客户地址行，保存时整组重写。
type AddressModel struct {
	gorm.Model
	AddressID  string `gorm:"column:address_id;type:varchar(32);uniqueIndex;not null;comment:地址ID"`
	CustomerID string `gorm:"column:customer_id;type:varchar(32);index;not null;comment:客户ID"`
	Label      string `gorm:"column:label;type:varchar(64);comment:标签"`
	Street     string `gorm:"column:street;type:varchar(255);not null;comment:街道"`
	City       string `gorm:"column:city;type:varchar(128);comment:城市"`
	State      string `gorm:"column:state;type:varchar(128);comment:省/州"`
	PostalCode string `gorm:"column:postal_code;type:varchar(32);comment:邮编"`
	Country    string `gorm:"column:country;type:varchar(64);not null;comment:国家"`
	IsPrimary  bool   `gorm:"column:is_primary;not null;default:0;comment:是否主地址"`
}

func (AddressModel) TableName() string { return "customer_addresses" }

// EventPO 事件存储对象
type EventPO struct {
	gorm.Model
	AggregateID string `gorm:"column:aggregate_id;type:varchar(32);index;not null;comment:聚合ID"`
	EventType   string `gorm:"column:event_type;type:varchar(50);not null;comment:事件类型"`
	Payload     string `gorm:"column:payload;type:json;not null;comment:事件负载"`
	OccurredAt  int64  `gorm:"column:occurred_at;not null;comment:发生时间"`
}

func (EventPO) TableName() string { return "customer_events" }

func toCustomerModel(customer *domain.Customer) *CustomerModel {
	if customer == nil {
		return nil
	}
	prefs := ""
	if len(customer.Preferences) > 0 {
		if data, err := json.Marshal(customer.Preferences); err == nil {
			prefs = string(data)
		}
	}
	return &CustomerModel{
		Model: gorm.Model{
			ID:        customer.ID,
			CreatedAt: customer.CreatedAt,
			UpdatedAt: customer.UpdatedAt,
		},
		CustomerID:    customer.CustomerID,
		Name:          customer.Name,
		Email:         customer.Email.String(),
		Phone:         customer.Phone.String(),
		Preferences:   prefs,
		LoyaltyPoints: customer.LoyaltyPoints,
		Version:       customer.Version(),
	}
}

func toCustomer(model *CustomerModel, addresses []*AddressModel) *domain.Customer {
	if model == nil {
		return nil
	}
	c := &domain.Customer{
		ID:            model.ID,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
		CustomerID:    model.CustomerID,
		Name:          model.Name,
		Email:         vo.MustEmail(model.Email),
		Phone:         vo.MustPhone(model.Phone),
		Preferences:   make(map[string]string),
		LoyaltyPoints: model.LoyaltyPoints,
	}
	if model.Preferences != "" {
		_ = json.Unmarshal([]byte(model.Preferences), &c.Preferences)
	}
	for _, am := range addresses {
		c.Addresses = append(c.Addresses, domain.Address{
			AddressID:  am.AddressID,
			Label:      am.Label,
			Street:     am.Street,
			City:       am.City,
			State:      am.State,
			PostalCode: am.PostalCode,
			Country:    am.Country,
			Primary:    am.IsPrimary,
		})
	}
	c.SetID(c.CustomerID)
	c.SetVersion(model.Version)
	return c
}

func toAddressModels(customer *domain.Customer) []*AddressModel {
	models := make([]*AddressModel, 0, len(customer.Addresses))
	for _, addr := range customer.Addresses {
		models = append(models, &AddressModel{
			AddressID:  addr.AddressID,
			CustomerID: customer.CustomerID,
			Label:      addr.Label,
			Street:     addr.Street,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
			IsPrimary:  addr.Primary,
		})
	}
	return models
}
