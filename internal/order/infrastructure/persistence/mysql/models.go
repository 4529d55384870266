package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

// OrderModel 订单写模型，支付记录至多一条，直接内联列。
type OrderModel struct {
	gorm.Model
	OrderID         string          `gorm:"column:order_id;type:varchar(32);uniqueIndex;not null;comment:订单ID"`
	CustomerID      string          `gorm:"column:customer_id;type:varchar(32);index;not null;comment:客户ID"`
	Status          string          `gorm:"column:status;type:varchar(20);not null;comment:状态"`
	Currency        string          `gorm:"column:currency;type:varchar(3);not null;comment:币种"`
	ShippingAddress string          `gorm:"column:shipping_address;type:varchar(512);comment:收货地址"`
	BillingAddress  string          `gorm:"column:billing_address;type:varchar(512);comment:账单地址"`
	TrackingNumber  string          `gorm:"column:tracking_number;type:varchar(64);comment:运单号"`
	Carrier         string          `gorm:"column:carrier;type:varchar(64);comment:承运商"`
	CancelReason    string          `gorm:"column:cancel_reason;type:varchar(255);comment:取消原因"`
	PaymentID       string          `gorm:"column:payment_id;type:varchar(32);comment:支付ID"`
	PaymentAmount   decimal.Decimal `gorm:"column:payment_amount;type:decimal(18,4);default:0;comment:支付金额"`
	PaymentMethod   string          `gorm:"column:payment_method;type:varchar(32);comment:支付方式"`
	PaidAt          *time.Time      `gorm:"column:paid_at;comment:支付时间"`
	Version         int64           `gorm:"column:version;not null;default:0;comment:聚合版本"`
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel 订单行，保存时整组重写。
type OrderItemModel struct {
	gorm.Model
	OrderID     string          `gorm:"column:order_id;type:varchar(32);index;not null;comment:订单ID"`
	ProductID   string          `gorm:"column:product_id;type:varchar(32);not null;comment:商品ID"`
	ProductName string          `gorm:"column:product_name;type:varchar(255);not null;comment:商品名称快照"`
	Quantity    int             `gorm:"column:quantity;not null;comment:数量"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:decimal(18,4);not null;comment:单价快照"`
	Discount    decimal.Decimal `gorm:"column:discount;type:decimal(18,4);default:0;comment:折扣"`
}

func (OrderItemModel) TableName() string { return "order_items" }

// EventPO 事件存储对象
type EventPO struct {
	gorm.Model
	AggregateID string `gorm:"column:aggregate_id;type:varchar(32);index;not null;comment:聚合ID"`
	EventType   string `gorm:"column:event_type;type:varchar(50);not null;comment:事件类型"`
	Payload     string `gorm:"column:payload;type:json;not null;comment:事件负载"`
	OccurredAt  int64  `gorm:"column:occurred_at;not null;comment:发生时间"`
}

func (EventPO) TableName() string { return "order_events" }

func toOrderModel(order *domain.Order) *OrderModel {
	if order == nil {
		return nil
	}
	model := &OrderModel{
		Model: gorm.Model{
			ID:        order.ID,
			CreatedAt: order.CreatedAt,
			UpdatedAt: order.UpdatedAt,
		},
		OrderID:         order.OrderID,
		CustomerID:      order.CustomerID,
		Status:          string(order.Status),
		Currency:        order.TotalAmount().Currency,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		TrackingNumber:  order.TrackingNumber,
		Carrier:         order.Carrier,
		CancelReason:    order.CancelReason,
		Version:         order.Version(),
	}
	if order.Payment != nil {
		paidAt := order.Payment.PaidAt
		model.PaymentID = order.Payment.PaymentID
		model.PaymentAmount = order.Payment.Amount.Amount
		model.PaymentMethod = order.Payment.Method
		model.PaidAt = &paidAt
	}
	return model
}

func toOrder(model *OrderModel, items []*OrderItemModel) *domain.Order {
	if model == nil {
		return nil
	}
	o := &domain.Order{
		ID:              model.ID,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
		OrderID:         model.OrderID,
		CustomerID:      model.CustomerID,
		Status:          domain.Status(model.Status),
		ShippingAddress: model.ShippingAddress,
		BillingAddress:  model.BillingAddress,
		TrackingNumber:  model.TrackingNumber,
		Carrier:         model.Carrier,
		CancelReason:    model.CancelReason,
	}
	for _, im := range items {
		o.Items = append(o.Items, domain.OrderItem{
			ProductID:   im.ProductID,
			ProductName: im.ProductName,
			Quantity:    im.Quantity,
			UnitPrice:   vo.Money{Amount: im.UnitPrice, Currency: model.Currency},
			Discount:    vo.Money{Amount: im.Discount, Currency: model.Currency},
		})
	}
	if model.PaymentID != "" {
		paidAt := time.Time{}
		if model.PaidAt != nil {
			paidAt = *model.PaidAt
		}
		o.Payment = &domain.Payment{
			PaymentID: model.PaymentID,
			Amount:    vo.Money{Amount: model.PaymentAmount, Currency: model.Currency},
			Method:    model.PaymentMethod,
			PaidAt:    paidAt,
		}
	}
	o.SetID(o.OrderID)
	o.SetVersion(model.Version)
	return o
}

func toItemModels(order *domain.Order) []*OrderItemModel {
	models := make([]*OrderItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		models = append(models, &OrderItemModel{
			OrderID:     order.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Amount,
			Discount:    item.Discount.Amount,
		})
	}
	return models
}
