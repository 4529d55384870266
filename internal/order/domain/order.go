// Package domain 包含订单服务的领域模型。
// Order 为聚合根，订单行与支付记录随聚合一起读写；
// 状态机迁移与订单行变更都通过行为方法完成并记录领域事件。
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/pkg/eventsourcing"

	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

const eventSchemaVersion = 1

// Status 订单状态。
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// OrderItem 订单行，商品名称与单价为下单时的快照。
type OrderItem struct {
	ProductID   string   `json:"product_id"`
	ProductName string   `json:"product_name"`
	Quantity    int      `json:"quantity"`
	UnitPrice   vo.Money `json:"unit_price"`
	Discount    vo.Money `json:"discount"`
}

// Subtotal 行小计 = 单价 × 数量 − 折扣。
func (i OrderItem) Subtotal() vo.Money {
	gross := i.UnitPrice.MulInt(i.Quantity)
	net, err := gross.Sub(i.Discount)
	if err != nil {
		return gross
	}
	return net
}

// Payment 支付记录，一个订单至多一条。
type Payment struct {
	PaymentID string    `json:"payment_id"`
	Amount    vo.Money  `json:"amount"`
	Method    string    `json:"method"`
	PaidAt    time.Time `json:"paid_at"`
}

// Order 订单聚合根
type Order struct {
	eventsourcing.AggregateRoot
	ID              uint        `json:"id"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	OrderID         string      `json:"order_id"`
	CustomerID      string      `json:"customer_id"`
	Status          Status      `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	BillingAddress  string      `json:"billing_address"`
	Items           []OrderItem `json:"items"`
	Payment         *Payment    `json:"payment,omitempty"`
	TrackingNumber  string      `json:"tracking_number"`
	Carrier         string      `json:"carrier"`
	CancelReason    string      `json:"cancel_reason"`
}

// NewOrder 创建订单，所有订单行在第一个事件产生之前校验完毕。
func NewOrder(orderID, customerID, shippingAddress, billingAddress string, items []OrderItem) (*Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, &ValidationError{Field: "customer_id", Reason: "must not be empty"}
	}
	if len(items) == 0 {
		return nil, ErrOrderEmpty
	}

	now := time.Now()
	o := &Order{
		OrderID:         orderID,
		CustomerID:      customerID,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		BillingAddress:  billingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, item := range items {
		line, err := o.mergeItem(item)
		if err != nil {
			return nil, err
		}
		if line != nil {
			continue
		}
		if err := o.appendItem(item); err != nil {
			return nil, err
		}
	}

	total := o.TotalAmount()
	o.ApplyChange(&OrderCreatedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		OrderID:       o.OrderID,
		CustomerID:    o.CustomerID,
		Total:         total.Amount.String(),
		Currency:      total.Currency,
		ItemCount:     len(o.Items),
		Time:          now.Unix(),
	})
	return o, nil
}

// TotalAmount 订单总额 = Σ 行小计。
func (o *Order) TotalAmount() vo.Money {
	if len(o.Items) == 0 {
		return vo.Money{}
	}
	total := o.Items[0].Subtotal()
	for _, item := range o.Items[1:] {
		sum, err := total.Add(item.Subtotal())
		if err != nil {
			return total
		}
		total = sum
	}
	return total
}

// AddItem 添加订单行，已有同一商品时合并数量与折扣。仅 PENDING 状态允许。
func (o *Order) AddItem(productID, productName string, quantity int, unitPrice, discount vo.Money) error {
	if o.Status != StatusPending {
		return &StateConflictError{Current: o.Status, Action: "add item to"}
	}

	item := OrderItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Discount:    discount,
	}
	line, err := o.mergeItem(item)
	if err != nil {
		return err
	}
	if line == nil {
		if err := o.appendItem(item); err != nil {
			return err
		}
		line = &o.Items[len(o.Items)-1]
	}
	o.touch()
	o.applyItemAdded(*line)
	return nil
}

// mergeItem 并入已有的同商品行，合并数量与折扣。
// 没有同商品行时返回 nil，由调用方追加新行。
func (o *Order) mergeItem(item OrderItem) (*OrderItem, error) {
	for i := range o.Items {
		if o.Items[i].ProductID != item.ProductID {
			continue
		}
		merged := o.Items[i]
		merged.Quantity += item.Quantity
		mergedDiscount, err := merged.Discount.Add(item.Discount)
		if err != nil {
			return nil, err
		}
		merged.Discount = mergedDiscount
		if err := validateItem(merged); err != nil {
			return nil, err
		}
		o.Items[i] = merged
		return &o.Items[i], nil
	}
	return nil, nil
}

// RemoveItem 移除订单行，订单必须保留至少一行。仅 PENDING 状态允许。
func (o *Order) RemoveItem(productID string) error {
	if o.Status != StatusPending {
		return &StateConflictError{Current: o.Status, Action: "remove item from"}
	}
	if len(o.Items) == 1 && o.Items[0].ProductID == productID {
		return ErrOrderEmpty
	}

	for i := range o.Items {
		if o.Items[i].ProductID != productID {
			continue
		}
		o.Items = append(o.Items[:i], o.Items[i+1:]...)
		o.touch()

		total := o.TotalAmount()
		o.ApplyChange(&OrderItemRemovedEvent{
			EventID:       uuid.NewString(),
			SchemaVersion: eventSchemaVersion,
			OrderID:       o.OrderID,
			ProductID:     productID,
			Total:         total.Amount.String(),
			Currency:      total.Currency,
			Time:          o.UpdatedAt.Unix(),
		})
		return nil
	}
	return ErrItemNotFound
}

// UpdateItemQuantity 调整订单行数量。仅 PENDING 状态允许。
func (o *Order) UpdateItemQuantity(productID string, quantity int) error {
	if o.Status != StatusPending {
		return &StateConflictError{Current: o.Status, Action: "update item in"}
	}
	if quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	for i := range o.Items {
		if o.Items[i].ProductID != productID {
			continue
		}
		updated := o.Items[i]
		updated.Quantity = quantity
		if err := validateItem(updated); err != nil {
			return err
		}
		o.Items[i] = updated
		o.touch()

		total := o.TotalAmount()
		o.ApplyChange(&OrderItemQuantityChangedEvent{
			EventID:       uuid.NewString(),
			SchemaVersion: eventSchemaVersion,
			OrderID:       o.OrderID,
			ProductID:     productID,
			Quantity:      quantity,
			Total:         total.Amount.String(),
			Currency:      total.Currency,
			Time:          o.UpdatedAt.Unix(),
		})
		return nil
	}
	return ErrItemNotFound
}

// AttachPayment 附加支付，仅允许一次且金额必须与订单总额完全一致。
func (o *Order) AttachPayment(paymentID string, amount vo.Money, method string) error {
	if o.Status != StatusPending && o.Status != StatusConfirmed {
		return &StateConflictError{Current: o.Status, Action: "attach payment to"}
	}
	if o.Payment != nil {
		return ErrPaymentAlreadyAttached
	}

	total := o.TotalAmount()
	if amount.Currency != total.Currency || !amount.Equal(total) {
		return &PaymentMismatchError{
			Expected: total.String(),
			Actual:   amount.String(),
		}
	}

	now := time.Now()
	o.Payment = &Payment{
		PaymentID: paymentID,
		Amount:    amount,
		Method:    method,
		PaidAt:    now,
	}
	o.touch()

	o.ApplyChange(&OrderPaymentAttachedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		OrderID:       o.OrderID,
		PaymentID:     paymentID,
		Amount:        amount.Amount.String(),
		Currency:      amount.Currency,
		Method:        method,
		Time:          now.Unix(),
	})
	return nil
}

// Confirm 确认订单：PENDING → CONFIRMED。
func (o *Order) Confirm() error {
	if o.Status != StatusPending {
		return &StateConflictError{Current: o.Status, Action: "confirm"}
	}
	o.Status = StatusConfirmed
	o.touch()

	o.ApplyChange(&OrderConfirmedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		OrderID:       o.OrderID,
		CustomerID:    o.CustomerID,
		Time:          o.UpdatedAt.Unix(),
	})
	return nil
}

// Ship 发货：CONFIRMED → SHIPPED。
func (o *Order) Ship(trackingNumber, carrier string) error {
	if o.Status != StatusConfirmed {
		return &StateConflictError{Current: o.Status, Action: "ship"}
	}
	o.Status = StatusShipped
	o.TrackingNumber = trackingNumber
	o.Carrier = carrier
	o.touch()

	o.ApplyChange(&OrderShippedEvent{
		EventID:        uuid.NewString(),
		SchemaVersion:  eventSchemaVersion,
		OrderID:        o.OrderID,
		TrackingNumber: trackingNumber,
		Carrier:        carrier,
		Time:           o.UpdatedAt.Unix(),
	})
	return nil
}

// Deliver 送达：SHIPPED → DELIVERED。
func (o *Order) Deliver() error {
	if o.Status != StatusShipped {
		return &StateConflictError{Current: o.Status, Action: "deliver"}
	}
	o.Status = StatusDelivered
	o.touch()

	o.ApplyChange(&OrderDeliveredEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		OrderID:       o.OrderID,
		Time:          o.UpdatedAt.Unix(),
	})
	return nil
}

// Cancel 取消订单：仅 PENDING 或 CONFIRMED 可取消。
func (o *Order) Cancel(reason string) error {
	if o.Status != StatusPending && o.Status != StatusConfirmed {
		return &StateConflictError{Current: o.Status, Action: "cancel"}
	}
	o.Status = StatusCancelled
	o.CancelReason = reason
	o.touch()

	o.ApplyChange(&OrderCancelledEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		OrderID:       o.OrderID,
		Reason:        reason,
		Time:          o.UpdatedAt.Unix(),
	})
	return nil
}

// appendItem 校验并追加订单行，强制整单单一币种。
func (o *Order) appendItem(item OrderItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if len(o.Items) > 0 && item.UnitPrice.Currency != o.Items[0].UnitPrice.Currency {
		return &ValidationError{Field: "currency", Reason: "all items must share one currency"}
	}
	o.Items = append(o.Items, item)
	return nil
}

func validateItem(item OrderItem) error {
	if strings.TrimSpace(item.ProductID) == "" {
		return &ValidationError{Field: "product_id", Reason: "must not be empty"}
	}
	if item.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if !item.UnitPrice.IsPositive() {
		return &ValidationError{Field: "unit_price", Reason: "must be positive"}
	}
	if item.Discount.Currency != "" && item.Discount.Currency != item.UnitPrice.Currency {
		return &ValidationError{Field: "discount", Reason: "currency must match unit price"}
	}
	gross := item.UnitPrice.MulInt(item.Quantity)
	if item.Discount.Currency != "" && gross.LessThan(item.Discount) {
		return &ValidationError{Field: "discount", Reason: "must not exceed item subtotal"}
	}
	return nil
}

func (o *Order) applyItemAdded(item OrderItem) {
	total := o.TotalAmount()
	o.ApplyChange(&OrderItemAddedEvent{
		EventID:       uuid.NewString(),
		SchemaVersion: eventSchemaVersion,
		OrderID:       o.OrderID,
		ProductID:     item.ProductID,
		Quantity:      item.Quantity,
		Total:         total.Amount.String(),
		Currency:      total.Currency,
		Time:          o.UpdatedAt.Unix(),
	})
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now()
}
