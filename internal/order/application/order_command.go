// Package application 编排订单用例。
// 命令侧在单个事务内完成聚合落库、事件存储与 Outbox 发布。
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wyfcoding/pkg/idgen"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

// OrderItemRequest 订单行入参。
type OrderItemRequest struct {
	ProductID   string `json:"product_id" binding:"required"`
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	Discount    string `json:"discount"`
	Currency    string `json:"currency" binding:"required"`
}

// CreateOrderCommand 创建订单命令。
type CreateOrderCommand struct {
	CustomerID      string             `json:"customer_id" binding:"required"`
	ShippingAddress string             `json:"shipping_address" binding:"required"`
	BillingAddress  string             `json:"billing_address"`
	Items           []OrderItemRequest `json:"items" binding:"required"`
}

// AttachPaymentCommand 附加支付命令。
type AttachPaymentCommand struct {
	Amount   string `json:"amount" binding:"required"`
	Currency string `json:"currency" binding:"required"`
	Method   string `json:"method" binding:"required"`
}

// ShipOrderCommand 发货命令。
type ShipOrderCommand struct {
	TrackingNumber string `json:"tracking_number" binding:"required"`
	Carrier        string `json:"carrier"`
}

// UpdateItemQuantityCommand 调整订单行数量命令。
type UpdateItemQuantityCommand struct {
	Quantity int `json:"quantity" binding:"required"`
}

// OrderCommandService 订单命令服务。
type OrderCommandService struct {
	repo       domain.OrderRepository
	eventStore domain.EventStore
	publisher  domain.EventPublisher
	uow        persistence.UnitOfWork
	logger     *slog.Logger
}

// NewOrderCommandService 创建订单命令服务。
func NewOrderCommandService(
	repo domain.OrderRepository,
	eventStore domain.EventStore,
	publisher domain.EventPublisher,
	uow persistence.UnitOfWork,
	logger *slog.Logger,
) *OrderCommandService {
	return &OrderCommandService{
		repo:       repo,
		eventStore: eventStore,
		publisher:  publisher,
		uow:        uow,
		logger:     logger,
	}
}

// CreateOrder 创建订单。
func (s *OrderCommandService) CreateOrder(ctx context.Context, cmd *CreateOrderCommand) (string, error) {
	items := make([]domain.OrderItem, 0, len(cmd.Items))
	for _, req := range cmd.Items {
		item, err := toOrderItem(req)
		if err != nil {
			return "", err
		}
		items = append(items, item)
	}

	orderID := fmt.Sprintf("ORD-%d", idgen.GenID())
	order, err := domain.NewOrder(orderID, cmd.CustomerID, cmd.ShippingAddress, cmd.BillingAddress, items)
	if err != nil {
		return "", err
	}

	if err := s.commit(ctx, order, func(txCtx context.Context) error {
		return s.repo.Add(txCtx, order)
	}); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "order created",
		"order_id", orderID, "customer_id", cmd.CustomerID, "items", len(items))
	return orderID, nil
}

// AddItem 向订单添加商品行。
func (s *OrderCommandService) AddItem(ctx context.Context, orderID string, req *OrderItemRequest) error {
	item, err := toOrderItem(*req)
	if err != nil {
		return err
	}
	return s.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.AddItem(item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Discount)
	})
}

// RemoveItem 移除订单行。
func (s *OrderCommandService) RemoveItem(ctx context.Context, orderID, productID string) error {
	return s.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.RemoveItem(productID)
	})
}

// UpdateItemQuantity 调整订单行数量。
func (s *OrderCommandService) UpdateItemQuantity(ctx context.Context, orderID, productID string, quantity int) error {
	return s.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.UpdateItemQuantity(productID, quantity)
	})
}

// AttachPayment 附加支付。
func (s *OrderCommandService) AttachPayment(ctx context.Context, orderID string, cmd *AttachPaymentCommand) (string, error) {
	amount, err := vo.NewMoneyFromString(cmd.Amount, cmd.Currency)
	if err != nil {
		return "", err
	}
	paymentID := fmt.Sprintf("PAY-%d", idgen.GenID())
	err = s.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.AttachPayment(paymentID, amount, cmd.Method)
	})
	if err != nil {
		return "", err
	}
	return paymentID, nil
}

// ConfirmOrder 确认订单。
func (s *OrderCommandService) ConfirmOrder(ctx context.Context, orderID string) error {
	return s.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.Confirm()
	})
}

// ShipOrder 发货。
func (s *OrderCommandService) ShipOrder(ctx context.Context, orderID string, cmd *ShipOrderCommand) error {
	return s.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.Ship(cmd.TrackingNumber, cmd.Carrier)
	})
}

// DeliverOrder 送达。
func (s *OrderCommandService) DeliverOrder(ctx context.Context, orderID string) error {
	return s.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.Deliver()
	})
}

// CancelOrder 取消订单。
func (s *OrderCommandService) CancelOrder(ctx context.Context, orderID, reason string) error {
	return s.mutate(ctx, orderID, func(o *domain.Order) error {
		return o.Cancel(reason)
	})
}

func toOrderItem(req OrderItemRequest) (domain.OrderItem, error) {
	unitPrice, err := vo.NewMoneyFromString(req.UnitPrice, req.Currency)
	if err != nil {
		return domain.OrderItem{}, err
	}
	discount := vo.Zero(req.Currency)
	if req.Discount != "" {
		discount, err = vo.NewMoneyFromString(req.Discount, req.Currency)
		if err != nil {
			return domain.OrderItem{}, err
		}
	}
	return domain.OrderItem{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		UnitPrice:   unitPrice,
		Discount:    discount,
	}, nil
}

func (s *OrderCommandService) mutate(ctx context.Context, orderID string, fn func(o *domain.Order) error) error {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}
	if order == nil {
		return domain.ErrOrderNotFound
	}

	if err := fn(order); err != nil {
		return err
	}

	return s.commit(ctx, order, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, order)
	})
}

// commit 在同一事务内完成聚合保存、事件存储与 Outbox 发布。
func (s *OrderCommandService) commit(ctx context.Context, order *domain.Order, save func(txCtx context.Context) error) error {
	return s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if err := save(txCtx); err != nil {
			return err
		}

		events := order.GetUncommittedEvents()
		if len(events) == 0 {
			return nil
		}
		if err := s.eventStore.Save(txCtx, order.OrderID, events, order.Version()); err != nil {
			return fmt.Errorf("save events: %w", err)
		}
		for _, event := range events {
			topic := domain.TopicFor(event)
			if topic == "" {
				s.logger.WarnContext(txCtx, "event without topic mapping skipped",
					"event_type", event.EventType())
				continue
			}
			if err := s.publisher.Publish(txCtx, topic, order.OrderID, event); err != nil {
				return fmt.Errorf("publish %s: %w", topic, err)
			}
		}
		order.MarkCommitted()
		return nil
	})
}
