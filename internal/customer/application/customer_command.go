// Package application 编排客户用例。
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wyfcoding/pkg/idgen"

	"github.com/wyfcoding/ecommerce/internal/customer/domain"
	"github.com/wyfcoding/ecommerce/internal/shared/persistence"
	"github.com/wyfcoding/ecommerce/internal/shared/vo"
)

// RegisterCustomerCommand 注册客户命令。
type RegisterCustomerCommand struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone"`
}

// UpdateProfileCommand 更新资料命令。
type UpdateProfileCommand struct {
	Name        string            `json:"name" binding:"required"`
	Phone       string            `json:"phone"`
	Preferences map[string]string `json:"preferences"`
}

// ChangeEmailCommand 变更邮箱命令。
type ChangeEmailCommand struct {
	Email string `json:"email" binding:"required"`
}

// AddAddressCommand 新增地址命令。
type AddAddressCommand struct {
	Label      string `json:"label"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country" binding:"required"`
	Primary    bool   `json:"primary"`
}

// AdjustLoyaltyCommand 积分调整命令。
type AdjustLoyaltyCommand struct {
	Points int    `json:"points" binding:"required"`
	Reason string `json:"reason"`
}

// CustomerCommandService 客户命令服务。
type CustomerCommandService struct {
	repo       domain.CustomerRepository
	eventStore domain.EventStore
	publisher  domain.EventPublisher
	uow        persistence.UnitOfWork
	logger     *slog.Logger
}

// NewCustomerCommandService 创建客户命令服务。
func NewCustomerCommandService(
	repo domain.CustomerRepository,
	eventStore domain.EventStore,
	publisher domain.EventPublisher,
	uow persistence.UnitOfWork,
	logger *slog.Logger,
) *CustomerCommandService {
	return &CustomerCommandService{
		repo:       repo,
		eventStore: eventStore,
		publisher:  publisher,
		uow:        uow,
		logger:     logger,
	}
}

// RegisterCustomer 注册客户，邮箱全局唯一。
func (s *CustomerCommandService) RegisterCustomer(ctx context.Context, cmd *RegisterCustomerCommand) (string, error) {
	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return "", err
	}
	phone, err := vo.NewPhone(cmd.Phone)
	if err != nil {
		return "", err
	}

	existing, err := s.repo.GetByEmail(ctx, email.String())
	if err != nil {
		return "", fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return "", domain.ErrDuplicateEmail
	}

	customerID := fmt.Sprintf("CUS-%d", idgen.GenID())
	customer, err := domain.NewCustomer(customerID, cmd.Name, email, phone)
	if err != nil {
		return "", err
	}

	if err := s.commit(ctx, customer, func(txCtx context.Context) error {
		return s.repo.Add(txCtx, customer)
	}); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "customer registered",
		"customer_id", customerID, "email", email.String())
	return customerID, nil
}

// ChangeEmail 变更邮箱，事务内校验唯一性。
func (s *CustomerCommandService) ChangeEmail(ctx context.Context, customerID string, cmd *ChangeEmailCommand) error {
	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return err
	}

	existing, err := s.repo.GetByEmail(ctx, email.String())
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if existing != nil && existing.CustomerID != customerID {
		return domain.ErrDuplicateEmail
	}

	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		return c.ChangeEmail(email)
	})
}

// UpdateProfile 更新姓名、电话与偏好。
func (s *CustomerCommandService) UpdateProfile(ctx context.Context, customerID string, cmd *UpdateProfileCommand) error {
	phone, err := vo.NewPhone(cmd.Phone)
	if err != nil {
		return err
	}
	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		return c.UpdateProfile(cmd.Name, phone, cmd.Preferences)
	})
}

// AddAddress 新增地址。
func (s *CustomerCommandService) AddAddress(ctx context.Context, customerID string, cmd *AddAddressCommand) (string, error) {
	addressID := fmt.Sprintf("ADR-%d", idgen.GenID())
	err := s.mutate(ctx, customerID, func(c *domain.Customer) error {
		return c.AddAddress(domain.Address{
			AddressID:  addressID,
			Label:      cmd.Label,
			Street:     cmd.Street,
			City:       cmd.City,
			State:      cmd.State,
			PostalCode: cmd.PostalCode,
			Country:    cmd.Country,
			Primary:    cmd.Primary,
		})
	})
	if err != nil {
		return "", err
	}
	return addressID, nil
}

// RemoveAddress 移除地址。
func (s *CustomerCommandService) RemoveAddress(ctx context.Context, customerID, addressID string) error {
	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		return c.RemoveAddress(addressID)
	})
}

// SetPrimaryAddress 切换主地址。
func (s *CustomerCommandService) SetPrimaryAddress(ctx context.Context, customerID, addressID string) error {
	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		return c.SetPrimaryAddress(addressID)
	})
}

// AddLoyaltyPoints 增加积分。
func (s *CustomerCommandService) AddLoyaltyPoints(ctx context.Context, customerID string, cmd *AdjustLoyaltyCommand) error {
	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		return c.AddLoyaltyPoints(cmd.Points, cmd.Reason)
	})
}

// RedeemLoyaltyPoints 扣减积分。
func (s *CustomerCommandService) RedeemLoyaltyPoints(ctx context.Context, customerID string, cmd *AdjustLoyaltyCommand) error {
	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		return c.RedeemLoyaltyPoints(cmd.Points, cmd.Reason)
	})
}

func (s *CustomerCommandService) mutate(ctx context.Context, customerID string, fn func(c *domain.Customer) error) error {
	customer, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("load customer %s: %w", customerID, err)
	}
	if customer == nil {
		return domain.ErrCustomerNotFound
	}

	if err := fn(customer); err != nil {
		return err
	}

	return s.commit(ctx, customer, func(txCtx context.Context) error {
		return s.repo.Update(txCtx, customer)
	})
}

// commit 在同一事务内完成聚合保存、事件存储与 Outbox 发布。
func (s *CustomerCommandService) commit(ctx context.Context, customer *domain.Customer, save func(txCtx context.Context) error) error {
	return s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if err := save(txCtx); err != nil {
			return err
		}

		events := customer.GetUncommittedEvents()
		if len(events) == 0 {
			return nil
		}
		if err := s.eventStore.Save(txCtx, customer.CustomerID, events, customer.Version()); err != nil {
			return fmt.Errorf("save events: %w", err)
		}
		for _, event := range events {
			topic := domain.TopicFor(event)
			if topic == "" {
				s.logger.WarnContext(txCtx, "event without topic mapping skipped",
					"event_type", event.EventType())
				continue
			}
			if err := s.publisher.Publish(txCtx, topic, customer.CustomerID, event); err != nil {
				return fmt.Errorf("publish %s: %w", topic, err)
			}
		}
		customer.MarkCommitted()
		return nil
	})
}
