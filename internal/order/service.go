package order

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Repository persists orders. Lookups of unknown ids return ErrNotFound.
type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	UpdateDelivery(ctx context.Context, orderID string, info DeliveryInfo) error
	UpdateStatus(ctx context.Context, orderID string, status Status) error
	OrderByID(ctx context.Context, orderID string) (*Order, error)
	OrdersByPhone(ctx context.Context, phone string) ([]Order, error)
	AllOrders(ctx context.Context) ([]Order, error)
	OrderStatistics(ctx context.Context, now time.Time) (*Statistics, error)
}

type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// CreateOrder turns the cart items into a new order. The items keep the
// costs frozen when they were added to the cart.
func (s *Service) CreateOrder(ctx context.Context, customer Customer, items []CartItem) (*Order, error) {
	const operation = "order.Service.CreateOrder"

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	cart := Cart{Items: append([]CartItem(nil), items...)}
	now := s.now()
	o := &Order{
		ID:          NewID(now),
		Customer:    customer,
		CreatedAt:   now,
		TotalAmount: cart.Total(),
		Status:      StatusNew,
		Items:       cart.Items,
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	s.logger.Info("Order created",
		zap.String("order_id", o.ID),
		zap.String("phone", customer.Phone),
		zap.Int("items", len(o.Items)),
		zap.Int64("total", int64(o.TotalAmount)))
	return o, nil
}

// UpdateDelivery attaches delivery details to an existing order.
func (s *Service) UpdateDelivery(ctx context.Context, orderID string, info DeliveryInfo) (*Order, error) {
	const operation = "order.Service.UpdateDelivery"

	if err := info.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateDelivery(ctx, orderID, info); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	s.logger.Info("Order delivery updated",
		zap.String("order_id", orderID),
		zap.String("method", string(info.Method)))
	return s.OrderByID(ctx, orderID)
}

func (s *Service) UpdateStatus(ctx context.Context, orderID string, status Status) (*Order, error) {
	const operation = "order.Service.UpdateStatus"

	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)))
	return s.OrderByID(ctx, orderID)
}

func (s *Service) OrderByID(ctx context.Context, orderID string) (*Order, error) {
	const operation = "order.Service.OrderByID"

	o, err := s.repo.OrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return o, nil
}

// OrdersForCustomer lists a customer's orders, newest first.
func (s *Service) OrdersForCustomer(ctx context.Context, phone string) ([]Order, error) {
	const operation = "order.Service.OrdersForCustomer"

	orders, err := s.repo.OrdersByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return orders, nil
}

// AllOrders lists every order, newest first.
func (s *Service) AllOrders(ctx context.Context) ([]Order, error) {
	const operation = "order.Service.AllOrders"

	orders, err := s.repo.AllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return orders, nil
}

// Statistics asks the repository for aggregates and falls back to
// summarizing the full order list when that query fails.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	const operation = "order.Service.Statistics"

	now := s.now()
	stats, err := s.repo.OrderStatistics(ctx, now)
	if err == nil {
		return stats, nil
	}
	s.logger.Warn("Order statistics query failed, summarizing order list",
		zap.String("operation", operation),
		zap.Error(err))

	orders, listErr := s.repo.AllOrders(ctx)
	if listErr != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	summary := Summarize(orders, now)
	return &summary, nil
}
