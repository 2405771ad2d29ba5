package service

import (
	"context"

	"catalog-service/internal/domain"
	"catalog-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService implements order lifecycle transitions and queries.
// Placement itself lives in PlacementService.
type OrderService struct {
	store  OrderStore
	events EventSink
	logger *zap.Logger
}

// NewOrderService creates the order service. events may be nil.
func NewOrderService(store OrderStore, events EventSink, logger *zap.Logger) *OrderService {
	return &OrderService{
		store:  store,
		events: events,
		logger: logger,
	}
}

// GetOrder retrieves an order with its item snapshots.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, asDomain(err, "failed to get order")
	}
	return order, nil
}

// CompleteOrder moves a pending order to completed.
func (s *OrderService) CompleteOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.transition(ctx, id, func(o *domain.Order) error {
		return o.Complete()
	})
	if err != nil {
		return nil, err
	}

	util.OrdersCompletedTotal.Inc()
	s.logger.Info("Order completed", zap.String("order_id", id.String()))
	return order, nil
}

// CancelOrder moves a pending order to cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID, reason string) (*domain.Order, error) {
	order, err := s.transition(ctx, id, func(o *domain.Order) error {
		return o.Cancel(reason)
	})
	if err != nil {
		return nil, err
	}

	util.OrdersCancelledTotal.Inc()
	s.logger.Info("Order cancelled",
		zap.String("order_id", id.String()),
		zap.String("reason", reason))
	return order, nil
}

// ListOrders returns a page of a customer's orders, most recent first.
func (s *OrderService) ListOrders(ctx context.Context, email, search string, page Page) (PagedResult[*domain.Order], error) {
	normalized, err := domain.NormalizeCustomerEmail(email)
	if err != nil {
		return PagedResult[*domain.Order]{}, err
	}

	totalCount, err := s.store.CountOrdersByEmail(ctx, normalized, search)
	if err != nil {
		return PagedResult[*domain.Order]{}, asDomain(err, "failed to count orders")
	}

	orders, err := s.store.ListOrdersByEmail(ctx, normalized, search, page.Size, page.Offset())
	if err != nil {
		return PagedResult[*domain.Order]{}, asDomain(err, "failed to list orders")
	}

	return NewPagedResult(orders, totalCount, page), nil
}

func (s *OrderService) transition(ctx context.Context, id uuid.UUID, op func(*domain.Order) error) (*domain.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, asDomain(err, "failed to get order")
	}

	observedVersion := order.Version()
	if err := op(order); err != nil {
		return nil, err
	}

	if err := s.store.UpdateOrder(ctx, order, observedVersion); err != nil {
		return nil, asDomain(err, "failed to update order")
	}

	events := order.Events()
	order.ClearEvents()
	if s.events != nil && len(events) > 0 {
		s.events.Enqueue(events...)
	}
	return order, nil
}
