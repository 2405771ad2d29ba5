package service

import (
	"context"
	"strings"
	"testing"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memOrderStore struct {
	orders  map[uuid.UUID]*domain.Order
	updates []uint64
}

func newMemOrderStore(orders ...*domain.Order) *memOrderStore {
	s := &memOrderStore{orders: make(map[uuid.UUID]*domain.Order)}
	for _, o := range orders {
		s.orders[o.ID()] = o
	}
	return s
}

func (s *memOrderStore) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "order with ID %s not found", id)
	}
	completedAt, _ := o.CompletedAt()
	return domain.RehydrateOrder(o.ID(), o.CustomerName(), o.CustomerEmail(), o.Status(),
		o.Total(), o.PlacedAt(), completedAt, o.Items(), o.Version()), nil
}

func (s *memOrderStore) UpdateOrder(ctx context.Context, o *domain.Order, expectedVersion uint64) error {
	s.updates = append(s.updates, expectedVersion)
	current, ok := s.orders[o.ID()]
	if !ok || current.Version() != expectedVersion {
		return domain.Errorf(domain.KindStockChanged,
			"order %s has changed, please retry", o.ID())
	}
	s.orders[o.ID()] = o
	return nil
}

func (s *memOrderStore) ListOrdersByEmail(ctx context.Context, email, search string, limit, offset int) ([]*domain.Order, error) {
	matched := s.matching(email, search)
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *memOrderStore) CountOrdersByEmail(ctx context.Context, email, search string) (int, error) {
	return len(s.matching(email, search)), nil
}

func (s *memOrderStore) matching(email, search string) []*domain.Order {
	var out []*domain.Order
	for _, o := range s.orders {
		if o.CustomerEmail() != email {
			continue
		}
		if search != "" && !strings.Contains(o.CustomerName(), search) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func mustOrder(t *testing.T, email string) *domain.Order {
	t.Helper()
	item, err := domain.NewOrderItem(uuid.New(), "Wireless Headphones", domain.NewMoney(199.99), 1)
	require.NoError(t, err)
	o, err := domain.NewOrder("John Doe", email, []domain.OrderItem{item})
	require.NoError(t, err)
	o.ClearEvents()
	return o
}

func TestCompleteOrder(t *testing.T) {
	o := mustOrder(t, "john@example.com")
	store := newMemOrderStore(o)
	sink := &fakeSink{}
	svc := NewOrderService(store, sink, zap.NewNop())

	completed, err := svc.CompleteOrder(context.Background(), o.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, completed.Status())

	// The guard uses the version observed before the transition.
	require.Len(t, store.updates, 1)
	assert.Equal(t, uint64(0), store.updates[0])
	assert.Equal(t, []string{domain.EventTypeOrderCompleted}, sink.types())
}

func TestCompleteOrderTwice(t *testing.T) {
	o := mustOrder(t, "john@example.com")
	store := newMemOrderStore(o)
	svc := NewOrderService(store, nil, zap.NewNop())

	_, err := svc.CompleteOrder(context.Background(), o.ID())
	require.NoError(t, err)

	_, err = svc.CompleteOrder(context.Background(), o.ID())
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidTransition, domain.KindOf(err))
}

func TestCancelOrder(t *testing.T) {
	o := mustOrder(t, "john@example.com")
	store := newMemOrderStore(o)
	svc := NewOrderService(store, nil, zap.NewNop())

	cancelled, err := svc.CancelOrder(context.Background(), o.ID(), "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status())

	// Terminal states reject further transitions.
	_, err = svc.CancelOrder(context.Background(), o.ID(), "again")
	assert.Equal(t, domain.KindInvalidTransition, domain.KindOf(err))
	_, err = svc.CompleteOrder(context.Background(), o.ID())
	assert.Equal(t, domain.KindInvalidTransition, domain.KindOf(err))
}

func TestGetOrderNotFound(t *testing.T) {
	svc := NewOrderService(newMemOrderStore(), nil, zap.NewNop())

	_, err := svc.GetOrder(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestListOrdersNormalizesEmail(t *testing.T) {
	o := mustOrder(t, "john@example.com")
	store := newMemOrderStore(o, mustOrder(t, "other@example.com"))
	svc := NewOrderService(store, nil, zap.NewNop())

	page, err := NewPage(1, 10)
	require.NoError(t, err)

	result, err := svc.ListOrders(context.Background(), "  John@Example.COM ", "", page)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, o.ID(), result.Items[0].ID())
}

func TestListOrdersRejectsInvalidEmail(t *testing.T) {
	svc := NewOrderService(newMemOrderStore(), nil, zap.NewNop())

	page, err := NewPage(1, 10)
	require.NoError(t, err)

	_, err = svc.ListOrders(context.Background(), "not-an-email", "", page)
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
}
