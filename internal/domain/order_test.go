package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems(t *testing.T) []OrderItem {
	t.Helper()
	first, err := NewOrderItem(uuid.New(), "Wireless Headphones", NewMoney(199.99), 2)
	require.NoError(t, err)
	second, err := NewOrderItem(uuid.New(), "USB-C Hub", NewMoney(59.99), 1)
	require.NoError(t, err)
	return []OrderItem{first, second}
}

func TestNewOrder(t *testing.T) {
	items := testItems(t)

	o, err := NewOrder("  John Doe  ", "John.Doe@Example.COM", items)
	require.NoError(t, err)

	assert.Equal(t, "John Doe", o.CustomerName())
	assert.Equal(t, "john.doe@example.com", o.CustomerEmail())
	assert.Equal(t, OrderStatusPending, o.Status())

	// 2 * 199.99 + 59.99, exact in cents.
	assert.Equal(t, Money(45997), o.Total())
	assert.Len(t, o.Items(), 2)

	_, completed := o.CompletedAt()
	assert.False(t, completed)

	require.Len(t, o.Events(), 1)
	created, ok := o.Events()[0].(OrderCreated)
	require.True(t, ok)
	assert.Equal(t, o.Total(), created.Total)
	assert.Equal(t, 2, created.ItemCount)
}

func TestNewOrderValidation(t *testing.T) {
	items := testItems(t)

	tests := []struct {
		name          string
		customerName  string
		customerEmail string
		items         []OrderItem
	}{
		{"empty name", "", "john@example.com", items},
		{"name too long", strings.Repeat("x", MaxCustomerNameLength+1), "john@example.com", items},
		{"empty email", "John", "", items},
		{"malformed email", "John", "not-an-email", items},
		{"email with display name", "John", "John <john@example.com>", items},
		{"no items", "John", "john@example.com", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(tt.customerName, tt.customerEmail, tt.items)
			require.Error(t, err)
			assert.Equal(t, KindInvalidArgument, KindOf(err))
		})
	}
}

func TestNewOrderItemValidation(t *testing.T) {
	id := uuid.New()

	_, err := NewOrderItem(uuid.Nil, "name", NewMoney(10), 1)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	_, err = NewOrderItem(id, "  ", NewMoney(10), 1)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	_, err = NewOrderItem(id, "name", 0, 1)
	assert.Equal(t, KindInvalidArgument, KindOf(err))

	_, err = NewOrderItem(id, "name", NewMoney(10), 0)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestOrderItemSnapshotIsIndependent(t *testing.T) {
	p := newTestProduct(t, 10)
	item, err := NewOrderItem(p.ID(), p.Name(), p.Price(), 2)
	require.NoError(t, err)

	o, err := NewOrder("John", "john@example.com", []OrderItem{item})
	require.NoError(t, err)

	// Changing the product after placement must not affect the order.
	require.NoError(t, p.UpdateDetails("Renamed", "changed", NewMoney(999.99)))

	got := o.Items()[0]
	assert.Equal(t, "Gaming Mouse", got.ProductName)
	assert.Equal(t, NewMoney(79.99), got.Price)
	assert.Equal(t, NewMoney(159.98), o.Total())
}

func TestCompleteOrder(t *testing.T) {
	o, err := NewOrder("John", "john@example.com", testItems(t))
	require.NoError(t, err)
	o.ClearEvents()

	require.NoError(t, o.Complete())
	assert.Equal(t, OrderStatusCompleted, o.Status())
	assert.Equal(t, uint64(1), o.Version())

	completedAt, completed := o.CompletedAt()
	assert.True(t, completed)
	assert.False(t, completedAt.IsZero())

	require.Len(t, o.Events(), 1)
	assert.Equal(t, EventTypeOrderCompleted, o.Events()[0].EventType())
}

func TestCancelOrder(t *testing.T) {
	o, err := NewOrder("John", "john@example.com", testItems(t))
	require.NoError(t, err)
	o.ClearEvents()

	require.NoError(t, o.Cancel("customer changed their mind"))
	assert.Equal(t, OrderStatusCancelled, o.Status())
	assert.Equal(t, uint64(1), o.Version())

	require.Len(t, o.Events(), 1)
	cancelled, ok := o.Events()[0].(OrderCancelled)
	require.True(t, ok)
	assert.Equal(t, "customer changed their mind", cancelled.Reason)
}

func TestCancelRequiresReason(t *testing.T) {
	o, err := NewOrder("John", "john@example.com", testItems(t))
	require.NoError(t, err)

	err = o.Cancel("   ")
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
	assert.Equal(t, OrderStatusPending, o.Status())
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	completed, err := NewOrder("John", "john@example.com", testItems(t))
	require.NoError(t, err)
	require.NoError(t, completed.Complete())

	assert.Equal(t, KindInvalidTransition, KindOf(completed.Complete()))
	assert.Equal(t, KindInvalidTransition, KindOf(completed.Cancel("too late")))

	cancelled, err := NewOrder("John", "john@example.com", testItems(t))
	require.NoError(t, err)
	require.NoError(t, cancelled.Cancel("out of stock"))

	assert.Equal(t, KindInvalidTransition, KindOf(cancelled.Complete()))
	assert.Equal(t, KindInvalidTransition, KindOf(cancelled.Cancel("again")))
}

func TestRehydrateOrderRecordsNoEvents(t *testing.T) {
	o, err := NewOrder("John", "john@example.com", testItems(t))
	require.NoError(t, err)

	restored := RehydrateOrder(o.ID(), o.CustomerName(), o.CustomerEmail(), o.Status(),
		o.Total(), o.PlacedAt(), time.Time{}, o.Items(), 3)

	assert.Equal(t, o.ID(), restored.ID())
	assert.Equal(t, uint64(3), restored.Version())
	assert.Empty(t, restored.Events())

	// A rehydrated pending order can still transition.
	require.NoError(t, restored.Complete())
	assert.Equal(t, OrderStatusCompleted, restored.Status())
}
