package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order limits.
const (
	MaxCustomerNameLength  = 255
	MaxCustomerEmailLength = 255
)

// OrderStatus is the order lifecycle state. Pending may move to Completed
// or Cancelled; both are terminal.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderItem is a snapshot of a product at placement time. It references the
// product by id only; later product changes never touch the item.
type OrderItem struct {
	ProductID   uuid.UUID
	ProductName string
	Price       Money
	Quantity    int
}

// NewOrderItem validates and builds an order line snapshot.
func NewOrderItem(productID uuid.UUID, productName string, price Money, quantity int) (OrderItem, error) {
	if productID == uuid.Nil {
		return OrderItem{}, NewError(KindInvalidArgument, "product id cannot be empty")
	}
	if strings.TrimSpace(productName) == "" {
		return OrderItem{}, NewError(KindInvalidArgument, "product name cannot be empty")
	}
	if price <= 0 {
		return OrderItem{}, NewError(KindInvalidArgument, "price must be greater than zero")
	}
	if quantity <= 0 {
		return OrderItem{}, NewError(KindInvalidArgument, "quantity must be greater than zero")
	}
	return OrderItem{
		ProductID:   productID,
		ProductName: strings.TrimSpace(productName),
		Price:       price,
		Quantity:    quantity,
	}, nil
}

// LineTotal is price times quantity, exact.
func (i OrderItem) LineTotal() Money {
	return i.Price.MulQuantity(i.Quantity)
}

// Order is the aggregate root for a customer order. Its item list is fixed
// at creation; only the lifecycle status may change afterwards.
type Order struct {
	recorder

	ref           Ref
	customerName  string
	customerEmail string
	status        OrderStatus
	total         Money
	placedAt      time.Time
	completedAt   time.Time
	items         []OrderItem
	version       uint64
}

// NewOrder validates customer identity and items, computes the exact total
// and creates a pending order.
func NewOrder(customerName, customerEmail string, items []OrderItem) (*Order, error) {
	name, err := NormalizeCustomerName(customerName)
	if err != nil {
		return nil, err
	}
	email, err := NormalizeCustomerEmail(customerEmail)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, NewError(KindInvalidArgument, "order must have at least one item")
	}

	o := &Order{
		ref:           NewRef(KindOrderRef),
		customerName:  name,
		customerEmail: email,
		status:        OrderStatusPending,
		placedAt:      time.Now().UTC(),
		items:         append([]OrderItem(nil), items...),
	}
	for _, item := range o.items {
		o.total += item.LineTotal()
	}
	o.record(OrderCreated{
		eventHeader:   newHeader(o.ref.ID()),
		CustomerEmail: o.customerEmail,
		Total:         o.total,
		ItemCount:     len(o.items),
	})
	return o, nil
}

// RehydrateOrder rebuilds an order from persisted state.
func RehydrateOrder(id uuid.UUID, customerName, customerEmail string, status OrderStatus,
	total Money, placedAt, completedAt time.Time, items []OrderItem, version uint64) *Order {
	return &Order{
		ref:           Ref{kind: KindOrderRef, id: id},
		customerName:  customerName,
		customerEmail: customerEmail,
		status:        status,
		total:         total,
		placedAt:      placedAt,
		completedAt:   completedAt,
		items:         items,
		version:       version,
	}
}

func (o *Order) ID() uuid.UUID         { return o.ref.ID() }
func (o *Order) Ref() Ref              { return o.ref }
func (o *Order) CustomerName() string  { return o.customerName }
func (o *Order) CustomerEmail() string { return o.customerEmail }
func (o *Order) Status() OrderStatus   { return o.status }
func (o *Order) Total() Money          { return o.total }
func (o *Order) PlacedAt() time.Time   { return o.placedAt }
func (o *Order) Version() uint64       { return o.version }

// CompletedAt returns the completion time and whether the order completed.
func (o *Order) CompletedAt() (time.Time, bool) {
	return o.completedAt, !o.completedAt.IsZero()
}

// Items returns a copy of the line items.
func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

// Complete moves a pending order to its completed terminal state.
func (o *Order) Complete() error {
	if o.status != OrderStatusPending {
		return Errorf(KindInvalidTransition, "cannot complete order with status %s", o.status)
	}
	o.status = OrderStatusCompleted
	o.completedAt = time.Now().UTC()
	o.version++
	o.record(OrderCompleted{
		eventHeader: newHeader(o.ref.ID()),
		Total:       o.total,
	})
	return nil
}

// Cancel moves a pending order to its cancelled terminal state.
func (o *Order) Cancel(reason string) error {
	if o.status != OrderStatusPending {
		return Errorf(KindInvalidTransition, "cannot cancel order with status %s", o.status)
	}
	if strings.TrimSpace(reason) == "" {
		return NewError(KindInvalidArgument, "cancellation reason is required")
	}
	o.status = OrderStatusCancelled
	o.version++
	o.record(OrderCancelled{
		eventHeader: newHeader(o.ref.ID()),
		Reason:      reason,
	})
	return nil
}

// NormalizeCustomerName trims and validates a customer name. Exported so the
// placement workflow can reject bad input before any I/O.
func NormalizeCustomerName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", NewError(KindInvalidArgument, "customer name cannot be empty")
	}
	if len(trimmed) > MaxCustomerNameLength {
		return "", Errorf(KindInvalidArgument, "customer name cannot exceed %d characters", MaxCustomerNameLength)
	}
	return trimmed, nil
}

// NormalizeCustomerEmail trims, lower-cases and validates a customer email.
func NormalizeCustomerEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", NewError(KindInvalidArgument, "customer email cannot be empty")
	}
	if len(trimmed) > MaxCustomerEmailLength {
		return "", Errorf(KindInvalidArgument, "customer email cannot exceed %d characters", MaxCustomerEmailLength)
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", NewError(KindInvalidArgument, "invalid email format")
	}
	return trimmed, nil
}
