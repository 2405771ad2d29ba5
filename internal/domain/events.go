package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types carried on the wire.
const (
	EventTypeProductCreated     = "PRODUCT_CREATED"
	EventTypeProductUpdated     = "PRODUCT_UPDATED"
	EventTypeProductStockAdded  = "PRODUCT_STOCK_ADDED"
	EventTypeStockReserved      = "PRODUCT_STOCK_RESERVED"
	EventTypeProductActivated   = "PRODUCT_ACTIVATED"
	EventTypeProductDeactivated = "PRODUCT_DEACTIVATED"
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderCompleted     = "ORDER_COMPLETED"
	EventTypeOrderCancelled     = "ORDER_CANCELLED"
)

// Event is a record of something that happened inside an aggregate.
// Events are buffered on the aggregate and drained after each successful
// persistence cycle; nothing inside the domain dispatches them.
type Event interface {
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

type eventHeader struct {
	ID uuid.UUID `json:"aggregate_id"`
	At time.Time `json:"occurred_at"`
}

func newHeader(id uuid.UUID) eventHeader {
	return eventHeader{ID: id, At: time.Now().UTC()}
}

func (h eventHeader) AggregateID() uuid.UUID { return h.ID }
func (h eventHeader) OccurredAt() time.Time  { return h.At }

// ProductCreated is recorded when a product enters the catalog.
type ProductCreated struct {
	eventHeader
	Name  string `json:"name"`
	Price Money  `json:"price"`
	Stock int    `json:"stock_quantity"`
}

func (ProductCreated) EventType() string { return EventTypeProductCreated }

// ProductUpdated is recorded when product details change.
type ProductUpdated struct {
	eventHeader
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       Money  `json:"price"`
}

func (ProductUpdated) EventType() string { return EventTypeProductUpdated }

// StockReserved is recorded when stock is decremented for an order.
type StockReserved struct {
	eventHeader
	Quantity  int `json:"quantity"`
	Remaining int `json:"remaining"`
}

func (StockReserved) EventType() string { return EventTypeStockReserved }

// StockAdded is recorded when stock is replenished.
type StockAdded struct {
	eventHeader
	Quantity int `json:"quantity"`
	Total    int `json:"total"`
}

func (StockAdded) EventType() string { return EventTypeProductStockAdded }

// ProductActivated is recorded when a deactivated product is restored.
type ProductActivated struct {
	eventHeader
}

func (ProductActivated) EventType() string { return EventTypeProductActivated }

// ProductDeactivated is recorded when a product is soft-deleted.
type ProductDeactivated struct {
	eventHeader
}

func (ProductDeactivated) EventType() string { return EventTypeProductDeactivated }

// OrderCreated is recorded when an order is placed.
type OrderCreated struct {
	eventHeader
	CustomerEmail string `json:"customer_email"`
	Total         Money  `json:"total_amount"`
	ItemCount     int    `json:"item_count"`
}

func (OrderCreated) EventType() string { return EventTypeOrderCreated }

// OrderCompleted is recorded when a pending order completes.
type OrderCompleted struct {
	eventHeader
	Total Money `json:"total_amount"`
}

func (OrderCompleted) EventType() string { return EventTypeOrderCompleted }

// OrderCancelled is recorded when a pending order is cancelled.
type OrderCancelled struct {
	eventHeader
	Reason string `json:"reason"`
}

func (OrderCancelled) EventType() string { return EventTypeOrderCancelled }

// recorder is the append-only event buffer owned by an aggregate.
type recorder struct {
	events []Event
}

func (r *recorder) record(e Event) {
	r.events = append(r.events, e)
}

// Events returns the buffered events in recording order.
func (r *recorder) Events() []Event {
	return r.events
}

// ClearEvents empties the buffer. The persistence layer calls this after
// the aggregate's state has been committed.
func (r *recorder) ClearEvents() {
	r.events = nil
}
