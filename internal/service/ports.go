package service

import (
	"context"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
)

// Tx is the unit of work the placement workflow drives. Locks acquired via
// LockProducts are held until Commit or Rollback.
type Tx interface {
	// LockProducts acquires exclusive row locks in the order the ids are
	// given and returns the products found; missing ids are absent from
	// the map.
	LockProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error)
	// UpdateProduct persists a locked product, failing with a
	// KindStockChanged error when the row's version moved since lock time.
	UpdateProduct(ctx context.Context, p *domain.Product) error
	InsertOrder(ctx context.Context, o *domain.Order) error
	Commit() error
	Rollback() error
}

// TxBeginner opens units of work against the persistence boundary.
type TxBeginner interface {
	Begin(ctx context.Context) (Tx, error)
}

// TxBeginnerFunc adapts a function to the TxBeginner interface.
type TxBeginnerFunc func(ctx context.Context) (Tx, error)

func (f TxBeginnerFunc) Begin(ctx context.Context) (Tx, error) { return f(ctx) }

// ProductStore is the non-locking product persistence port.
type ProductStore interface {
	InsertProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// UpdateProduct persists the product guarded by the version the caller
	// observed before mutating it.
	UpdateProduct(ctx context.Context, p *domain.Product, expectedVersion uint64) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, search string, limit, offset int) ([]*domain.Product, error)
	CountProducts(ctx context.Context, search string) (int, error)
}

// OrderStore is the order persistence port for lifecycle and queries.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateOrder(ctx context.Context, o *domain.Order, expectedVersion uint64) error
	ListOrdersByEmail(ctx context.Context, email, search string, limit, offset int) ([]*domain.Order, error)
	CountOrdersByEmail(ctx context.Context, email, search string) (int, error)
}

// ProductCache is a read cache over product lookups.
type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, bool)
	Set(ctx context.Context, p *domain.Product)
	Delete(ctx context.Context, id uuid.UUID)
}

// EventSink receives domain events drained from aggregates after a
// successful persistence cycle.
type EventSink interface {
	Enqueue(events ...domain.Event)
}
