package store

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Tx is one order-placement unit of work. Products fetched through
// LockProducts stay exclusively locked until Commit or Rollback, and the
// version each row carried at lock time guards every later update.
type Tx struct {
	tx     *sqlx.Tx
	loaded map[uuid.UUID]uint64
}

// Begin opens a transaction against the store.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx, loaded: make(map[uuid.UUID]uint64)}, nil
}

// LockProducts acquires a row-level exclusive lock on each product, in the
// order the ids are given. Callers pass ids in ascending order; that total
// ordering is what prevents deadlocks between overlapping placements.
// Missing ids are simply absent from the result.
func (t *Tx) LockProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	products := make(map[uuid.UUID]*domain.Product, len(ids))
	for _, id := range ids {
		var row productRow
		err := t.tx.GetContext(ctx, &row,
			`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to lock product %s: %w", id, err)
		}
		t.loaded[id] = row.Version
		products[id] = row.toDomain()
	}
	return products, nil
}

// UpdateProduct writes a locked product's state, guarded by the version
// observed at lock time. Zero rows affected means a concurrent writer got
// there first despite the lock and the placement must be retried.
func (t *Tx) UpdateProduct(ctx context.Context, p *domain.Product) error {
	expected, ok := t.loaded[p.ID()]
	if !ok {
		return fmt.Errorf("product %s was not locked in this transaction", p.ID())
	}

	query := `
		UPDATE products
		SET name = $1, description = $2, price_cents = $3, stock_quantity = $4,
		    is_active = $5, updated_at = $6, version = $7
		WHERE id = $8 AND version = $9`

	res, err := t.tx.ExecContext(ctx, query,
		p.Name(), p.Description(), int64(p.Price()), p.Stock(),
		p.Active(), nullTime(p.UpdatedAt()), p.Version(), p.ID(), expected)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.Errorf(domain.KindStockChanged,
			"stock levels for product %s have changed, please retry", p.ID())
	}
	return nil
}

// InsertOrder persists the order and its item snapshots.
func (t *Tx) InsertOrder(ctx context.Context, o *domain.Order) error {
	completedAt, _ := o.CompletedAt()
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, customer_email, status, total_cents, order_date, completed_date, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID(), o.CustomerName(), o.CustomerEmail(), string(o.Status()),
		int64(o.Total()), o.PlacedAt(), nullTime(completedAt), o.Version())
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range o.Items() {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, price_cents, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), o.ID(), item.ProductID, item.ProductName,
			int64(item.Price), item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}

// Commit commits the transaction, releasing all row locks.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction, releasing all row locks.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
