package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type orderRow struct {
	ID            uuid.UUID    `db:"id"`
	CustomerName  string       `db:"customer_name"`
	CustomerEmail string       `db:"customer_email"`
	Status        string       `db:"status"`
	TotalCents    int64        `db:"total_cents"`
	OrderDate     time.Time    `db:"order_date"`
	CompletedDate sql.NullTime `db:"completed_date"`
	Version       uint64       `db:"version"`
}

type orderItemRow struct {
	ID          uuid.UUID `db:"id"`
	OrderID     uuid.UUID `db:"order_id"`
	ProductID   uuid.UUID `db:"product_id"`
	ProductName string    `db:"product_name"`
	PriceCents  int64     `db:"price_cents"`
	Quantity    int       `db:"quantity"`
}

func (r orderRow) toDomain(items []domain.OrderItem) *domain.Order {
	return domain.RehydrateOrder(
		r.ID, r.CustomerName, r.CustomerEmail, domain.OrderStatus(r.Status),
		domain.Money(r.TotalCents), r.OrderDate, r.CompletedDate.Time, items, r.Version,
	)
}

const orderColumns = `id, customer_name, customer_email, status, total_cents, order_date, completed_date, version`

// GetOrder retrieves an order with its item snapshots.
func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var row orderRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, domain.Errorf(domain.KindNotFound, "order with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := s.orderItems(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return row.toDomain(items[id]), nil
}

// UpdateOrder writes order lifecycle state guarded by the version the caller
// observed before the transition.
func (s *Store) UpdateOrder(ctx context.Context, o *domain.Order, expectedVersion uint64) error {
	completedAt, _ := o.CompletedAt()
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, completed_date = $2, version = $3
		WHERE id = $4 AND version = $5`,
		string(o.Status()), nullTime(completedAt), o.Version(), o.ID(), expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.Errorf(domain.KindStockChanged,
			"order %s was modified concurrently, please retry", o.ID())
	}
	return nil
}

// ListOrdersByEmail returns a page of a customer's orders, most recent
// first, optionally filtered by a substring match over name, email and
// status.
func (s *Store) ListOrdersByEmail(ctx context.Context, email, search string, limit, offset int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_email = $1`
	args := []interface{}{email}
	if search != "" {
		query += ` AND (customer_name ILIKE $2 OR customer_email ILIKE $2 OR status ILIKE $2)`
		args = append(args, "%"+search+"%")
	}
	query += fmt.Sprintf(` ORDER BY order_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if len(rows) == 0 {
		return []*domain.Order{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	itemsByOrder, err := s.orderItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toDomain(itemsByOrder[row.ID]))
	}
	return orders, nil
}

// CountOrdersByEmail returns the total matching order count in a single
// count query.
func (s *Store) CountOrdersByEmail(ctx context.Context, email, search string) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE customer_email = $1`
	args := []interface{}{email}
	if search != "" {
		query += ` AND (customer_name ILIKE $2 OR customer_email ILIKE $2 OR status ILIKE $2)`
		args = append(args, "%"+search+"%")
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (s *Store) orderItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	query, args, err := sqlx.In(
		`SELECT id, order_id, product_id, product_name, price_cents, quantity FROM order_items WHERE order_id IN (?)`,
		orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build order items query: %w", err)
	}
	query = s.db.Rebind(query)

	var rows []orderItemRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	items := make(map[uuid.UUID][]domain.OrderItem, len(orderIDs))
	for _, row := range rows {
		items[row.OrderID] = append(items[row.OrderID], domain.OrderItem{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Price:       domain.Money(row.PriceCents),
			Quantity:    row.Quantity,
		})
	}
	return items, nil
}
