package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
)

type productRow struct {
	ID            uuid.UUID    `db:"id"`
	Name          string       `db:"name"`
	Description   string       `db:"description"`
	PriceCents    int64        `db:"price_cents"`
	StockQuantity int          `db:"stock_quantity"`
	IsActive      bool         `db:"is_active"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     sql.NullTime `db:"updated_at"`
	Version       uint64       `db:"version"`
}

func (r productRow) toDomain() *domain.Product {
	return domain.RehydrateProduct(
		r.ID, r.Name, r.Description,
		domain.Money(r.PriceCents), r.StockQuantity, r.IsActive,
		r.CreatedAt, r.UpdatedAt.Time, r.Version,
	)
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

const productColumns = `id, name, description, price_cents, stock_quantity, is_active, created_at, updated_at, version`

// InsertProduct persists a newly created product.
func (s *Store) InsertProduct(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, price_cents, stock_quantity, is_active, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		p.ID(), p.Name(), p.Description(), int64(p.Price()), p.Stock(),
		p.Active(), p.CreatedAt(), nullTime(p.UpdatedAt()), p.Version())
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// GetProduct retrieves a product by id, active or not.
func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, domain.Errorf(domain.KindNotFound, "product with ID %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return row.toDomain(), nil
}

// UpdateProduct writes the product state guarded by the version the caller
// observed before mutating. Zero rows affected means the row changed
// underneath us and surfaces as a concurrency conflict.
func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product, expectedVersion uint64) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price_cents = $3, stock_quantity = $4,
		    is_active = $5, updated_at = $6, version = $7
		WHERE id = $8 AND version = $9`

	res, err := s.db.ExecContext(ctx, query,
		p.Name(), p.Description(), int64(p.Price()), p.Stock(),
		p.Active(), nullTime(p.UpdatedAt()), p.Version(), p.ID(), expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.Errorf(domain.KindStockChanged,
			"product %s was modified concurrently, please retry", p.ID())
	}
	return nil
}

// DeleteProduct permanently removes a product. This is the irreversible
// path, distinct from deactivation.
func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.Errorf(domain.KindNotFound, "product with ID %s not found", id)
	}
	return nil
}

// ListProducts returns a page of active products matching the search term,
// ordered by name. An empty search matches everything.
func (s *Store) ListProducts(ctx context.Context, search string, limit, offset int) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = TRUE`
	args := []interface{}{}
	if search != "" {
		query += ` AND (name ILIKE $1 OR description ILIKE $1)`
		args = append(args, "%"+search+"%")
	}
	query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}

// CountProducts returns the total number of active products matching the
// search term, in a single count query.
func (s *Store) CountProducts(ctx context.Context, search string) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE is_active = TRUE`
	args := []interface{}{}
	if search != "" {
		query += ` AND (name ILIKE $1 OR description ILIKE $1)`
		args = append(args, "%"+search+"%")
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
