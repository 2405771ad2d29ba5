package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store is the Postgres persistence layer for products and orders.
type Store struct {
	db *sqlx.DB
}

// NewStore connects to the database and tunes the connection pool.
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price_cents BIGINT NOT NULL,
		stock_quantity INT NOT NULL CHECK (stock_quantity >= 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ,
		version BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		status TEXT NOT NULL,
		total_cents BIGINT NOT NULL,
		order_date TIMESTAMPTZ NOT NULL,
		completed_date TIMESTAMPTZ,
		version BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id UUID NOT NULL,
		product_name TEXT NOT NULL,
		price_cents BIGINT NOT NULL,
		quantity INT NOT NULL CHECK (quantity > 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_email ON orders (customer_email)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id)`,
}

// Migrate creates the schema when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
