package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-service/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is a Redis-backed read cache for product lookups. Cache failures
// are logged and treated as misses; the store stays authoritative.
type Client struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient connects to Redis and verifies the connection.
func NewClient(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl, logger: logger}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

type productSnapshot struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int       `json:"stock_quantity"`
	Active      bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     uint64    `json:"version"`
}

func productKey(id uuid.UUID) string {
	return "product:" + id.String()
}

// Get returns the cached product, or false on a miss.
func (c *Client) Get(ctx context.Context, id uuid.UUID) (*domain.Product, bool) {
	data, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Product cache read failed", zap.String("product_id", id.String()), zap.Error(err))
		return nil, false
	}

	var snap productSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.Warn("Product cache entry corrupt", zap.String("product_id", id.String()), zap.Error(err))
		return nil, false
	}

	return domain.RehydrateProduct(
		snap.ID, snap.Name, snap.Description,
		domain.Money(snap.PriceCents), snap.Stock, snap.Active,
		snap.CreatedAt, snap.UpdatedAt, snap.Version,
	), true
}

// Set stores a product snapshot with the configured TTL.
func (c *Client) Set(ctx context.Context, p *domain.Product) {
	snap := productSnapshot{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		PriceCents:  int64(p.Price()),
		Stock:       p.Stock(),
		Active:      p.Active(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
		Version:     p.Version(),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		c.logger.Warn("Failed to marshal product for cache", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, productKey(p.ID()), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Product cache write failed", zap.String("product_id", p.ID().String()), zap.Error(err))
	}
}

// Delete invalidates a product's cache entry after any mutation.
func (c *Client) Delete(ctx context.Context, id uuid.UUID) {
	if err := c.rdb.Del(ctx, productKey(id)).Err(); err != nil {
		c.logger.Warn("Product cache invalidation failed", zap.String("product_id", id.String()), zap.Error(err))
	}
}
