package store

import (
	"database/sql"
	"testing"
	"time"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProductRowToDomain(t *testing.T) {
	id := uuid.New()
	created := time.Now().UTC().Add(-time.Hour)
	updated := time.Now().UTC()

	row := productRow{
		ID:            id,
		Name:          "Wireless Headphones",
		Description:   "Noise-cancelling",
		PriceCents:    19999,
		StockQuantity: 50,
		IsActive:      true,
		CreatedAt:     created,
		UpdatedAt:     sql.NullTime{Time: updated, Valid: true},
		Version:       3,
	}

	p := row.toDomain()
	assert.Equal(t, id, p.ID())
	assert.Equal(t, "Wireless Headphones", p.Name())
	assert.Equal(t, domain.NewMoney(199.99), p.Price())
	assert.Equal(t, 50, p.Stock())
	assert.True(t, p.Active())
	assert.Equal(t, created, p.CreatedAt())
	assert.Equal(t, updated, p.UpdatedAt())
	assert.Equal(t, uint64(3), p.Version())
	assert.Empty(t, p.Events())
}

func TestOrderRowToDomain(t *testing.T) {
	id := uuid.New()
	productID := uuid.New()
	placed := time.Now().UTC()

	row := orderRow{
		ID:            id,
		CustomerName:  "John Doe",
		CustomerEmail: "john@example.com",
		Status:        string(domain.OrderStatusPending),
		TotalCents:    45997,
		OrderDate:     placed,
		Version:       1,
	}
	items := []domain.OrderItem{{
		ProductID:   productID,
		ProductName: "Wireless Headphones",
		Price:       domain.NewMoney(199.99),
		Quantity:    2,
	}}

	o := row.toDomain(items)
	assert.Equal(t, id, o.ID())
	assert.Equal(t, domain.OrderStatusPending, o.Status())
	assert.Equal(t, domain.Money(45997), o.Total())
	assert.Len(t, o.Items(), 1)

	_, completed := o.CompletedAt()
	assert.False(t, completed)
}

func TestNullTime(t *testing.T) {
	assert.False(t, nullTime(time.Time{}).Valid)
	assert.True(t, nullTime(time.Now()).Valid)
}

func TestStoreIntegration(t *testing.T) {
	t.Skip("Integration test - requires database")
}

func TestLockProductsIntegration(t *testing.T) {
	t.Skip("Integration test - requires database")
}
