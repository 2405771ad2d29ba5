package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product limits.
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
	MaxStockQuantity     = 100_000
)

// MaxPrice is the highest price a product may carry (1,000,000.00).
const MaxPrice Money = 1_000_000 * 100

// Product is the aggregate root for a catalog entry. It owns the stock
// quantity and the active flag; all mutation goes through its methods and
// every mutation bumps the version counter.
type Product struct {
	recorder

	ref         Ref
	name        string
	description string
	price       Money
	stock       int
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
	version     uint64
}

// NewProduct validates the fields and creates an active product with
// initial stock, recording a ProductCreated event.
func NewProduct(name, description string, price Money, stock int) (*Product, error) {
	p := &Product{
		ref:       NewRef(KindProductRef),
		active:    true,
		createdAt: time.Now().UTC(),
	}
	if err := p.setName(name); err != nil {
		return nil, err
	}
	if err := p.setDescription(description); err != nil {
		return nil, err
	}
	if err := p.setPrice(price); err != nil {
		return nil, err
	}
	if err := p.setStock(stock); err != nil {
		return nil, err
	}
	p.record(ProductCreated{
		eventHeader: newHeader(p.ref.ID()),
		Name:        p.name,
		Price:       p.price,
		Stock:       p.stock,
	})
	return p, nil
}

// RehydrateProduct rebuilds a product from persisted state. No validation
// and no events; the stored state is trusted.
func RehydrateProduct(id uuid.UUID, name, description string, price Money, stock int,
	active bool, createdAt, updatedAt time.Time, version uint64) *Product {
	return &Product{
		ref:         Ref{kind: KindProductRef, id: id},
		name:        name,
		description: description,
		price:       price,
		stock:       stock,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		version:     version,
	}
}

func (p *Product) ID() uuid.UUID        { return p.ref.ID() }
func (p *Product) Ref() Ref             { return p.ref }
func (p *Product) Name() string         { return p.name }
func (p *Product) Description() string  { return p.description }
func (p *Product) Price() Money         { return p.price }
func (p *Product) Stock() int           { return p.stock }
func (p *Product) Active() bool         { return p.active }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }
func (p *Product) Version() uint64      { return p.version }

// ReserveStock decrements available stock as part of an order placement.
// The decrement is in-memory until the surrounding transaction commits.
func (p *Product) ReserveStock(quantity int) error {
	if quantity <= 0 {
		return NewError(KindInvalidArgument, "quantity must be greater than zero")
	}
	if !p.active {
		return Errorf(KindInactive, "product '%s' is not active", p.name)
	}
	if p.stock < quantity {
		return Errorf(KindInsufficientStock,
			"insufficient stock for '%s': available %d, requested %d", p.name, p.stock, quantity)
	}

	p.stock -= quantity
	p.touch()
	p.record(StockReserved{
		eventHeader: newHeader(p.ref.ID()),
		Quantity:    quantity,
		Remaining:   p.stock,
	})
	return nil
}

// AddStock replenishes available stock.
func (p *Product) AddStock(quantity int) error {
	if quantity <= 0 {
		return NewError(KindInvalidArgument, "quantity must be greater than zero")
	}
	if p.stock+quantity > MaxStockQuantity {
		return Errorf(KindLimitExceeded, "stock quantity cannot exceed %d", MaxStockQuantity)
	}

	p.stock += quantity
	p.touch()
	p.record(StockAdded{
		eventHeader: newHeader(p.ref.ID()),
		Quantity:    quantity,
		Total:       p.stock,
	})
	return nil
}

// UpdateDetails replaces name, description and price after re-validating
// all three. On failure nothing changes.
func (p *Product) UpdateDetails(name, description string, price Money) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}

	p.name = strings.TrimSpace(name)
	p.description = strings.TrimSpace(description)
	p.price = price
	p.touch()
	p.record(ProductUpdated{
		eventHeader: newHeader(p.ref.ID()),
		Name:        p.name,
		Description: p.description,
		Price:       p.price,
	})
	return nil
}

// Deactivate soft-deletes the product. Deactivated products cannot be ordered.
func (p *Product) Deactivate() error {
	if !p.active {
		return NewError(KindAlreadyInState, "product is already inactive")
	}
	p.active = false
	p.touch()
	p.record(ProductDeactivated{eventHeader: newHeader(p.ref.ID())})
	return nil
}

// Activate restores a deactivated product.
func (p *Product) Activate() error {
	if p.active {
		return NewError(KindAlreadyInState, "product is already active")
	}
	p.active = true
	p.touch()
	p.record(ProductActivated{eventHeader: newHeader(p.ref.ID())})
	return nil
}

func (p *Product) touch() {
	p.updatedAt = time.Now().UTC()
	p.version++
}

func (p *Product) setName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	p.name = strings.TrimSpace(name)
	return nil
}

func (p *Product) setDescription(description string) error {
	if err := validateDescription(description); err != nil {
		return err
	}
	p.description = strings.TrimSpace(description)
	return nil
}

func (p *Product) setPrice(price Money) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	p.price = price
	return nil
}

func (p *Product) setStock(stock int) error {
	if stock < 0 {
		return NewError(KindInvalidArgument, "stock quantity cannot be negative")
	}
	if stock > MaxStockQuantity {
		return Errorf(KindInvalidArgument, "stock quantity cannot exceed %d", MaxStockQuantity)
	}
	p.stock = stock
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewError(KindInvalidArgument, "product name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return Errorf(KindInvalidArgument, "product name cannot exceed %d characters", MaxNameLength)
	}
	return nil
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return NewError(KindInvalidArgument, "product description cannot be empty")
	}
	if len(description) > MaxDescriptionLength {
		return Errorf(KindInvalidArgument, "product description cannot exceed %d characters", MaxDescriptionLength)
	}
	return nil
}

func validatePrice(price Money) error {
	if price <= 0 {
		return NewError(KindInvalidArgument, "product price must be greater than zero")
	}
	if price > MaxPrice {
		return Errorf(KindInvalidArgument, "product price cannot exceed %s", MaxPrice)
	}
	return nil
}
