package store

import (
	"context"
	"fmt"

	"catalog-service/internal/domain"

	"go.uber.org/zap"
)

type seedProduct struct {
	name        string
	description string
	price       float64
	stock       int
}

var seedProducts = []seedProduct{
	{"Wireless Bluetooth Headphones",
		"Premium quality wireless headphones with active noise cancellation and 30-hour battery life",
		199.99, 50},
	{"Smartphone - Latest Model",
		"Flagship smartphone with advanced camera system, 5G connectivity, and all-day battery",
		899.99, 25},
	{"Laptop Computer - Professional",
		"High-performance laptop with Intel Core i7, 16GB RAM, 512GB SSD, perfect for professionals",
		1299.99, 15},
	{"Gaming Mouse",
		"High-precision gaming mouse with customizable RGB lighting and programmable buttons",
		79.99, 100},
	{"Mechanical Keyboard",
		"Tactile mechanical keyboard with blue switches and customizable backlighting",
		149.99, 75},
	{"4K Monitor",
		"27-inch 4K UHD monitor with HDR support and USB-C connectivity",
		349.99, 30},
	{"Wireless Charging Pad",
		"Fast wireless charging pad compatible with all Qi-enabled devices",
		39.99, 200},
	{"Bluetooth Speaker",
		"Portable Bluetooth speaker with 360-degree sound and waterproof design",
		89.99, 80},
	{"Smartwatch - Fitness Edition",
		"Advanced fitness tracking smartwatch with heart rate monitor and GPS",
		299.99, 40},
	{"USB-C Hub",
		"Multi-port USB-C hub with HDMI, USB 3.0 ports, and power delivery",
		59.99, 120},
}

// Seed populates the catalog with initial products when the table is empty.
func (s *Store) Seed(ctx context.Context, logger *zap.Logger) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM products`); err != nil {
		return fmt.Errorf("failed to check existing products: %w", err)
	}
	if count > 0 {
		logger.Info("Catalog already seeded", zap.Int("products", count))
		return nil
	}

	for _, sp := range seedProducts {
		product, err := domain.NewProduct(sp.name, sp.description, domain.NewMoney(sp.price), sp.stock)
		if err != nil {
			return fmt.Errorf("invalid seed product %q: %w", sp.name, err)
		}
		if err := s.InsertProduct(ctx, product); err != nil {
			return err
		}
	}

	logger.Info("Catalog seeded", zap.Int("products", len(seedProducts)))
	return nil
}
