package service

import (
	"context"

	"catalog-service/internal/domain"
	"catalog-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService implements the product use cases: create, read (through
// the cache), update, stock replenishment, soft delete / restore and the
// irreversible hard delete, plus paginated search.
type CatalogService struct {
	store  ProductStore
	cache  ProductCache
	events EventSink
	logger *zap.Logger
}

// NewCatalogService creates the catalog service. cache and events may be nil.
func NewCatalogService(store ProductStore, cache ProductCache, events EventSink, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		events: events,
		logger: logger,
	}
}

// CreateProduct validates and persists a new product.
func (s *CatalogService) CreateProduct(ctx context.Context, name, description string, price domain.Money, stock int) (*domain.Product, error) {
	product, err := domain.NewProduct(name, description, price, stock)
	if err != nil {
		return nil, err
	}

	if err := s.store.InsertProduct(ctx, product); err != nil {
		return nil, asDomain(err, "failed to create product")
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("Product created",
		zap.String("product_id", product.ID().String()),
		zap.String("name", product.Name()))

	s.drainProduct(product)
	return product, nil
}

// GetProduct retrieves a product, serving from the cache when possible.
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if s.cache != nil {
		if product, ok := s.cache.Get(ctx, id); ok {
			util.ProductCacheHits.Inc()
			return product, nil
		}
		util.ProductCacheMisses.Inc()
	}

	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, asDomain(err, "failed to get product")
	}

	if s.cache != nil {
		s.cache.Set(ctx, product)
	}
	return product, nil
}

// UpdateProduct replaces name, description and price.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, name, description string, price domain.Money) (*domain.Product, error) {
	return s.mutate(ctx, id, func(p *domain.Product) error {
		return p.UpdateDetails(name, description, price)
	})
}

// AddStock replenishes a product's stock.
func (s *CatalogService) AddStock(ctx context.Context, id uuid.UUID, quantity int) (*domain.Product, error) {
	return s.mutate(ctx, id, func(p *domain.Product) error {
		return p.AddStock(quantity)
	})
}

// DeactivateProduct soft-deletes a product; it can be restored later.
func (s *CatalogService) DeactivateProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.mutate(ctx, id, func(p *domain.Product) error {
		return p.Deactivate()
	})
}

// ActivateProduct restores a soft-deleted product.
func (s *CatalogService) ActivateProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.mutate(ctx, id, func(p *domain.Product) error {
		return p.Activate()
	})
}

// DeleteProduct permanently removes a product. Unlike deactivation this
// cannot be undone.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return asDomain(err, "failed to delete product")
	}
	if s.cache != nil {
		s.cache.Delete(ctx, id)
	}

	s.logger.Info("Product hard deleted", zap.String("product_id", id.String()))
	return nil
}

// ListProducts returns a page of active products matching the search term.
func (s *CatalogService) ListProducts(ctx context.Context, search string, page Page) (PagedResult[*domain.Product], error) {
	totalCount, err := s.store.CountProducts(ctx, search)
	if err != nil {
		return PagedResult[*domain.Product]{}, asDomain(err, "failed to count products")
	}

	products, err := s.store.ListProducts(ctx, search, page.Size, page.Offset())
	if err != nil {
		return PagedResult[*domain.Product]{}, asDomain(err, "failed to list products")
	}

	return NewPagedResult(products, totalCount, page), nil
}

// mutate loads a product, applies op and persists with a version guard.
func (s *CatalogService) mutate(ctx context.Context, id uuid.UUID, op func(*domain.Product) error) (*domain.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, asDomain(err, "failed to get product")
	}

	observedVersion := product.Version()
	if err := op(product); err != nil {
		return nil, err
	}

	if err := s.store.UpdateProduct(ctx, product, observedVersion); err != nil {
		return nil, asDomain(err, "failed to update product")
	}
	if s.cache != nil {
		s.cache.Delete(ctx, id)
	}

	s.drainProduct(product)
	return product, nil
}

func (s *CatalogService) drainProduct(p *domain.Product) {
	events := p.Events()
	p.ClearEvents()
	if s.events != nil && len(events) > 0 {
		s.events.Enqueue(events...)
	}
}
