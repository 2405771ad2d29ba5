package service

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"catalog-service/internal/domain"
	"catalog-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlacementService coordinates order placement: it validates the request,
// locks the requested products in ascending id order, reserves stock through
// the Product aggregate and persists the order together with the stock
// decrements in a single transaction. No partial reservation ever commits.
type PlacementService struct {
	db     TxBeginner
	cache  ProductCache
	events EventSink
	logger *zap.Logger
}

// NewPlacementService creates the placement orchestrator. cache and events
// may be nil when no cache or publisher is wired.
func NewPlacementService(db TxBeginner, cache ProductCache, events EventSink, logger *zap.Logger) *PlacementService {
	return &PlacementService{
		db:     db,
		cache:  cache,
		events: events,
		logger: logger,
	}
}

// PlaceOrderRequest is the inbound shape for a placement.
type PlaceOrderRequest struct {
	CustomerName  string
	CustomerEmail string
	Items         []ItemRequest
}

// ItemRequest is one requested (product, quantity) pair.
type ItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrder runs the placement workflow and returns the new order id.
// All failures roll back the transaction; the caller sees exactly one of the
// domain error kinds. A KindStockChanged failure invites a retry.
func (s *PlacementService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (uuid.UUID, error) {
	ctx, span := util.StartSpan(ctx, "PlacementService.PlaceOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderPlacementLatency.Observe(time.Since(start).Seconds())
	}()

	customerName, customerEmail, ids, err := s.validate(req)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(string(domain.KindOf(err))).Inc()
		return uuid.Nil, err
	}

	orderID, err := s.placeInTx(ctx, req, customerName, customerEmail, ids)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(string(domain.KindOf(err))).Inc()
		if domain.IsKind(err, domain.KindStockChanged) {
			util.StockConflictsTotal.Inc()
		}
		return uuid.Nil, err
	}

	util.OrdersPlacedTotal.Inc()
	return orderID, nil
}

// validate rejects malformed requests and duplicate product ids before any
// I/O, and returns the requested ids sorted ascending, the deterministic
// global lock order that prevents deadlocks between overlapping placements.
func (s *PlacementService) validate(req PlaceOrderRequest) (name, email string, ids []uuid.UUID, err error) {
	name, err = domain.NormalizeCustomerName(req.CustomerName)
	if err != nil {
		return "", "", nil, err
	}
	email, err = domain.NormalizeCustomerEmail(req.CustomerEmail)
	if err != nil {
		return "", "", nil, err
	}
	if len(req.Items) == 0 {
		return "", "", nil, domain.NewError(domain.KindInvalidArgument, "order must have at least one item")
	}

	seen := make(map[uuid.UUID]struct{}, len(req.Items))
	ids = make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return "", "", nil, domain.NewError(domain.KindInvalidArgument, "product id cannot be empty")
		}
		if item.Quantity <= 0 {
			return "", "", nil, domain.Errorf(domain.KindInvalidArgument,
				"quantity for product %s must be greater than zero", item.ProductID)
		}
		if _, dup := seen[item.ProductID]; dup {
			return "", "", nil, domain.Errorf(domain.KindDuplicateProduct,
				"product %s requested more than once", item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return name, email, ids, nil
}

func (s *PlacementService) placeInTx(ctx context.Context, req PlaceOrderRequest,
	customerName, customerEmail string, ids []uuid.UUID) (uuid.UUID, error) {

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, domain.WrapError(domain.KindUnexpected, "failed to begin transaction", err)
	}

	committed := false
	defer func() {
		// Once locks are held the placement runs to commit or rollback;
		// a transaction is never left open.
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to roll back placement transaction", zap.Error(rbErr))
			}
		}
	}()

	products, err := tx.LockProducts(ctx, ids)
	if err != nil {
		return uuid.Nil, asDomain(err, "failed to lock products")
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		product, ok := products[reqItem.ProductID]
		if !ok {
			return uuid.Nil, domain.Errorf(domain.KindNotFound,
				"product with ID %s not found", reqItem.ProductID)
		}
		if !product.Active() {
			return uuid.Nil, domain.Errorf(domain.KindInactive,
				"product '%s' is not active", product.Name())
		}

		// Snapshot the product state before reserving; later price changes
		// never affect this order.
		item, err := domain.NewOrderItem(product.ID(), product.Name(), product.Price(), reqItem.Quantity)
		if err != nil {
			return uuid.Nil, err
		}
		items = append(items, item)
	}

	reserved := 0
	for _, reqItem := range req.Items {
		if err := products[reqItem.ProductID].ReserveStock(reqItem.Quantity); err != nil {
			return uuid.Nil, err
		}
		reserved += reqItem.Quantity
	}

	order, err := domain.NewOrder(customerName, customerEmail, items)
	if err != nil {
		return uuid.Nil, err
	}

	if err := tx.InsertOrder(ctx, order); err != nil {
		return uuid.Nil, asDomain(err, "failed to persist order")
	}
	for _, id := range ids {
		if err := tx.UpdateProduct(ctx, products[id]); err != nil {
			return uuid.Nil, asDomain(err, "failed to persist stock reservation")
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, asDomain(err, "failed to commit placement")
	}
	committed = true

	util.StockReservedTotal.Add(float64(reserved))
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID().String()),
		zap.String("customer_email", order.CustomerEmail()),
		zap.Int("items", len(items)),
		zap.String("total", order.Total().String()))

	s.drain(order)
	for _, id := range ids {
		s.drain(products[id])
		if s.cache != nil {
			s.cache.Delete(ctx, id)
		}
	}
	return order.ID(), nil
}

// eventCarrier is the slice of aggregate behavior drain needs.
type eventCarrier interface {
	Events() []domain.Event
	ClearEvents()
}

func (s *PlacementService) drain(agg eventCarrier) {
	events := agg.Events()
	agg.ClearEvents()
	if s.events != nil && len(events) > 0 {
		s.events.Enqueue(events...)
	}
}

// asDomain passes domain errors through untouched and wraps everything else
// into the opaque unexpected kind.
func asDomain(err error, msg string) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.WrapError(domain.KindUnexpected, msg, err)
}
