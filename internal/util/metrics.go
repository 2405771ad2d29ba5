package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed successfully",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order placements",
	}, []string{"reason"})

	OrdersCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_completed_total",
		Help: "Total number of orders completed",
	})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of orders cancelled",
	})

	OrderPlacementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_placement_latency_seconds",
		Help:    "Latency of the order placement transaction",
		Buckets: prometheus.DefBuckets,
	})

	StockReservedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_reserved_total",
		Help: "Total units of stock reserved by successful placements",
	})

	StockConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_conflicts_total",
		Help: "Total number of version conflicts detected at commit",
	})

	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "Total number of products created",
	})

	ProductCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_cache_hits_total",
		Help: "Total number of product cache hits",
	})

	ProductCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_cache_misses_total",
		Help: "Total number of product cache misses",
	})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_published_total",
		Help: "Total number of domain events published to the broker",
	}, []string{"type"})

	EventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "events_dropped_total",
		Help: "Total number of domain events dropped because the relay buffer was full",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
