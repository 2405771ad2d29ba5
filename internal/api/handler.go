package api

import (
	"net/http"
	"strconv"
	"time"

	"catalog-service/internal/domain"
	"catalog-service/internal/service"
	"catalog-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog   *service.CatalogService
	placement *service.PlacementService
	orders    *service.OrderService
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *service.CatalogService, placement *service.PlacementService, orders *service.OrderService) *Handler {
	return &Handler{
		catalog:   catalog,
		placement: placement,
		orders:    orders,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.POST("", h.createProduct)
			products.GET("", h.listProducts)
			products.GET("/:id", h.getProduct)
			products.PUT("/:id", h.updateProduct)
			products.DELETE("/:id", h.deleteProduct)
			products.POST("/:id/stock", h.addStock)
			products.POST("/:id/activate", h.activateProduct)
			products.POST("/:id/deactivate", h.deactivateProduct)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", h.placeOrder)
			orders.GET("", h.listOrders)
			orders.GET("/:id", h.getOrder)
			orders.POST("/:id/complete", h.completeOrder)
			orders.POST("/:id/cancel", h.cancelOrder)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps a domain error kind to an HTTP status and JSON body.
func respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)

	var status int
	switch kind {
	case domain.KindInvalidArgument, domain.KindDuplicateProduct:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindInactive, domain.KindInsufficientStock, domain.KindLimitExceeded,
		domain.KindStockChanged, domain.KindInvalidTransition, domain.KindAlreadyInState:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	body := gin.H{
		"error": err.Error(),
		"kind":  string(kind),
	}
	if kind == domain.KindUnexpected {
		body["error"] = "an unexpected error occurred"
	}
	if kind == domain.KindStockChanged {
		body["retryable"] = true
	}
	c.JSON(status, body)
}

func pageFromQuery(c *gin.Context) (service.Page, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return service.Page{}, domain.NewError(domain.KindInvalidArgument, "invalid page number")
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(service.DefaultPageSize)))
	if err != nil {
		return service.Page{}, domain.NewError(domain.KindInvalidArgument, "invalid page size")
	}
	return service.NewPage(page, pageSize)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
