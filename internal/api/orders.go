package api

import (
	"net/http"
	"time"

	"catalog-service/internal/domain"
	"catalog-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type placeOrderRequest struct {
	CustomerName  string             `json:"customer_name" binding:"required"`
	CustomerEmail string             `json:"customer_email" binding:"required"`
	Items         []orderItemRequest `json:"items" binding:"required,min=1"`
}

type orderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type orderItemResponse struct {
	ProductID   uuid.UUID    `json:"product_id"`
	ProductName string       `json:"product_name"`
	Price       domain.Money `json:"price"`
	Quantity    int          `json:"quantity"`
	LineTotal   domain.Money `json:"line_total"`
}

type orderResponse struct {
	ID            uuid.UUID           `json:"id"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	Status        string              `json:"status"`
	TotalAmount   domain.Money        `json:"total_amount"`
	OrderDate     time.Time           `json:"order_date"`
	CompletedDate *time.Time          `json:"completed_date,omitempty"`
	Items         []orderItemResponse `json:"items"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal(),
		})
	}

	resp := orderResponse{
		ID:            o.ID(),
		CustomerName:  o.CustomerName(),
		CustomerEmail: o.CustomerEmail(),
		Status:        string(o.Status()),
		TotalAmount:   o.Total(),
		OrderDate:     o.PlacedAt(),
		Items:         items,
	}
	if completed, ok := o.CompletedAt(); ok {
		resp.CompletedDate = &completed
	}
	return resp
}

// placeOrder handles order placement
func (h *Handler) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	items := make([]service.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.ItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	orderID, err := h.placement.PlaceOrder(c.Request.Context(), service.PlaceOrderRequest{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Items:         items,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id": orderID,
		"status":   string(domain.OrderStatusPending),
	})
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// listOrders handles paginated order listing for a customer
func (h *Handler) listOrders(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	page, err := pageFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.orders.ListOrders(c.Request.Context(), email, c.Query("search"), page)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]orderResponse, 0, len(result.Items))
	for _, o := range result.Items {
		items = append(items, toOrderResponse(o))
	}

	c.JSON(http.StatusOK, gin.H{
		"items":        items,
		"total_count":  result.TotalCount,
		"page":         result.Page,
		"page_size":    result.PageSize,
		"total_pages":  result.TotalPages,
		"has_next":     result.HasNext,
		"has_previous": result.HasPrevious,
	})
}

// completeOrder moves a pending order to completed
func (h *Handler) completeOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orders.CompleteOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// cancelOrder moves a pending order to cancelled
func (h *Handler) cancelOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req cancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	order, err := h.orders.CancelOrder(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}
