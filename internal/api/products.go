package api

import (
	"net/http"
	"time"

	"catalog-service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createProductRequest struct {
	Name          string       `json:"name" binding:"required"`
	Description   string       `json:"description" binding:"required"`
	Price         domain.Money `json:"price" binding:"required"`
	StockQuantity int          `json:"stock_quantity"`
}

type updateProductRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Price       domain.Money `json:"price" binding:"required"`
}

type addStockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type productResponse struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         domain.Money `json:"price"`
	StockQuantity int          `json:"stock_quantity"`
	IsActive      bool         `json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     *time.Time   `json:"updated_at,omitempty"`
	Version       uint64       `json:"version"`
}

func toProductResponse(p *domain.Product) productResponse {
	resp := productResponse{
		ID:            p.ID(),
		Name:          p.Name(),
		Description:   p.Description(),
		Price:         p.Price(),
		StockQuantity: p.Stock(),
		IsActive:      p.Active(),
		CreatedAt:     p.CreatedAt(),
		Version:       p.Version(),
	}
	if updated := p.UpdatedAt(); !updated.IsZero() {
		resp.UpdatedAt = &updated
	}
	return resp
}

// createProduct handles product creation
func (h *Handler) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), req.Name, req.Description, req.Price, req.StockQuantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(product))
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// listProducts handles paginated product search
func (h *Handler) listProducts(c *gin.Context) {
	page, err := pageFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.catalog.ListProducts(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]productResponse, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, toProductResponse(p))
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

// updateProduct handles product detail updates
func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), id, req.Name, req.Description, req.Price)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// addStock handles stock replenishment
func (h *Handler) addStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req addStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	product, err := h.catalog.AddStock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// activateProduct restores a soft-deleted product
func (h *Handler) activateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.catalog.ActivateProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// deactivateProduct soft-deletes a product
func (h *Handler) deactivateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.catalog.DeactivateProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// deleteProduct permanently removes a product
func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}
