package handlers

import (
	"github.com/gin-gonic/gin"

	"minibooks/internal/core/entity"
	"minibooks/internal/domain/catalogs/product"
	"minibooks/internal/domain/registers/inventory"
	"minibooks/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog plus the valuation and movement
// history endpoints backed by the inventory register.
type ProductHandler struct {
	*BaseHandler
	service  *product.Service
	register *inventory.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(base *BaseHandler, service *product.Service, register *inventory.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service, register: register}
}

// RegisterRoutes registers product endpoints on the group.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/low-stock", h.ListLowStock)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/average-cost", h.AverageCost)
	rg.GET("/:id/movements", h.MovementHistory)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List handles GET /catalog/products.
func (h *ProductHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), h.ParseListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}

// ListLowStock handles GET /catalog/products/low-stock.
func (h *ProductHandler) ListLowStock(c *gin.Context) {
	items, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": items})
}

// Get handles GET /catalog/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// AverageCost handles GET /catalog/products/:id/average-cost.
func (h *ProductHandler) AverageCost(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	cost, err := h.register.AverageCost(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"productId": productID.String(), "averageCost": cost})
}

// MovementHistory handles GET /catalog/products/:id/movements.
func (h *ProductHandler) MovementHistory(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	filter := inventory.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if mt := c.Query("movementType"); mt != "" {
		parsed := entity.MovementType(mt)
		filter.MovementType = &parsed
	}

	movements, err := h.register.GetMovementHistory(c.Request.Context(), productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": movements})
}

// Create handles POST /catalog/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// Update handles PUT /catalog/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(p)
	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Delete handles DELETE /catalog/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
