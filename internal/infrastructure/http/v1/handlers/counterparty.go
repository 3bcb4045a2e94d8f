package handlers

import (
	"github.com/gin-gonic/gin"

	"minibooks/internal/domain/catalogs/counterparty"
	"minibooks/internal/infrastructure/http/v1/dto"
)

// CounterpartyHandler serves the counterparty catalog.
type CounterpartyHandler struct {
	*BaseHandler
	service *counterparty.Service
}

// NewCounterpartyHandler creates a counterparty handler.
func NewCounterpartyHandler(base *BaseHandler, service *counterparty.Service) *CounterpartyHandler {
	return &CounterpartyHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers counterparty endpoints on the group.
func (h *CounterpartyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List handles GET /catalog/counterparties.
func (h *CounterpartyHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), h.ParseListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}

// Get handles GET /catalog/counterparties/:id.
func (h *CounterpartyHandler) Get(c *gin.Context) {
	counterpartyID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	cp, err := h.service.GetByID(c.Request.Context(), counterpartyID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cp)
}

// Create handles POST /catalog/counterparties.
func (h *CounterpartyHandler) Create(c *gin.Context) {
	var req dto.CreateCounterpartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cp := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), cp); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cp)
}

// Update handles PUT /catalog/counterparties/:id.
func (h *CounterpartyHandler) Update(c *gin.Context) {
	counterpartyID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCounterpartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cp, err := h.service.GetByID(c.Request.Context(), counterpartyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(cp)
	if err := h.service.Update(c.Request.Context(), cp); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cp)
}

// Delete handles DELETE /catalog/counterparties/:id.
func (h *CounterpartyHandler) Delete(c *gin.Context) {
	counterpartyID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), counterpartyID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
