package handlers

import (
	"github.com/gin-gonic/gin"

	"minibooks/internal/domain/accounts"
	"minibooks/internal/infrastructure/http/v1/dto"
)

// AccountHandler serves the chart of accounts.
type AccountHandler struct {
	*BaseHandler
	service *accounts.Service
}

// NewAccountHandler creates an account handler.
func NewAccountHandler(base *BaseHandler, service *accounts.Service) *AccountHandler {
	return &AccountHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers account endpoints on the group.
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
}

// List handles GET /catalog/accounts.
func (h *AccountHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), h.ParseListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}

// Get handles GET /catalog/accounts/:id.
func (h *AccountHandler) Get(c *gin.Context) {
	accountID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	acc, err := h.service.GetByID(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, acc)
}

// Create handles POST /catalog/accounts.
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	acc := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), acc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, acc)
}

// Update handles PUT /catalog/accounts/:id.
func (h *AccountHandler) Update(c *gin.Context) {
	accountID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	acc, err := h.service.GetByID(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(acc)
	if err := h.service.Update(c.Request.Context(), acc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, acc)
}
