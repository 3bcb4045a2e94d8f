package handlers

import (
	"github.com/gin-gonic/gin"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/domain/payments"
	"minibooks/internal/infrastructure/http/v1/dto"
)

// PaymentHandler serves payments and their invoice allocations.
type PaymentHandler struct {
	*BaseHandler
	service *payments.Service
}

// NewPaymentHandler creates a payment handler.
func NewPaymentHandler(base *BaseHandler, service *payments.Service) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers payment endpoints on the group.
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/allocations", h.Allocations)
	rg.POST("", h.CreateAndAllocate)
	rg.POST("/:id/allocations", h.Link)
}

// RegisterAllocationRoutes registers the allocation endpoints that are not
// nested under a payment.
func (h *PaymentHandler) RegisterAllocationRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/:id", h.Unlink)
}

// List handles GET /payments.
func (h *PaymentHandler) List(c *gin.Context) {
	filter := payments.ListFilter{ListFilter: h.ParseListFilter(c)}

	if cpStr := c.Query("counterpartyId"); cpStr != "" {
		cpID, err := id.Parse(cpStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid counterpartyId format"))
			return
		}
		filter.CounterpartyID = &cpID
	}
	if dir := c.Query("direction"); dir != "" {
		d := payments.Direction(dir)
		filter.Direction = &d
	}

	result, err := h.service.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}

// Get handles GET /payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Allocations handles GET /payments/:id/allocations.
func (h *PaymentHandler) Allocations(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	allocations, err := h.service.GetAllocationsByPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": allocations})
}

// CreateAndAllocate handles POST /payments: registers a payment against one
// invoice, posts the settlement entry, and updates the balance in one
// transaction.
func (h *PaymentHandler) CreateAndAllocate(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	counterpartyID, err := id.Parse(req.CounterpartyID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid counterpartyId format"))
		return
	}
	invoiceID, err := id.Parse(req.InvoiceID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid invoiceId format"))
		return
	}

	p, err := h.service.CreateAndAllocate(c.Request.Context(), counterpartyID, req.Amount, invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// Link handles POST /payments/:id/allocations: allocates unallocated funds
// of an existing payment to another invoice. No journal or balance effect.
func (h *PaymentHandler) Link(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.LinkAllocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoiceID, err := id.Parse(req.InvoiceID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid invoiceId format"))
		return
	}

	allocation, err := h.service.LinkExisting(c.Request.Context(), paymentID, invoiceID, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, allocation)
}

// Unlink handles DELETE /allocations/:id.
func (h *PaymentHandler) Unlink(c *gin.Context) {
	allocationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Unlink(c.Request.Context(), allocationID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
