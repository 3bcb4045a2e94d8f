package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/domain/documents"
	"minibooks/internal/domain/posting"
	"minibooks/internal/infrastructure/http/v1/dto"
	"minibooks/internal/infrastructure/storage/postgres"
)

// AuditReader exposes the posting audit trail to the API.
type AuditReader interface {
	GetEntityHistory(ctx context.Context, entityID id.ID, limit int) ([]postgres.AuditEntry, error)
}

// DocumentHandler serves commercial documents: draft CRUD plus the posting
// state machine (post, cancel).
type DocumentHandler struct {
	*BaseHandler
	service *documents.Service
	engine  *posting.Engine
	audit   AuditReader
}

// NewDocumentHandler creates a document handler. audit may be nil; the audit
// endpoint then returns 404.
func NewDocumentHandler(base *BaseHandler, service *documents.Service, engine *posting.Engine, audit AuditReader) *DocumentHandler {
	return &DocumentHandler{BaseHandler: base, service: service, engine: engine, audit: audit}
}

// RegisterRoutes registers document endpoints on the group.
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/post", h.Post)
	rg.POST("/:id/cancel", h.Cancel)
	if h.audit != nil {
		rg.GET("/:id/audit", h.AuditHistory)
	}
}

// List handles GET /documents.
func (h *DocumentHandler) List(c *gin.Context) {
	filter := documents.ListFilter{ListFilter: h.ParseListFilter(c)}

	if kind := c.Query("kind"); kind != "" {
		k := documents.Kind(kind)
		if !k.Valid() {
			h.Error(c, apperror.NewValidation("invalid document kind").WithDetail("kind", kind))
			return
		}
		filter.Kind = &k
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if cpStr := c.Query("counterpartyId"); cpStr != "" {
		cpID, err := id.Parse(cpStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid counterpartyId format"))
			return
		}
		filter.CounterpartyID = &cpID
	}
	if from, ok := h.parseDateQuery(c, "dateFrom"); ok {
		filter.DateFrom = from
	} else if c.IsAborted() {
		return
	}
	if to, ok := h.parseDateQuery(c, "dateTo"); ok {
		filter.DateTo = to
	} else if c.IsAborted() {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}

func (h *DocumentHandler) parseDateQuery(c *gin.Context, key string) (*time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		if t, err = time.Parse("2006-01-02", val); err != nil {
			h.Error(c, apperror.NewValidation("invalid date format").WithDetail("param", key))
			return nil, false
		}
	}
	return &t, true
}

// Get handles GET /documents/:id.
func (h *DocumentHandler) Get(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Create handles POST /documents.
func (h *DocumentHandler) Create(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// Update handles PUT /documents/:id.
func (h *DocumentHandler) Update(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(doc); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Delete handles DELETE /documents/:id.
func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Post handles POST /documents/:id/post. Runs the posting engine: journal
// entry, inventory movements, stock and balance updates, status transition.
func (h *DocumentHandler) Post(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.engine.Post(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Cancel handles POST /documents/:id/cancel. Reverses a posted invoice.
func (h *DocumentHandler) Cancel(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.engine.Cancel(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// AuditHistory handles GET /documents/:id/audit.
func (h *DocumentHandler) AuditHistory(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entries, err := h.audit.GetEntityHistory(c.Request.Context(), docID, h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": entries})
}
