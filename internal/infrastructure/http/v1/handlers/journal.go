package handlers

import (
	"github.com/gin-gonic/gin"

	"minibooks/internal/domain/journal"
)

// JournalHandler serves read access to the double-entry journal. Entries are
// only ever created by posting and settlement, so there are no write routes.
type JournalHandler struct {
	*BaseHandler
	service *journal.Service
}

// NewJournalHandler creates a journal handler.
func NewJournalHandler(base *BaseHandler, service *journal.Service) *JournalHandler {
	return &JournalHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers journal endpoints on the group.
func (h *JournalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}

// List handles GET /journal.
func (h *JournalHandler) List(c *gin.Context) {
	filter := journal.ListFilter{ListFilter: h.ParseListFilter(c)}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}

// Get handles GET /journal/:id, returning the entry with its lines.
func (h *JournalHandler) Get(c *gin.Context) {
	entryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.service.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entry)
}
