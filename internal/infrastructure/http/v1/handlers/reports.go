package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"minibooks/internal/core/apperror"
	"minibooks/internal/domain/reports"
)

// ReportsHandler serves the read-side reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers report endpoints on the group.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/trial-balance", h.TrialBalance)
	rg.GET("/stock", h.Stock)
	rg.GET("/document-journal", h.DocumentJournal)
}

func (h *ReportsHandler) parsePeriod(c *gin.Context) (reports.JournalPeriod, bool) {
	var period reports.JournalPeriod

	for _, p := range []struct {
		key  string
		dest **time.Time
	}{
		{"from", &period.From},
		{"to", &period.To},
	} {
		val := c.Query(p.key)
		if val == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			if t, err = time.Parse("2006-01-02", val); err != nil {
				h.Error(c, apperror.NewValidation("invalid date format").WithDetail("param", p.key))
				return period, false
			}
		}
		*p.dest = &t
	}

	return period, true
}

// TrialBalance handles GET /reports/trial-balance.
func (h *ReportsHandler) TrialBalance(c *gin.Context) {
	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	report, err := h.service.TrialBalance(c.Request.Context(), period)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Stock handles GET /reports/stock.
func (h *ReportsHandler) Stock(c *gin.Context) {
	report, err := h.service.Stock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// DocumentJournal handles GET /reports/document-journal.
func (h *ReportsHandler) DocumentJournal(c *gin.Context) {
	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	rows, err := h.service.DocumentJournal(c.Request.Context(), period,
		h.ParseIntQuery(c, "limit", 50),
		h.ParseIntQuery(c, "offset", 0),
	)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": rows})
}
