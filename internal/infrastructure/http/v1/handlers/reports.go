package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/id"
	"ironstock/internal/domain/reports"
	"ironstock/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/summary", h.Summary)
	rg.GET("/supplier-performance/:supplierId", h.SupplierPerformance)
}

// Summary handles GET /reports/summary?from=...&to=...
func (h *ReportsHandler) Summary(c *gin.Context) {
	from, to, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, summary)
}

// SupplierPerformance handles GET /reports/supplier-performance/:supplierId?from=...&to=...
func (h *ReportsHandler) SupplierPerformance(c *gin.Context) {
	supplierID, err := id.Parse(c.Param("supplierId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid supplier id format"))
		return
	}

	from, to, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	perf, err := h.service.SupplierPerformance(c.Request.Context(), supplierID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, perf)
}

// parsePeriod parses the from/to query parameters as RFC3339 or dates.
func (h *ReportsHandler) parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	var query dto.PeriodQuery
	if !h.BindQuery(c, &query) {
		return time.Time{}, time.Time{}, false
	}

	from, err := parseTimeParam(query.From)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid 'from' date").WithDetail("value", query.From))
		return time.Time{}, time.Time{}, false
	}

	to, err := parseTimeParam(query.To)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid 'to' date").WithDetail("value", query.To))
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}

func parseTimeParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
