package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/entity"
	"ironstock/internal/core/id"
	"ironstock/internal/domain/registers/stock"
	"ironstock/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock register.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers stock register routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/inventory/:productId", h.GetInventory)
	rg.GET("/movements/:productId", h.GetMovements)
	rg.GET("/batches/:productId", h.ListBatches)
	rg.GET("/batch/:batchNumber", h.GetBatch)
	rg.GET("/low-stock", h.ListLowStock)
}

// GetInventory handles GET /registers/stock/inventory/:productId.
func (h *StockHandler) GetInventory(c *gin.Context) {
	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id format"))
		return
	}

	record, err := h.service.GetInventory(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromInventory(record))
}

// GetMovements handles GET /registers/stock/movements/:productId.
func (h *StockHandler) GetMovements(c *gin.Context) {
	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id format"))
		return
	}

	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if mvType := c.Query("type"); mvType != "" {
		parsed := entity.MovementType(mvType)
		filter.Type = &parsed
	}
	if from := c.Query("from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			filter.FromDate = &parsed
		}
	}
	if to := c.Query("to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			filter.ToDate = &parsed
		}
	}

	movements, err := h.service.GetMovementHistory(c.Request.Context(), productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromMovement(m)
	}

	h.OK(c, items)
}

// ListBatches handles GET /registers/stock/batches/:productId.
func (h *StockHandler) ListBatches(c *gin.Context) {
	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id format"))
		return
	}

	batches, err := h.service.ListBatchesByProduct(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.BatchResponse, len(batches))
	for i, b := range batches {
		items[i] = dto.FromBatch(b)
	}

	h.OK(c, items)
}

// GetBatch handles GET /registers/stock/batch/:batchNumber.
func (h *StockHandler) GetBatch(c *gin.Context) {
	batchNumber := c.Param("batchNumber")
	if batchNumber == "" {
		h.Error(c, apperror.NewValidation("batch number is required"))
		return
	}

	batch, err := h.service.GetBatchByNumber(c.Request.Context(), batchNumber)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBatch(*batch))
}

// ListLowStock handles GET /registers/stock/low-stock.
func (h *StockHandler) ListLowStock(c *gin.Context) {
	records, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.InventoryResponse, len(records))
	for i := range records {
		items[i] = dto.FromInventory(&records[i])
	}

	h.OK(c, items)
}
