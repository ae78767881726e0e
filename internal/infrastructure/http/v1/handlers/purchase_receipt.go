package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ironstock/internal/core/apperror"
	appctx "ironstock/internal/core/context"
	"ironstock/internal/core/id"
	"ironstock/internal/domain"
	"ironstock/internal/domain/documents/purchase_receipt"
	"ironstock/internal/infrastructure/http/v1/dto"
)

// PurchaseReceiptHandler handles HTTP requests for purchase receipts.
type PurchaseReceiptHandler struct {
	*BaseHandler
	service *purchase_receipt.Service
}

// NewPurchaseReceiptHandler creates a new purchase receipt handler.
func NewPurchaseReceiptHandler(base *BaseHandler, service *purchase_receipt.Service) *PurchaseReceiptHandler {
	return &PurchaseReceiptHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers purchase receipt routes.
func (h *PurchaseReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/number/:number", h.GetByNumber)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)

	rg.POST("/:id/items", h.AddItem)
	rg.PUT("/:id/items/:itemId", h.UpdateItem)
	rg.DELETE("/:id/items/:itemId", h.RemoveItem)

	rg.POST("/:id/receive", h.Receive)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/cancel", h.Cancel)
}

// Create handles POST /documents/purchase-receipts.
func (h *PurchaseReceiptHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid supplier or product id"))
		return
	}

	doc.CreatedBy = appctx.Username(ctx)
	doc.UpdatedBy = doc.CreatedBy

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromReceipt(doc))
}

// Get handles GET /documents/purchase-receipts/:id.
func (h *PurchaseReceiptHandler) Get(c *gin.Context) {
	docID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReceipt(doc))
}

// GetByNumber handles GET /documents/purchase-receipts/number/:number.
func (h *PurchaseReceiptHandler) GetByNumber(c *gin.Context) {
	doc, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReceipt(doc))
}

// Update handles PUT /documents/purchase-receipts/:id.
func (h *PurchaseReceiptHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(doc); err != nil {
		h.Error(c, apperror.NewValidation("invalid supplier id"))
		return
	}
	doc.UpdatedBy = appctx.Username(ctx)

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReceipt(doc))
}

// Delete handles DELETE /documents/purchase-receipts/:id.
func (h *PurchaseReceiptHandler) Delete(c *gin.Context) {
	docID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// AddItem handles POST /documents/purchase-receipts/:id/items.
func (h *PurchaseReceiptHandler) AddItem(c *gin.Context) {
	docID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req dto.ReceiptItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := req.ToEntity(docID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id"))
		return
	}

	doc, err := h.service.AddItem(c.Request.Context(), docID, item)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReceipt(doc))
}

// UpdateItem handles PUT /documents/purchase-receipts/:id/items/:itemId.
func (h *PurchaseReceiptHandler) UpdateItem(c *gin.Context) {
	docID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "itemId")
	if !ok {
		return
	}

	var req dto.ReceiptItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := req.ToEntity(docID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id"))
		return
	}
	item.ID = itemID

	doc, err := h.service.UpdateItem(c.Request.Context(), docID, item)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReceipt(doc))
}

// RemoveItem handles DELETE /documents/purchase-receipts/:id/items/:itemId.
func (h *PurchaseReceiptHandler) RemoveItem(c *gin.Context) {
	docID, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "itemId")
	if !ok {
		return
	}

	doc, err := h.service.RemoveItem(c.Request.Context(), docID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReceipt(doc))
}

// Receive handles POST /documents/purchase-receipts/:id/receive.
func (h *PurchaseReceiptHandler) Receive(c *gin.Context) {
	h.lifecycle(c, h.service.Receive)
}

// Complete handles POST /documents/purchase-receipts/:id/complete.
func (h *PurchaseReceiptHandler) Complete(c *gin.Context) {
	h.lifecycle(c, h.service.Complete)
}

// Cancel handles POST /documents/purchase-receipts/:id/cancel.
func (h *PurchaseReceiptHandler) Cancel(c *gin.Context) {
	h.lifecycle(c, h.service.Cancel)
}

func (h *PurchaseReceiptHandler) lifecycle(c *gin.Context, op func(ctx context.Context, docID id.ID) error) {
	docID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := op(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReceipt(doc))
}

// List handles GET /documents/purchase-receipts.
func (h *PurchaseReceiptHandler) List(c *gin.Context) {
	filter := purchase_receipt.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if supplierID := c.Query("supplierId"); supplierID != "" {
		if parsed, err := id.Parse(supplierID); err == nil {
			filter.SupplierID = &parsed
		}
	}

	if status := c.Query("status"); status != "" {
		parsed := purchase_receipt.Status(status)
		if !parsed.IsValid() {
			h.Error(c, apperror.NewValidation("invalid status filter").
				WithDetail("value", status))
			return
		}
		filter.Status = &parsed
	}

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.ReceiptResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromReceipt(doc)
	}

	h.OK(c, dto.ListResponse[*dto.ReceiptResponse]{
		Items:      items,
		TotalCount: int(result.TotalCount),
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

func (h *PurchaseReceiptHandler) parseID(c *gin.Context, param string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(param))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").
			WithDetail("param", param))
		return id.Nil(), false
	}
	return parsed, true
}
