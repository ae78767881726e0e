package dto

import (
	"time"

	"ironstock/internal/core/entity"
	"ironstock/internal/core/types"
)

// MovementResponse represents a stock movement in API responses.
type MovementResponse struct {
	LineID        string      `json:"lineId"`
	Type          string      `json:"type"`
	ProductID     string      `json:"productId"`
	BatchID       string      `json:"batchId"`
	Quantity      int         `json:"quantity"`
	UnitCost      types.Money `json:"unitCost"`
	TotalCost     types.Money `json:"totalCost"`
	ReferenceType string      `json:"referenceType"`
	ReferenceID   string      `json:"referenceId"`
	CreatedBy     string      `json:"createdBy"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// FromMovement converts a movement entry to a response DTO.
func FromMovement(m entity.StockMovement) MovementResponse {
	return MovementResponse{
		LineID:        m.LineID.String(),
		Type:          string(m.Type),
		ProductID:     m.ProductID.String(),
		BatchID:       m.BatchID.String(),
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID.String(),
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// BatchResponse represents a stock batch in API responses.
type BatchResponse struct {
	ID                string      `json:"id"`
	BatchNumber       string      `json:"batchNumber"`
	ProductID         string      `json:"productId"`
	SupplierID        *string     `json:"supplierId,omitempty"`
	Quantity          int         `json:"quantity"`
	AvailableQuantity int         `json:"availableQuantity"`
	CostPrice         types.Money `json:"costPrice"`
	ReceivedAt        time.Time   `json:"receivedAt"`
	IsActive          bool        `json:"isActive"`
}

// FromBatch converts a stock batch to a response DTO.
func FromBatch(b entity.StockBatch) BatchResponse {
	resp := BatchResponse{
		ID:                b.ID.String(),
		BatchNumber:       b.BatchNumber,
		ProductID:         b.ProductID.String(),
		Quantity:          b.Quantity,
		AvailableQuantity: b.AvailableQuantity,
		CostPrice:         b.CostPrice,
		ReceivedAt:        b.ReceivedAt,
		IsActive:          b.IsActive,
	}
	if b.SupplierID != nil {
		s := b.SupplierID.String()
		resp.SupplierID = &s
	}
	return resp
}

// InventoryResponse represents an aggregate inventory record.
type InventoryResponse struct {
	ProductID      string    `json:"productId"`
	Quantity       int       `json:"quantity"`
	ReorderLevel   int       `json:"reorderLevel"`
	MaxLevel       int       `json:"maxLevel"`
	LastMovementAt time.Time `json:"lastMovementAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromInventory converts an inventory record to a response DTO.
func FromInventory(rec *entity.InventoryRecord) *InventoryResponse {
	return &InventoryResponse{
		ProductID:      rec.ProductID.String(),
		Quantity:       rec.Quantity,
		ReorderLevel:   rec.ReorderLevel,
		MaxLevel:       rec.MaxLevel,
		LastMovementAt: rec.LastMovementAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}
