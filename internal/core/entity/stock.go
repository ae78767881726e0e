package entity

import (
	"time"

	"ironstock/internal/core/id"
	"ironstock/internal/core/types"
)

// MovementType defines stock movement direction.
type MovementType string

const (
	// MovementIn increases stock (receiving, returns)
	MovementIn MovementType = "IN"
	// MovementOut decreases stock (sales, write-offs)
	MovementOut MovementType = "OUT"
)

// StockBatch is a traceable lot of goods received into stock.
// Batches are created once at receipt completion and never recreated.
type StockBatch struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// BatchNumber is derived from the source document and line item,
	// so retrying completion cannot mint a second batch for the same line.
	BatchNumber string `db:"batch_number" json:"batchNumber"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// SupplierID is the vendor the batch came from (optional)
	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	// Quantity is the received quantity; AvailableQuantity starts equal
	// and decreases as the batch is consumed
	Quantity          int `db:"quantity" json:"quantity"`
	AvailableQuantity int `db:"available_quantity" json:"availableQuantity"`

	// CostPrice is the per-unit cost at receiving
	CostPrice types.Money `db:"cost_price" json:"costPrice"`

	ReceivedAt time.Time `db:"received_at" json:"receivedAt"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// StockMovement is an entry in the stock movement ledger.
// Movements are immutable; the ledger is append-only.
type StockMovement struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	Type      MovementType `db:"type" json:"type"`
	ProductID id.ID        `db:"product_id" json:"productId"`
	BatchID   id.ID        `db:"batch_id" json:"batchId"`

	Quantity  int         `db:"quantity" json:"quantity"`
	UnitCost  types.Money `db:"unit_cost" json:"unitCost"`
	TotalCost types.Money `db:"total_cost" json:"totalCost"`

	// ReferenceType and ReferenceID point back to the originating document
	ReferenceType string `db:"reference_type" json:"referenceType"`
	ReferenceID   id.ID  `db:"reference_id" json:"referenceId"`

	// CreatedBy is the acting user
	CreatedBy string `db:"created_by" json:"createdBy"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// SignedQuantity returns quantity with sign based on movement type.
// IN = positive, OUT = negative.
func (m *StockMovement) SignedQuantity() int {
	if m.Type == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}

// InventoryRecord is the running on-hand quantity per product.
// One row per product, created lazily on first receipt and incremented
// atomically afterwards.
type InventoryRecord struct {
	ID        id.ID `db:"id" json:"id"`
	ProductID id.ID `db:"product_id" json:"productId"`
	Quantity  int   `db:"quantity" json:"quantity"`

	ReorderLevel int `db:"reorder_level" json:"reorderLevel"`
	MaxLevel     int `db:"max_level" json:"maxLevel"`

	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
