// Package stock provides the stock register: batches, the movement
// ledger and aggregate inventory levels.
package stock

import (
	"context"
	"time"

	"ironstock/internal/core/entity"
	"ironstock/internal/core/id"
)

// Repository defines operations for the stock register.
type Repository interface {
	// Batch operations

	// CreateBatch inserts a new stock batch.
	// Batch numbers are unique; a duplicate insert returns a conflict error.
	CreateBatch(ctx context.Context, batch *entity.StockBatch) error

	// GetBatchByNumber retrieves a batch by its deterministic number
	GetBatchByNumber(ctx context.Context, batchNumber string) (*entity.StockBatch, error)

	// ListBatchesByProduct returns active batches for a product, oldest first
	ListBatchesByProduct(ctx context.Context, productID id.ID) ([]entity.StockBatch, error)

	// Movement operations

	// CreateMovements batch inserts ledger entries (append-only)
	CreateMovements(ctx context.Context, movements []entity.StockMovement) error

	// GetMovementsByReference retrieves all movements recorded for a document
	GetMovementsByReference(ctx context.Context, referenceType string, referenceID id.ID) ([]entity.StockMovement, error)

	// GetMovementHistory returns movement history for a product
	GetMovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.StockMovement, error)

	// Inventory operations

	// GetInventory returns the aggregate record for a product
	GetInventory(ctx context.Context, productID id.ID) (*entity.InventoryRecord, error)

	// UpsertInventory atomically adds delta to the product's on-hand
	// quantity, creating the record with the given defaults when absent.
	// The increment must be a single-statement read-modify-write so
	// concurrent receipts of the same product never lose updates.
	UpsertInventory(ctx context.Context, productID id.ID, delta int, reorderLevel, maxLevel int, movedAt time.Time) error

	// ListLowStock returns products at or below their reorder level
	ListLowStock(ctx context.Context) ([]entity.InventoryRecord, error)
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	Type     *entity.MovementType
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}
