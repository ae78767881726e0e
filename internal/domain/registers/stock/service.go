// Package stock provides the stock register service.
package stock

import (
	"context"
	"fmt"
	"time"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/entity"
	"ironstock/internal/core/id"
	"ironstock/internal/core/types"
	"ironstock/pkg/logger"
)

const (
	// Defaults applied when an inventory record is created lazily
	// on first receipt of a product.
	DefaultReorderLevel = 10
	DefaultMaxLevel     = 1000
)

// Service provides business operations for the stock register.
// Transactions are managed by the caller; every write here joins the
// transaction carried in ctx.
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// ReceiveLine is one line of goods entering stock.
type ReceiveLine struct {
	ProductID   id.ID
	BatchNumber string
	Quantity    int
	UnitCost    types.Money
}

// ReceiveRequest materializes a document's lines into stock.
type ReceiveRequest struct {
	ReferenceType string
	ReferenceID   id.ID
	SupplierID    *id.ID
	ReceivedAt    time.Time
	Actor         string
	Lines         []ReceiveLine
}

// Receive creates one batch, one IN movement and one inventory upsert
// per line. Lines are independent of one another; any failure aborts
// the whole call and the caller's transaction rolls everything back.
func (s *Service) Receive(ctx context.Context, req ReceiveRequest) error {
	if len(req.Lines) == 0 {
		return apperror.NewValidation("nothing to receive").
			WithDetail("field", "lines")
	}

	for i, line := range req.Lines {
		if line.Quantity <= 0 {
			return apperror.NewValidation(fmt.Sprintf("line %d: quantity must be positive", i)).
				WithDetail("field", "quantity")
		}
		if line.BatchNumber == "" {
			return apperror.NewValidation(fmt.Sprintf("line %d: batch number is required", i)).
				WithDetail("field", "batchNumber")
		}
	}

	movements := make([]entity.StockMovement, 0, len(req.Lines))
	now := time.Now().UTC()

	for _, line := range req.Lines {
		batch := &entity.StockBatch{
			ID:                id.New(),
			BatchNumber:       line.BatchNumber,
			ProductID:         line.ProductID,
			SupplierID:        req.SupplierID,
			Quantity:          line.Quantity,
			AvailableQuantity: line.Quantity,
			CostPrice:         line.UnitCost,
			ReceivedAt:        req.ReceivedAt,
			IsActive:          true,
			CreatedAt:         now,
		}
		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("create batch %s: %w", line.BatchNumber, err)
		}

		totalCost := line.UnitCost.Mul(types.MoneyFromInt(int64(line.Quantity)))
		movements = append(movements, entity.StockMovement{
			LineID:        id.New(),
			Type:          entity.MovementIn,
			ProductID:     line.ProductID,
			BatchID:       batch.ID,
			Quantity:      line.Quantity,
			UnitCost:      line.UnitCost,
			TotalCost:     totalCost,
			ReferenceType: req.ReferenceType,
			ReferenceID:   req.ReferenceID,
			CreatedBy:     req.Actor,
			CreatedAt:     now,
		})

		if err := s.repo.UpsertInventory(ctx, line.ProductID, line.Quantity,
			DefaultReorderLevel, DefaultMaxLevel, req.ReceivedAt); err != nil {
			return fmt.Errorf("upsert inventory for %s: %w", line.ProductID, err)
		}
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "goods received into stock",
		"reference_type", req.ReferenceType,
		"reference_id", req.ReferenceID,
		"lines", len(req.Lines),
	)

	return nil
}

// GetInventory returns the aggregate on-hand record for a product.
func (s *Service) GetInventory(ctx context.Context, productID id.ID) (*entity.InventoryRecord, error) {
	rec, err := s.repo.GetInventory(ctx, productID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("inventory record", productID.String())
		}
		return nil, err
	}
	return rec, nil
}

// GetBatchByNumber retrieves a batch by its deterministic number,
// e.g. a receipt line's PR2026080001-0198f2a0.
func (s *Service) GetBatchByNumber(ctx context.Context, batchNumber string) (*entity.StockBatch, error) {
	batch, err := s.repo.GetBatchByNumber(ctx, batchNumber)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("stock batch", batchNumber)
		}
		return nil, err
	}
	return batch, nil
}

// ListBatchesByProduct returns active batches for a product, oldest first.
func (s *Service) ListBatchesByProduct(ctx context.Context, productID id.ID) ([]entity.StockBatch, error) {
	return s.repo.ListBatchesByProduct(ctx, productID)
}

// GetMovementHistory returns movement history for a product.
func (s *Service) GetMovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.StockMovement, error) {
	return s.repo.GetMovementHistory(ctx, productID, filter)
}

// GetMovementsByReference retrieves all movements recorded for a document.
func (s *Service) GetMovementsByReference(ctx context.Context, referenceType string, referenceID id.ID) ([]entity.StockMovement, error) {
	return s.repo.GetMovementsByReference(ctx, referenceType, referenceID)
}

// ListLowStock returns products at or below their reorder level.
func (s *Service) ListLowStock(ctx context.Context) ([]entity.InventoryRecord, error) {
	return s.repo.ListLowStock(ctx)
}
