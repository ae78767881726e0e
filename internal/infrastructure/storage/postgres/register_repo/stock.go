// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/entity"
	"ironstock/internal/core/id"
	"ironstock/internal/domain/registers/stock"
	"ironstock/internal/infrastructure/storage/postgres"
)

const (
	batchTable     = "reg_stock_batches"
	movementTable  = "reg_stock_movements"
	inventoryTable = "reg_inventory"

	pgUniqueViolation = "23505"
)

var batchColumns = []string{
	"id",
	"batch_number",
	"product_id",
	"supplier_id",
	"quantity",
	"available_quantity",
	"cost_price",
	"received_at",
	"is_active",
	"created_at",
}

var movementColumns = []string{
	"line_id",
	"type",
	"product_id",
	"batch_id",
	"quantity",
	"unit_cost",
	"total_cost",
	"reference_type",
	"reference_id",
	"created_by",
	"created_at",
}

var inventoryColumns = []string{
	"id",
	"product_id",
	"quantity",
	"reorder_level",
	"max_level",
	"last_movement_at",
	"updated_at",
}

// copyThreshold is the movement count above which the ledger insert
// switches from a multi-VALUES statement to the COPY protocol.
const copyThreshold = 50

// StockRepo is the PostgreSQL repository for the stock register.
type StockRepo struct {
	txManager *postgres.TxManager
	bulk      *postgres.BatchInserter
}

var _ stock.Repository = (*StockRepo)(nil)

// NewStockRepo creates a stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		bulk:      postgres.NewBatchInserter(txManager),
	}
}

func (r *StockRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *StockRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// CreateBatch inserts a new stock batch. Batch numbers carry a unique
// constraint, so re-running a completed receipt surfaces as a duplicate.
func (r *StockRepo) CreateBatch(ctx context.Context, batch *entity.StockBatch) error {
	data := postgres.StructToMap(batch)

	filteredData := make(map[string]any, len(batchColumns))
	for _, col := range batchColumns {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Insert(batchTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewDuplicate(batchTable, "batch_number", batch.BatchNumber).WithCause(err)
		}
		return fmt.Errorf("insert batch: %w", err)
	}

	return nil
}

// GetBatchByNumber retrieves a batch by its number.
func (r *StockRepo) GetBatchByNumber(ctx context.Context, batchNumber string) (*entity.StockBatch, error) {
	batch := &entity.StockBatch{}
	q := r.builder().
		Select(batchColumns...).
		From(batchTable).
		Where(squirrel.Eq{"batch_number": batchNumber})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), batch, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(batchTable, batchNumber)
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}

	return batch, nil
}

// ListBatchesByProduct returns active batches for a product, oldest first.
// Oldest-first matches FIFO consumption order.
func (r *StockRepo) ListBatchesByProduct(ctx context.Context, productID id.ID) ([]entity.StockBatch, error) {
	q := r.builder().
		Select(batchColumns...).
		From(batchTable).
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("received_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var batches []entity.StockBatch
	if err := pgxscan.Select(ctx, r.querier(ctx), &batches, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}

	return batches, nil
}

// CreateMovements batch inserts movement ledger entries.
// Large receipts go through the COPY protocol instead of one giant
// VALUES list.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	if len(movements) >= copyThreshold {
		return r.copyMovements(ctx, movements)
	}

	q := r.builder().
		Insert(movementTable).
		Columns(movementColumns...)

	for _, m := range movements {
		q = q.Values(
			m.LineID,
			m.Type,
			m.ProductID,
			m.BatchID,
			m.Quantity,
			m.UnitCost,
			m.TotalCost,
			m.ReferenceType,
			m.ReferenceID,
			m.CreatedBy,
			m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

func (r *StockRepo) copyMovements(ctx context.Context, movements []entity.StockMovement) error {
	rows := make([][]any, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, []any{
			m.LineID,
			m.Type,
			m.ProductID,
			m.BatchID,
			m.Quantity,
			m.UnitCost,
			m.TotalCost,
			m.ReferenceType,
			m.ReferenceID,
			m.CreatedBy,
			m.CreatedAt,
		})
	}

	if _, err := r.bulk.CopyFromSlice(ctx, movementTable, movementColumns, rows); err != nil {
		return fmt.Errorf("copy movements: %w", err)
	}
	return nil
}

// GetMovementsByReference retrieves all movements recorded for a document.
func (r *StockRepo) GetMovementsByReference(ctx context.Context, referenceType string, referenceID id.ID) ([]entity.StockMovement, error) {
	q := r.builder().
		Select(movementColumns...).
		From(movementTable).
		Where(squirrel.Eq{"reference_type": referenceType}).
		Where(squirrel.Eq{"reference_id": referenceID}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.querier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("movements by reference: %w", err)
	}

	return movements, nil
}

// GetMovementHistory returns movement history for a product, newest first.
func (r *StockRepo) GetMovementHistory(ctx context.Context, productID id.ID, filter stock.MovementFilter) ([]entity.StockMovement, error) {
	q := r.builder().
		Select(movementColumns...).
		From(movementTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("created_at DESC")

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.querier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("movement history: %w", err)
	}

	return movements, nil
}

// GetInventory returns the aggregate record for a product.
func (r *StockRepo) GetInventory(ctx context.Context, productID id.ID) (*entity.InventoryRecord, error) {
	record := &entity.InventoryRecord{}
	q := r.builder().
		Select(inventoryColumns...).
		From(inventoryTable).
		Where(squirrel.Eq{"product_id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), record, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(inventoryTable, productID.String())
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}

	return record, nil
}

// UpsertInventory atomically adds delta to the product's on-hand quantity.
// The increment and the insert are one statement, so concurrent receipts
// of the same product serialize on the row instead of losing updates.
func (r *StockRepo) UpsertInventory(ctx context.Context, productID id.ID, delta int, reorderLevel, maxLevel int, movedAt time.Time) error {
	sql := `
		INSERT INTO ` + inventoryTable + ` (id, product_id, quantity, reorder_level, max_level, last_movement_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (product_id) DO UPDATE SET
			quantity = ` + inventoryTable + `.quantity + EXCLUDED.quantity,
			last_movement_at = EXCLUDED.last_movement_at,
			updated_at = NOW()`

	_, err := r.querier(ctx).Exec(ctx, sql, id.New(), productID, delta, reorderLevel, maxLevel, movedAt)
	if err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}

	return nil
}

// ListLowStock returns products at or below their reorder level.
func (r *StockRepo) ListLowStock(ctx context.Context) ([]entity.InventoryRecord, error) {
	q := r.builder().
		Select(inventoryColumns...).
		From(inventoryTable).
		Where(squirrel.Expr("quantity <= reorder_level")).
		OrderBy("quantity ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []entity.InventoryRecord
	if err := pgxscan.Select(ctx, r.querier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}

	return records, nil
}
