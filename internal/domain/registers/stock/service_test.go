package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/entity"
	"ironstock/internal/core/id"
	"ironstock/internal/core/types"
)

type upsertCall struct {
	productID    id.ID
	delta        int
	reorderLevel int
	maxLevel     int
	movedAt      time.Time
}

type memRepo struct {
	batches   []entity.StockBatch
	movements []entity.StockMovement
	upserts   []upsertCall
}

func (r *memRepo) CreateBatch(ctx context.Context, batch *entity.StockBatch) error {
	for _, b := range r.batches {
		if b.BatchNumber == batch.BatchNumber {
			return apperror.NewDuplicate("reg_stock_batches", "batch_number", batch.BatchNumber)
		}
	}
	r.batches = append(r.batches, *batch)
	return nil
}

func (r *memRepo) GetBatchByNumber(ctx context.Context, batchNumber string) (*entity.StockBatch, error) {
	for i := range r.batches {
		if r.batches[i].BatchNumber == batchNumber {
			return &r.batches[i], nil
		}
	}
	return nil, apperror.NewNotFound("stock batch", batchNumber)
}

func (r *memRepo) ListBatchesByProduct(ctx context.Context, productID id.ID) ([]entity.StockBatch, error) {
	var out []entity.StockBatch
	for _, b := range r.batches {
		if b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *memRepo) GetMovementsByReference(ctx context.Context, referenceType string, referenceID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.ReferenceType == referenceType && m.ReferenceID == referenceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memRepo) GetMovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memRepo) GetInventory(ctx context.Context, productID id.ID) (*entity.InventoryRecord, error) {
	return nil, apperror.NewNotFound("inventory record", productID.String())
}

func (r *memRepo) UpsertInventory(ctx context.Context, productID id.ID, delta int, reorderLevel, maxLevel int, movedAt time.Time) error {
	r.upserts = append(r.upserts, upsertCall{productID, delta, reorderLevel, maxLevel, movedAt})
	return nil
}

func (r *memRepo) ListLowStock(ctx context.Context) ([]entity.InventoryRecord, error) {
	return nil, nil
}

func newRequest(lines ...ReceiveLine) ReceiveRequest {
	supplierID := id.New()
	return ReceiveRequest{
		ReferenceType: "PurchaseReceipt",
		ReferenceID:   id.New(),
		SupplierID:    &supplierID,
		ReceivedAt:    time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC),
		Actor:         "clerk",
		Lines:         lines,
	}
}

func TestReceive(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	req := newRequest(
		ReceiveLine{ProductID: id.New(), BatchNumber: "PR2026080001-aaaaaaaa", Quantity: 10, UnitCost: types.NewMoney(15.50)},
		ReceiveLine{ProductID: id.New(), BatchNumber: "PR2026080001-bbbbbbbb", Quantity: 3, UnitCost: types.NewMoney(2.35)},
	)
	require.NoError(t, svc.Receive(ctx, req))

	require.Len(t, repo.batches, 2)
	for i, batch := range repo.batches {
		line := req.Lines[i]
		assert.Equal(t, line.BatchNumber, batch.BatchNumber)
		assert.Equal(t, line.ProductID, batch.ProductID)
		assert.Equal(t, line.Quantity, batch.Quantity)
		assert.Equal(t, line.Quantity, batch.AvailableQuantity,
			"available quantity starts equal to received quantity")
		assert.True(t, batch.CostPrice.Equal(line.UnitCost))
		assert.Equal(t, req.ReceivedAt, batch.ReceivedAt)
		assert.Equal(t, req.SupplierID, batch.SupplierID)
		assert.True(t, batch.IsActive)
		assert.False(t, id.IsNil(batch.ID))
	}

	require.Len(t, repo.movements, 2)
	assert.True(t, repo.movements[0].TotalCost.Equal(types.NewMoney(155.0)))
	assert.True(t, repo.movements[1].TotalCost.Equal(types.NewMoney(7.05)))
	for i, m := range repo.movements {
		assert.Equal(t, entity.MovementIn, m.Type)
		assert.Equal(t, repo.batches[i].ID, m.BatchID)
		assert.Equal(t, req.ReferenceType, m.ReferenceType)
		assert.Equal(t, req.ReferenceID, m.ReferenceID)
		assert.Equal(t, "clerk", m.CreatedBy)
		assert.False(t, id.IsNil(m.LineID))
	}

	require.Len(t, repo.upserts, 2)
	for i, up := range repo.upserts {
		assert.Equal(t, req.Lines[i].ProductID, up.productID)
		assert.Equal(t, req.Lines[i].Quantity, up.delta)
		assert.Equal(t, DefaultReorderLevel, up.reorderLevel)
		assert.Equal(t, DefaultMaxLevel, up.maxLevel)
		assert.Equal(t, req.ReceivedAt, up.movedAt)
	}
}

func TestReceive_Validation(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	cases := []struct {
		name string
		req  ReceiveRequest
	}{
		{"no lines", newRequest()},
		{"zero quantity", newRequest(
			ReceiveLine{ProductID: id.New(), BatchNumber: "B-1", Quantity: 0, UnitCost: types.NewMoney(1)},
		)},
		{"negative quantity", newRequest(
			ReceiveLine{ProductID: id.New(), BatchNumber: "B-1", Quantity: -5, UnitCost: types.NewMoney(1)},
		)},
		{"missing batch number", newRequest(
			ReceiveLine{ProductID: id.New(), BatchNumber: "", Quantity: 1, UnitCost: types.NewMoney(1)},
		)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Receive(ctx, tc.req)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok, "expected AppError, got %v", err)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Empty(t, repo.batches, "validation failures must not write")
		})
	}
}

func TestGetBatchByNumber(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	line := ReceiveLine{ProductID: id.New(), BatchNumber: "PR2026080001-aaaaaaaa", Quantity: 4, UnitCost: types.NewMoney(9.99)}
	require.NoError(t, svc.Receive(ctx, newRequest(line)))

	batch, err := svc.GetBatchByNumber(ctx, "PR2026080001-aaaaaaaa")
	require.NoError(t, err)
	assert.Equal(t, line.ProductID, batch.ProductID)
	assert.Equal(t, 4, batch.Quantity)

	_, err = svc.GetBatchByNumber(ctx, "PR2026089999-ffffffff")
	assert.True(t, apperror.IsNotFound(err))
}

func TestReceive_DuplicateBatchNumber(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	line := ReceiveLine{ProductID: id.New(), BatchNumber: "PR2026080001-aaaaaaaa", Quantity: 1, UnitCost: types.NewMoney(1)}
	require.NoError(t, svc.Receive(ctx, newRequest(line)))

	err := svc.Receive(ctx, newRequest(line))
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
	assert.Len(t, repo.batches, 1)
}
