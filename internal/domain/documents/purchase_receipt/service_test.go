package purchase_receipt

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ironstock/internal/core/apperror"
	appctx "ironstock/internal/core/context"
	"ironstock/internal/core/entity"
	"ironstock/internal/core/id"
	"ironstock/internal/core/rules"
	"ironstock/internal/domain"
	"ironstock/internal/domain/catalogs/product"
	"ironstock/internal/domain/registers/stock"
	"ironstock/pkg/numerator"
)

// --- Fakes ---

// fakeTxManager runs the callback directly; fakes have no rollback,
// so tests assert on what was (not) written instead.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	docs  map[id.ID]PurchaseReceipt
	items map[id.ID][]Item

	// dupFailures makes the next N Create calls fail with a duplicate
	// error, simulating the unique constraint on receipt numbers.
	dupFailures int
	creates     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:  make(map[id.ID]PurchaseReceipt),
		items: make(map[id.ID][]Item),
	}
}

func (r *fakeRepo) Create(ctx context.Context, doc *PurchaseReceipt) error {
	r.creates++
	if r.dupFailures > 0 {
		r.dupFailures--
		return apperror.NewDuplicate("doc_purchase_receipts", "number", doc.Number)
	}
	for _, existing := range r.docs {
		if existing.Number == doc.Number {
			return apperror.NewDuplicate("doc_purchase_receipts", "number", doc.Number)
		}
	}
	r.docs[doc.ID] = *doc
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, docID id.ID) (*PurchaseReceipt, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("purchase receipt", docID.String())
	}
	doc.Items = nil
	return &doc, nil
}

func (r *fakeRepo) GetByNumber(ctx context.Context, number string) (*PurchaseReceipt, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			d := doc
			d.Items = nil
			return &d, nil
		}
	}
	return nil, apperror.NewNotFound("purchase receipt", number)
}

func (r *fakeRepo) Update(ctx context.Context, doc *PurchaseReceipt) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("purchase receipt", doc.ID.String())
	}
	r.docs[doc.ID] = *doc
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, docID id.ID) error {
	if _, ok := r.docs[docID]; !ok {
		return apperror.NewNotFound("purchase receipt", docID.String())
	}
	delete(r.docs, docID)
	delete(r.items, docID)
	return nil
}

func (r *fakeRepo) GetItems(ctx context.Context, docID id.ID) ([]Item, error) {
	items := r.items[docID]
	out := make([]Item, len(items))
	copy(out, items)
	return out, nil
}

func (r *fakeRepo) SaveItems(ctx context.Context, docID id.ID, items []Item) error {
	stored := make([]Item, len(items))
	copy(stored, items)
	r.items[docID] = stored
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseReceipt], error) {
	result := domain.ListResult[*PurchaseReceipt]{Limit: filter.Limit, Offset: filter.Offset}
	for _, doc := range r.docs {
		d := doc
		result.Items = append(result.Items, &d)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*PurchaseReceipt, error) {
	return r.GetByID(ctx, docID)
}

func (r *fakeRepo) status(docID id.ID) Status {
	return r.docs[docID].Status
}

type fakeSuppliers struct {
	exists bool
}

func (s fakeSuppliers) Exists(ctx context.Context, supplierID id.ID) (bool, error) {
	return s.exists, nil
}

type fakeProducts struct {
	products map[id.ID]*product.Product
}

func (p fakeProducts) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	prod, ok := p.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return prod, nil
}

type fakeStockRepo struct {
	batches   []entity.StockBatch
	movements []entity.StockMovement
	upserts   int

	failBatch error
}

func (r *fakeStockRepo) CreateBatch(ctx context.Context, batch *entity.StockBatch) error {
	if r.failBatch != nil {
		return r.failBatch
	}
	r.batches = append(r.batches, *batch)
	return nil
}

func (r *fakeStockRepo) GetBatchByNumber(ctx context.Context, batchNumber string) (*entity.StockBatch, error) {
	for i := range r.batches {
		if r.batches[i].BatchNumber == batchNumber {
			return &r.batches[i], nil
		}
	}
	return nil, apperror.NewNotFound("stock batch", batchNumber)
}

func (r *fakeStockRepo) ListBatchesByProduct(ctx context.Context, productID id.ID) ([]entity.StockBatch, error) {
	var out []entity.StockBatch
	for _, b := range r.batches {
		if b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeStockRepo) GetMovementsByReference(ctx context.Context, referenceType string, referenceID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range r.movements {
		if m.ReferenceType == referenceType && m.ReferenceID == referenceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) GetMovementHistory(ctx context.Context, productID id.ID, filter stock.MovementFilter) ([]entity.StockMovement, error) {
	return nil, nil
}

func (r *fakeStockRepo) GetInventory(ctx context.Context, productID id.ID) (*entity.InventoryRecord, error) {
	return nil, apperror.NewNotFound("inventory record", productID.String())
}

func (r *fakeStockRepo) UpsertInventory(ctx context.Context, productID id.ID, delta int, reorderLevel, maxLevel int, movedAt time.Time) error {
	r.upserts++
	return nil
}

func (r *fakeStockRepo) ListLowStock(ctx context.Context) ([]entity.InventoryRecord, error) {
	return nil, nil
}

type fakeAuditor struct {
	actions []string
}

func (a *fakeAuditor) Record(ctx context.Context, action string, doc *PurchaseReceipt) {
	a.actions = append(a.actions, action)
}

// seqQuerier backs the numerator with an in-memory sequence table.
type seqQuerier struct {
	seqs  map[string]int64
	calls int
}

func newSeqQuerier() *seqQuerier {
	return &seqQuerier{seqs: make(map[string]int64)}
}

func (q *seqQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.calls++
	key, _ := args[0].(string)
	q.seqs[key]++
	return seqRow{val: q.seqs[key]}
}

type seqRow struct {
	val int64
}

func (r seqRow) Scan(dest ...any) error {
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = r.val
		}
	}
	return nil
}

// --- Fixture ---

type fixture struct {
	service   *Service
	repo      *fakeRepo
	stockRepo *fakeStockRepo
	products  fakeProducts
	querier   *seqQuerier
	auditor   *fakeAuditor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:      newFakeRepo(),
		stockRepo: &fakeStockRepo{},
		products:  fakeProducts{products: make(map[id.ID]*product.Product)},
		querier:   newSeqQuerier(),
		auditor:   &fakeAuditor{},
	}
	f.service = NewService(Config{
		Repo:      f.repo,
		Stock:     stock.NewService(f.stockRepo),
		Suppliers: fakeSuppliers{exists: true},
		Products:  f.products,
		Numerator: numerator.New(f.querier),
		TxManager: fakeTxManager{},
		Auditor:   f.auditor,
	})
	return f
}

func (f *fixture) addProduct(t *testing.T) id.ID {
	t.Helper()
	p := product.NewProduct(fmt.Sprintf("P%03d", len(f.products.products)+1), "Claw Hammer 16oz", product.UnitPiece)
	f.products.products[p.ID] = p
	return p.ID
}

func (f *fixture) newReceipt(t *testing.T, itemCount int) *PurchaseReceipt {
	t.Helper()
	doc := New(id.New(), time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC))
	doc.CreatedBy = "clerk"
	for i := 0; i < itemCount; i++ {
		doc.Items = append(doc.Items, NewItem(doc.ID, f.addProduct(t), 10, money("15.50")))
	}
	return doc
}

func (f *fixture) createReceived(t *testing.T, itemCount int) *PurchaseReceipt {
	t.Helper()
	ctx := context.Background()
	doc := f.newReceipt(t, itemCount)
	require.NoError(t, f.service.Create(ctx, doc))
	require.NoError(t, f.service.Receive(ctx, doc.ID))
	return doc
}

// --- Create ---

func TestServiceCreate_GeneratesNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.newReceipt(t, 2)
	require.NoError(t, f.service.Create(ctx, doc))

	assert.Equal(t, "PR2026080001", doc.Number)
	assert.Equal(t, StatusPending, doc.Status)
	assert.True(t, doc.TotalAmount.Equal(money("310.00")))

	items, err := f.service.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, items.Items, 2)
	for _, item := range items.Items {
		assert.Equal(t, doc.ID, item.ReceiptID)
	}

	assert.Equal(t, []string{"create"}, f.auditor.actions)
}

func TestServiceCreate_SequentialNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.newReceipt(t, 1)
	second := f.newReceipt(t, 1)
	require.NoError(t, f.service.Create(ctx, first))
	require.NoError(t, f.service.Create(ctx, second))

	assert.Equal(t, "PR2026080001", first.Number)
	assert.Equal(t, "PR2026080002", second.Number)
}

func TestServiceCreate_RetriesGeneratedNumberOnConflict(t *testing.T) {
	f := newFixture(t)
	f.repo.dupFailures = 2
	ctx := context.Background()

	doc := f.newReceipt(t, 1)
	require.NoError(t, f.service.Create(ctx, doc))

	// Two conflicts consumed numbers 1 and 2; the third attempt landed
	assert.Equal(t, "PR2026080003", doc.Number)
	assert.Equal(t, 3, f.repo.creates)
	assert.Equal(t, 3, f.querier.calls)
}

func TestServiceCreate_GivesUpAfterBoundedRetries(t *testing.T) {
	f := newFixture(t)
	f.repo.dupFailures = maxNumberAttempts
	ctx := context.Background()

	err := f.service.Create(ctx, f.newReceipt(t, 1))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Equal(t, maxNumberAttempts, f.repo.creates)
}

func TestServiceCreate_CallerNumberDoesNotRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.newReceipt(t, 1)
	first.Number = "PR-MANUAL-1"
	require.NoError(t, f.service.Create(ctx, first))

	second := f.newReceipt(t, 1)
	second.Number = "PR-MANUAL-1"
	err := f.service.Create(ctx, second)

	require.True(t, apperror.IsDuplicate(err))
	assert.Equal(t, 0, f.querier.calls, "numerator must not run for caller-supplied numbers")
}

func TestServiceCreate_UnknownSupplier(t *testing.T) {
	f := newFixture(t)
	f.service.suppliers = fakeSuppliers{exists: false}
	ctx := context.Background()

	err := f.service.Create(ctx, f.newReceipt(t, 1))
	require.True(t, apperror.IsNotFound(err))
}

func TestServiceCreate_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.newReceipt(t, 0)
	doc.Items = append(doc.Items, NewItem(doc.ID, id.New(), 1, money("1")))

	err := f.service.Create(ctx, doc)
	require.True(t, apperror.IsNotFound(err))
}

func TestServiceCreate_InactiveProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.newReceipt(t, 1)
	f.products.products[doc.Items[0].ProductID].DeletionMark = true

	err := f.service.Create(ctx, doc)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestServiceCreate_RejectsNonPendingStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.newReceipt(t, 1)
	doc.Status = StatusReceived

	err := f.service.Create(ctx, doc)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestServiceCreate_ConfiguredRule(t *testing.T) {
	f := newFixture(t)
	engine, err := rules.NewEngine()
	require.NoError(t, err)
	require.NoError(t, engine.AddRule("max_total", "doc.totalAmount <= 100.0", "receipt total exceeds the allowed maximum"))
	f.service.rules = engine
	ctx := context.Background()

	err = f.service.Create(ctx, f.newReceipt(t, 1))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "max_total", appErr.Details["rule"])
}

// --- Lifecycle ---

func TestServiceReceive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.newReceipt(t, 1)
	require.NoError(t, f.service.Create(ctx, doc))
	require.NoError(t, f.service.Receive(ctx, doc.ID))
	assert.Equal(t, StatusReceived, f.repo.status(doc.ID))

	// Receiving twice is an illegal transition
	err := f.service.Receive(ctx, doc.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
	assert.Equal(t, StatusReceived, f.repo.status(doc.ID))
}

func TestServiceCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("from pending", func(t *testing.T) {
		doc := f.newReceipt(t, 1)
		require.NoError(t, f.service.Create(ctx, doc))
		require.NoError(t, f.service.Cancel(ctx, doc.ID))
		assert.Equal(t, StatusCancelled, f.repo.status(doc.ID))
	})

	t.Run("from received", func(t *testing.T) {
		doc := f.createReceived(t, 1)
		require.NoError(t, f.service.Cancel(ctx, doc.ID))
		assert.Equal(t, StatusCancelled, f.repo.status(doc.ID))
	})

	t.Run("no stock side effects", func(t *testing.T) {
		assert.Empty(t, f.stockRepo.batches)
		assert.Empty(t, f.stockRepo.movements)
	})
}

func TestServiceComplete(t *testing.T) {
	f := newFixture(t)
	// Completion runs as the context user, not the receipt creator
	ctx := appctx.WithUser(context.Background(), id.New(), "manager", []string{"manager"})

	doc := f.createReceived(t, 3)
	require.NoError(t, f.service.Complete(ctx, doc.ID))
	assert.Equal(t, StatusCompleted, f.repo.status(doc.ID))

	items, err := f.repo.GetItems(ctx, doc.ID)
	require.NoError(t, err)

	require.Len(t, f.stockRepo.batches, 3)
	for i, batch := range f.stockRepo.batches {
		item := items[i]
		assert.Equal(t, BatchNumber(doc.Number, item.ID), batch.BatchNumber)
		assert.Equal(t, item.ProductID, batch.ProductID)
		assert.Equal(t, item.Quantity, batch.Quantity)
		assert.Equal(t, item.Quantity, batch.AvailableQuantity)
		assert.True(t, batch.CostPrice.Equal(item.UnitCost))
		assert.Equal(t, doc.PurchaseDate, batch.ReceivedAt)
		assert.True(t, batch.IsActive)
		require.NotNil(t, batch.SupplierID)
		assert.Equal(t, doc.SupplierID, *batch.SupplierID)
	}

	require.Len(t, f.stockRepo.movements, 3)
	for i, m := range f.stockRepo.movements {
		item := items[i]
		assert.Equal(t, entity.MovementIn, m.Type)
		assert.Equal(t, item.Quantity, m.Quantity)
		assert.True(t, m.UnitCost.Equal(item.UnitCost))
		assert.True(t, m.TotalCost.Equal(money("155.00")))
		assert.Equal(t, "PurchaseReceipt", m.ReferenceType)
		assert.Equal(t, doc.ID, m.ReferenceID)
		assert.Equal(t, "manager", m.CreatedBy)
	}

	assert.Equal(t, 3, f.stockRepo.upserts)
	assert.Contains(t, f.auditor.actions, "complete")
}

func TestServiceComplete_ActorFallsBackToCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.createReceived(t, 1)
	require.NoError(t, f.service.Complete(ctx, doc.ID))

	require.Len(t, f.stockRepo.movements, 1)
	assert.Equal(t, "clerk", f.stockRepo.movements[0].CreatedBy)
}

func TestServiceComplete_TwiceFailsWithoutSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.createReceived(t, 2)
	require.NoError(t, f.service.Complete(ctx, doc.ID))

	err := f.service.Complete(ctx, doc.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)

	assert.Len(t, f.stockRepo.batches, 2, "retry must not mint new batches")
	assert.Len(t, f.stockRepo.movements, 2)
	assert.Equal(t, 2, f.stockRepo.upserts)
}

func TestServiceComplete_FromPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.newReceipt(t, 1)
	require.NoError(t, f.service.Create(ctx, doc))

	err := f.service.Complete(ctx, doc.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
	assert.Equal(t, StatusPending, f.repo.status(doc.ID))
	assert.Empty(t, f.stockRepo.batches)
}

func TestServiceComplete_EmptyReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.createReceived(t, 0)
	err := f.service.Complete(ctx, doc.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, StatusReceived, f.repo.status(doc.ID))
}

func TestServiceComplete_StockFailureLeavesReceived(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.createReceived(t, 2)
	f.stockRepo.failBatch = fmt.Errorf("batch table unavailable")

	err := f.service.Complete(ctx, doc.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStockIntegration, appErr.Code)
	assert.NotNil(t, appErr.Err)

	assert.Equal(t, StatusReceived, f.repo.status(doc.ID),
		"a failed completion must leave the receipt retryable")
	assert.Empty(t, f.stockRepo.movements)
}

func TestBatchNumber(t *testing.T) {
	itemID := id.MustParse("0198f2a0-1111-7abc-8def-0123456789ab")
	assert.Equal(t, "PR2026080001-0198f2a0", BatchNumber("PR2026080001", itemID))
}

// --- Update and delete ---

func TestServiceUpdate_PreservesImmutableFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.createReceived(t, 1)

	changed, err := f.service.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	changed.Number = "HACKED"
	changed.Status = StatusCompleted
	changed.Notes = "called supplier about the short delivery"

	require.NoError(t, f.service.Update(ctx, changed))

	stored, err := f.service.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Number, stored.Number)
	assert.Equal(t, StatusReceived, stored.Status)
	assert.Equal(t, "called supplier about the short delivery", stored.Notes)
}

func TestServiceUpdate_TerminalReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.createReceived(t, 1)
	require.NoError(t, f.service.Complete(ctx, doc.ID))

	stored, err := f.service.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	stored.Notes = "too late"

	err = f.service.Update(ctx, stored)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReceiptCompleted, appErr.Code)
}

func TestServiceDelete_TerminalReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.createReceived(t, 1)
	require.NoError(t, f.service.Cancel(ctx, doc.ID))

	err := f.service.Delete(ctx, doc.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeReceiptCompleted, appErr.Code)
}

func TestServiceDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.newReceipt(t, 1)
	require.NoError(t, f.service.Create(ctx, doc))
	require.NoError(t, f.service.Delete(ctx, doc.ID))

	_, err := f.service.GetByID(ctx, doc.ID)
	require.True(t, apperror.IsNotFound(err))
}

// --- Item operations ---

func TestServiceAddItem_RecomputesTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.newReceipt(t, 1)
	require.NoError(t, f.service.Create(ctx, doc))

	item := NewItem(doc.ID, f.addProduct(t), 2, money("40"))
	updated, err := f.service.AddItem(ctx, doc.ID, item)
	require.NoError(t, err)

	require.Len(t, updated.Items, 2)
	assert.True(t, updated.TotalAmount.Equal(money("235.00")))
	assert.True(t, f.repo.docs[doc.ID].TotalAmount.Equal(money("235.00")),
		"recomputed total must be persisted")
}

func TestServiceUpdateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.newReceipt(t, 1)
	require.NoError(t, f.service.Create(ctx, doc))

	item := doc.Items[0]
	item.Quantity = 20
	updated, err := f.service.UpdateItem(ctx, doc.ID, item)
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(money("310.00")))

	t.Run("unknown item", func(t *testing.T) {
		missing := NewItem(doc.ID, f.addProduct(t), 1, money("1"))
		_, err := f.service.UpdateItem(ctx, doc.ID, missing)
		require.True(t, apperror.IsNotFound(err))
	})
}

func TestServiceRemoveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.newReceipt(t, 2)
	require.NoError(t, f.service.Create(ctx, doc))

	updated, err := f.service.RemoveItem(ctx, doc.ID, doc.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.True(t, updated.TotalAmount.Equal(money("155.00")))
}

func TestServiceItemOps_TerminalReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := f.createReceived(t, 1)
	require.NoError(t, f.service.Complete(ctx, doc.ID))
	totalBefore := f.repo.docs[doc.ID].TotalAmount

	item := NewItem(doc.ID, f.addProduct(t), 1, money("1"))
	_, err := f.service.AddItem(ctx, doc.ID, item)
	requireReceiptCompleted(t, err)

	_, err = f.service.UpdateItem(ctx, doc.ID, doc.Items[0])
	requireReceiptCompleted(t, err)

	_, err = f.service.RemoveItem(ctx, doc.ID, doc.Items[0].ID)
	requireReceiptCompleted(t, err)

	assert.True(t, f.repo.docs[doc.ID].TotalAmount.Equal(totalBefore),
		"totals must be untouched after rejected mutations")
}

func requireReceiptCompleted(t *testing.T, err error) {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, apperror.CodeReceiptCompleted, appErr.Code)
}
