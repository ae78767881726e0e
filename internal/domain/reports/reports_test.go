package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/id"
	"ironstock/internal/core/types"
)

type fakeReadOnlyTx struct {
	calls int
}

func (f *fakeReadOnlyTx) RunInReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeReportRepo struct {
	supplierExists bool
}

func (r *fakeReportRepo) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	return &Summary{
		ReceiptCount:   4,
		CompletedCount: 2,
		CancelledCount: 1,
		PendingCount:   1,
		TotalAmount:    types.NewMoney(518.00),
		TotalItems:     13,
	}, nil
}

func (r *fakeReportRepo) SupplierPerformance(ctx context.Context, supplierID id.ID, from, to time.Time) (*SupplierPerformance, error) {
	return &SupplierPerformance{
		ReceiptCount:      3,
		CompletedCount:    2,
		TotalSpend:        types.NewMoney(518.00),
		AvgReceiptValue:   types.NewMoney(259.00),
		AvgDaysToComplete: 1.5,
	}, nil
}

func (r *fakeReportRepo) SupplierExists(ctx context.Context, supplierID id.ID) (bool, error) {
	return r.supplierExists, nil
}

var (
	periodStart = time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
)

func TestSummary(t *testing.T) {
	roTx := &fakeReadOnlyTx{}
	svc := NewService(&fakeReportRepo{supplierExists: true}, roTx)

	summary, err := svc.Summary(context.Background(), periodStart, periodEnd)
	require.NoError(t, err)

	assert.Equal(t, 1, roTx.calls, "report must run inside a read-only transaction")
	assert.Equal(t, periodStart, summary.PeriodStart)
	assert.Equal(t, periodEnd, summary.PeriodEnd)
	assert.Equal(t, int64(4), summary.ReceiptCount)
	assert.True(t, summary.TotalAmount.Equal(types.NewMoney(518.00)))
}

func TestSummary_InvalidPeriod(t *testing.T) {
	svc := NewService(&fakeReportRepo{}, &fakeReadOnlyTx{})
	ctx := context.Background()

	_, err := svc.Summary(ctx, time.Time{}, periodEnd)
	requirePeriodValidation(t, err)

	_, err = svc.Summary(ctx, periodEnd, periodStart)
	requirePeriodValidation(t, err)
}

func TestSupplierPerformance(t *testing.T) {
	svc := NewService(&fakeReportRepo{supplierExists: true}, &fakeReadOnlyTx{})
	supplierID := id.New()

	perf, err := svc.SupplierPerformance(context.Background(), supplierID, periodStart, periodEnd)
	require.NoError(t, err)

	assert.Equal(t, supplierID, perf.SupplierID)
	assert.Equal(t, periodStart, perf.PeriodStart)
	assert.Equal(t, periodEnd, perf.PeriodEnd)
	assert.True(t, perf.AvgReceiptValue.Equal(types.NewMoney(259.00)))
}

func TestSupplierPerformance_UnknownSupplier(t *testing.T) {
	svc := NewService(&fakeReportRepo{supplierExists: false}, &fakeReadOnlyTx{})

	_, err := svc.SupplierPerformance(context.Background(), id.New(), periodStart, periodEnd)
	require.True(t, apperror.IsNotFound(err))
}

func TestSupplierPerformance_NilSupplier(t *testing.T) {
	svc := NewService(&fakeReportRepo{supplierExists: true}, &fakeReadOnlyTx{})

	_, err := svc.SupplierPerformance(context.Background(), id.Nil(), periodStart, periodEnd)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func requirePeriodValidation(t *testing.T, err error) {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, apperror.CodeValidation, appErr.Code)
	require.Equal(t, "period", appErr.Details["field"])
}
