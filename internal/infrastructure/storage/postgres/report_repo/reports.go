// Package report_repo runs the aggregate report queries against PostgreSQL.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"ironstock/internal/core/id"
	"ironstock/internal/domain/reports"
	"ironstock/internal/infrastructure/storage/postgres"
)

// ReportRepo implements the report queries.
type ReportRepo struct {
	txManager *postgres.TxManager
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// Summary aggregates receipts whose purchase date falls in [from, to].
// Amount and discount totals count completed receipts only.
func (r *ReportRepo) Summary(ctx context.Context, from, to time.Time) (*reports.Summary, error) {
	const query = `
		SELECT
			COUNT(*)                                              AS receipt_count,
			COUNT(*) FILTER (WHERE r.status = 'pending')          AS pending_count,
			COUNT(*) FILTER (WHERE r.status = 'received')         AS received_count,
			COUNT(*) FILTER (WHERE r.status = 'completed')        AS completed_count,
			COUNT(*) FILTER (WHERE r.status = 'cancelled')        AS cancelled_count,
			COALESCE(SUM(r.total_amount) FILTER (WHERE r.status = 'completed'), 0) AS total_amount,
			COALESCE(SUM(
				(SELECT COALESCE(SUM(i.quantity * i.unit_cost - i.line_total), 0)
				 FROM doc_purchase_receipt_items i
				 WHERE i.receipt_id = r.id) + r.bill_discount_amount
			) FILTER (WHERE r.status = 'completed'), 0)           AS total_discount,
			COALESCE(SUM(
				(SELECT COALESCE(SUM(i.quantity), 0)
				 FROM doc_purchase_receipt_items i
				 WHERE i.receipt_id = r.id)
			) FILTER (WHERE r.status = 'completed'), 0)           AS total_items
		FROM doc_purchase_receipts r
		WHERE r.deletion_mark = FALSE
		  AND r.purchase_date >= $1
		  AND r.purchase_date <= $2`

	summary := &reports.Summary{}
	row := r.txManager.GetQuerier(ctx).QueryRow(ctx, query, from, to)
	err := row.Scan(
		&summary.ReceiptCount,
		&summary.PendingCount,
		&summary.ReceivedCount,
		&summary.CompletedCount,
		&summary.CancelledCount,
		&summary.TotalAmount,
		&summary.TotalDiscount,
		&summary.TotalItems,
	)
	if err != nil {
		return nil, fmt.Errorf("scan summary: %w", err)
	}

	return summary, nil
}

// SupplierPerformance aggregates one supplier's receipts in [from, to].
func (r *ReportRepo) SupplierPerformance(ctx context.Context, supplierID id.ID, from, to time.Time) (*reports.SupplierPerformance, error) {
	const query = `
		SELECT
			COUNT(*)                                              AS receipt_count,
			COUNT(*) FILTER (WHERE r.status = 'completed')        AS completed_count,
			COUNT(*) FILTER (WHERE r.status = 'cancelled')        AS cancelled_count,
			COALESCE(SUM(r.total_amount) FILTER (WHERE r.status = 'completed'), 0) AS total_spend,
			COALESCE(AVG(r.total_amount) FILTER (WHERE r.status = 'completed'), 0) AS avg_receipt_value,
			COALESCE(AVG(
				EXTRACT(EPOCH FROM (r.updated_at - r.purchase_date)) / 86400.0
			) FILTER (WHERE r.status = 'completed'), 0)           AS avg_days_to_complete
		FROM doc_purchase_receipts r
		WHERE r.deletion_mark = FALSE
		  AND r.supplier_id = $1
		  AND r.purchase_date >= $2
		  AND r.purchase_date <= $3`

	perf := &reports.SupplierPerformance{}
	row := r.txManager.GetQuerier(ctx).QueryRow(ctx, query, supplierID, from, to)
	err := row.Scan(
		&perf.ReceiptCount,
		&perf.CompletedCount,
		&perf.CancelledCount,
		&perf.TotalSpend,
		&perf.AvgReceiptValue,
		&perf.AvgDaysToComplete,
	)
	if err != nil {
		return nil, fmt.Errorf("scan supplier performance: %w", err)
	}

	return perf, nil
}

// SupplierExists checks for a live supplier row.
func (r *ReportRepo) SupplierExists(ctx context.Context, supplierID id.ID) (bool, error) {
	const query = `SELECT COUNT(*) FROM cat_suppliers WHERE id = $1 AND deletion_mark = FALSE`

	var count int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, query, supplierID).Scan(&count); err != nil {
		return false, fmt.Errorf("supplier exists: %w", err)
	}

	return count > 0, nil
}
