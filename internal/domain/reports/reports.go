// Package reports provides read-only aggregation over purchase receipts.
package reports

import (
	"context"
	"fmt"
	"time"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/id"
	"ironstock/internal/core/tx"
	"ironstock/internal/core/types"
)

// Summary aggregates receipts over a period.
type Summary struct {
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`

	ReceiptCount   int64 `json:"receiptCount"`
	PendingCount   int64 `json:"pendingCount"`
	ReceivedCount  int64 `json:"receivedCount"`
	CompletedCount int64 `json:"completedCount"`
	CancelledCount int64 `json:"cancelledCount"`

	// TotalAmount and TotalDiscount cover completed receipts only
	TotalAmount   types.Money `json:"totalAmount"`
	TotalDiscount types.Money `json:"totalDiscount"`
	TotalItems    int64       `json:"totalItems"`
}

// SupplierPerformance aggregates one supplier's receipts over a period.
type SupplierPerformance struct {
	SupplierID  id.ID     `json:"supplierId"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`

	ReceiptCount   int64 `json:"receiptCount"`
	CompletedCount int64 `json:"completedCount"`
	CancelledCount int64 `json:"cancelledCount"`

	TotalSpend      types.Money `json:"totalSpend"`
	AvgReceiptValue types.Money `json:"avgReceiptValue"`

	// AvgDaysToComplete is the mean gap between purchase date and the
	// completing update, for completed receipts
	AvgDaysToComplete float64 `json:"avgDaysToComplete"`
}

// Repository runs the aggregate queries.
type Repository interface {
	Summary(ctx context.Context, from, to time.Time) (*Summary, error)
	SupplierPerformance(ctx context.Context, supplierID id.ID, from, to time.Time) (*SupplierPerformance, error)
	SupplierExists(ctx context.Context, supplierID id.ID) (bool, error)
}

// Service wraps report queries in read-only transactions so each
// report sees a consistent snapshot.
type Service struct {
	repo Repository
	roTx tx.ReadOnlyManager
}

// NewService creates a new reports service.
func NewService(repo Repository, roTx tx.ReadOnlyManager) *Service {
	return &Service{
		repo: repo,
		roTx: roTx,
	}
}

func validatePeriod(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return apperror.NewValidation("period start and end are required").
			WithDetail("field", "period")
	}
	if to.Before(from) {
		return apperror.NewValidation("period end must not precede period start").
			WithDetail("field", "period")
	}
	return nil
}

// Summary returns aggregate figures for all receipts in the period.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}

	var result *Summary
	err := s.roTx.RunInReadOnlyTransaction(ctx, func(ctx context.Context) error {
		summary, err := s.repo.Summary(ctx, from, to)
		if err != nil {
			return fmt.Errorf("summary query: %w", err)
		}
		result = summary
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.PeriodStart = from
	result.PeriodEnd = to
	return result, nil
}

// SupplierPerformance returns aggregate figures for one supplier.
func (s *Service) SupplierPerformance(ctx context.Context, supplierID id.ID, from, to time.Time) (*SupplierPerformance, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}
	if id.IsNil(supplierID) {
		return nil, apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	var result *SupplierPerformance
	err := s.roTx.RunInReadOnlyTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.SupplierExists(ctx, supplierID)
		if err != nil {
			return fmt.Errorf("check supplier: %w", err)
		}
		if !exists {
			return apperror.NewNotFound("supplier", supplierID.String())
		}

		perf, err := s.repo.SupplierPerformance(ctx, supplierID, from, to)
		if err != nil {
			return fmt.Errorf("supplier performance query: %w", err)
		}
		result = perf
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.SupplierID = supplierID
	result.PeriodStart = from
	result.PeriodEnd = to
	return result, nil
}
