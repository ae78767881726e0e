package postgres

import (
	"context"

	"ironstock/internal/domain/documents/purchase_receipt"
	"ironstock/pkg/logger"
)

// ReceiptAuditor adapts AuditService to the receipt lifecycle hook.
// Audit failures are logged and swallowed so they never abort the
// business operation.
type ReceiptAuditor struct {
	audit *AuditService
}

var _ purchase_receipt.Auditor = (*ReceiptAuditor)(nil)

// NewReceiptAuditor creates an auditor for purchase receipts.
func NewReceiptAuditor(audit *AuditService) *ReceiptAuditor {
	return &ReceiptAuditor{audit: audit}
}

// Record stores a snapshot of the receipt for the given action.
func (a *ReceiptAuditor) Record(ctx context.Context, action string, doc *purchase_receipt.PurchaseReceipt) {
	err := a.audit.LogSnapshot(ctx, "PurchaseReceipt", doc.ID, AuditAction(action), doc)
	if err != nil {
		logger.Warn(ctx, "audit record failed",
			"action", action,
			"receipt_id", doc.ID,
			"error", err,
		)
	}
}
