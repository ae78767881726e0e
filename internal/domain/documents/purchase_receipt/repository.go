// Package purchase_receipt provides the PurchaseReceipt document repository.
package purchase_receipt

import (
	"context"
	"time"

	"ironstock/internal/core/id"
	"ironstock/internal/domain"
)

// Repository defines operations for purchase receipt documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *PurchaseReceipt) error
	GetByID(ctx context.Context, docID id.ID) (*PurchaseReceipt, error)
	GetByNumber(ctx context.Context, number string) (*PurchaseReceipt, error)
	Update(ctx context.Context, doc *PurchaseReceipt) error
	Delete(ctx context.Context, docID id.ID) error

	// Item operations
	GetItems(ctx context.Context, docID id.ID) ([]Item, error)
	SaveItems(ctx context.Context, docID id.ID, items []Item) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseReceipt], error)

	// Locking. GetForUpdate serializes concurrent lifecycle calls
	// on the same receipt.
	GetForUpdate(ctx context.Context, docID id.ID) (*PurchaseReceipt, error)
}

// ListFilter for filtering purchase receipts.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	SupplierID *id.ID
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
}
