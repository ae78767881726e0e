// Package purchase_receipt provides the PurchaseReceipt document service.
package purchase_receipt

import (
	"context"
	"fmt"

	"ironstock/internal/core/apperror"
	appctx "ironstock/internal/core/context"
	"ironstock/internal/core/id"
	"ironstock/internal/core/rules"
	"ironstock/internal/core/tx"
	"ironstock/internal/domain"
	"ironstock/internal/domain/catalogs/product"
	"ironstock/internal/domain/registers/stock"
	"ironstock/pkg/logger"
	"ironstock/pkg/numerator"
)

// maxNumberAttempts bounds the retry loop for generated receipt numbers.
// The storage layer enforces uniqueness; a conflict regenerates and retries.
const maxNumberAttempts = 5

// referenceType identifies this document in the stock movement ledger.
const referenceType = "PurchaseReceipt"

// SupplierRepository is the subset of the supplier catalog needed here.
type SupplierRepository interface {
	Exists(ctx context.Context, supplierID id.ID) (bool, error)
}

// ProductRepository is the subset of the product catalog needed here.
type ProductRepository interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
}

// Auditor records receipt lifecycle events for the audit trail.
type Auditor interface {
	Record(ctx context.Context, action string, doc *PurchaseReceipt)
}

// Service provides business operations for purchase receipt documents.
type Service struct {
	repo      Repository
	stock     *stock.Service
	suppliers SupplierRepository
	products  ProductRepository
	numerator *numerator.Service
	txManager tx.Manager
	rules     *rules.Engine
	auditor   Auditor
	hooks     *domain.HookRegistry[*PurchaseReceipt]
}

// Config wires service dependencies.
type Config struct {
	Repo      Repository
	Stock     *stock.Service
	Suppliers SupplierRepository
	Products  ProductRepository
	Numerator *numerator.Service
	TxManager tx.Manager

	// Rules is an optional configurable validation engine.
	Rules *rules.Engine

	// Auditor is optional; nil disables audit recording.
	Auditor Auditor
}

// NewService creates a new purchase receipt service.
func NewService(cfg Config) *Service {
	return &Service{
		repo:      cfg.Repo,
		stock:     cfg.Stock,
		suppliers: cfg.Suppliers,
		products:  cfg.Products,
		numerator: cfg.Numerator,
		txManager: cfg.TxManager,
		rules:     cfg.Rules,
		auditor:   cfg.Auditor,
		hooks:     domain.NewHookRegistry[*PurchaseReceipt](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*PurchaseReceipt] {
	return s.hooks
}

func (s *Service) audit(ctx context.Context, action string, doc *PurchaseReceipt) {
	if s.auditor != nil {
		s.auditor.Record(ctx, action, doc)
	}
}

// validate runs entity invariants, referential checks and configured rules.
func (s *Service) validate(ctx context.Context, doc *PurchaseReceipt) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.suppliers.Exists(ctx, doc.SupplierID)
	if err != nil {
		return fmt.Errorf("check supplier: %w", err)
	}
	if !exists {
		return apperror.NewNotFound("supplier", doc.SupplierID.String())
	}

	for idx := range doc.Items {
		if err := s.checkProduct(ctx, doc.Items[idx].ProductID); err != nil {
			return err
		}
	}

	if s.rules != nil && s.rules.Len() > 0 {
		if err := s.rules.Evaluate(ctx, snapshot(doc)); err != nil {
			return err
		}
	}

	return nil
}

// checkProduct ensures the product exists and is active.
func (s *Service) checkProduct(ctx context.Context, productID id.ID) error {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("product", productID.String())
		}
		return fmt.Errorf("check product: %w", err)
	}
	if p.DeletionMark {
		return apperror.NewValidation("product is not active").
			WithDetail("field", "productId").
			WithDetail("productId", productID.String())
	}
	return nil
}

// snapshot exposes header fields to the rules engine.
func snapshot(doc *PurchaseReceipt) map[string]any {
	total, _ := doc.TotalAmount.Float64()
	billDiscount, _ := doc.BillDiscountAmount.Float64()
	return map[string]any{
		"status":             string(doc.Status),
		"supplierId":         doc.SupplierID.String(),
		"itemCount":          len(doc.Items),
		"totalAmount":        total,
		"billDiscountAmount": billDiscount,
		"notes":              doc.Notes,
	}
}

// Create creates a new purchase receipt with its items.
// A missing receipt number is generated; generated numbers retry on
// conflict up to maxNumberAttempts, caller-supplied numbers do not.
func (s *Service) Create(ctx context.Context, doc *PurchaseReceipt) error {
	if err := s.hooks.Run(ctx, domain.BeforeCreate, doc); err != nil {
		return err
	}

	if doc.Status == "" {
		doc.Status = StatusPending
	}
	if doc.Status != StatusPending {
		return apperror.NewValidation("new receipts start in pending status").
			WithDetail("field", "status").
			WithDetail("value", string(doc.Status))
	}

	doc.Recalculate()
	if err := s.validate(ctx, doc); err != nil {
		return err
	}

	generated := doc.Number == ""
	attempts := 1
	if generated {
		attempts = maxNumberAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if generated {
			number, err := s.numerator.GetNextNumber(ctx, numerator.ReceiptConfig(), nil, doc.PurchaseDate)
			if err != nil {
				return fmt.Errorf("generate receipt number: %w", err)
			}
			doc.Number = number
		}

		lastErr = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := s.repo.Create(ctx, doc); err != nil {
				return err
			}
			for idx := range doc.Items {
				doc.Items[idx].ReceiptID = doc.ID
			}
			return s.repo.SaveItems(ctx, doc.ID, doc.Items)
		})
		if lastErr == nil {
			break
		}
		if !generated || !apperror.IsDuplicate(lastErr) {
			return lastErr
		}
		logger.Warn(ctx, "receipt number conflict, retrying",
			"number", doc.Number, "attempt", attempt+1)
	}
	if lastErr != nil {
		return apperror.NewConflict("could not allocate a unique receipt number").
			WithCause(lastErr)
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}
	s.audit(ctx, "create", doc)

	logger.Info(ctx, "purchase receipt created",
		"id", doc.ID, "number", doc.Number, "supplier_id", doc.SupplierID)

	return nil
}

// GetByID retrieves a purchase receipt with its items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseReceipt, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("purchase receipt", docID.String())
		}
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// GetByNumber retrieves a purchase receipt by its number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*PurchaseReceipt, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("purchase receipt", number)
		}
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// Update updates receipt header fields. The identifier and receipt
// number are immutable; items are managed via the item operations.
// Totals are recomputed from the authoritative stored item set.
func (s *Service) Update(ctx context.Context, doc *PurchaseReceipt) error {
	if err := s.hooks.Run(ctx, domain.BeforeUpdate, doc); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx, doc.ID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("purchase receipt", doc.ID.String())
			}
			return err
		}

		if err := current.CanModify(); err != nil {
			return err
		}

		// Identifier, number and status never change through Update
		doc.Number = current.Number
		doc.Status = current.Status
		doc.CreatedAt = current.CreatedAt
		doc.CreatedBy = current.CreatedBy

		items, err := s.repo.GetItems(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("get items: %w", err)
		}
		doc.Items = items

		doc.Recalculate()
		if err := s.validate(ctx, doc); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update receipt: %w", err)
		}
		return s.repo.SaveItems(ctx, doc.ID, doc.Items)
	})
}

// Delete removes a receipt and its items. Terminal receipts cannot
// be deleted.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("purchase receipt", docID.String())
			}
			return err
		}

		if err := doc.CanModify(); err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, docID); err != nil {
			return fmt.Errorf("delete receipt: %w", err)
		}

		s.audit(ctx, "delete", doc)
		return nil
	})
}

// --- Item operations ---

// AddItem appends a line item and recomputes totals.
func (s *Service) AddItem(ctx context.Context, docID id.ID, item Item) (*PurchaseReceipt, error) {
	var result *PurchaseReceipt
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockForItemChange(ctx, docID)
		if err != nil {
			return err
		}

		if err := item.Validate(ctx); err != nil {
			return err
		}
		if err := s.checkProduct(ctx, item.ProductID); err != nil {
			return err
		}

		if id.IsNil(item.ID) {
			item.ID = id.New()
		}
		item.ReceiptID = docID
		doc.Items = append(doc.Items, item)

		result = doc
		return s.saveWithTotals(ctx, doc)
	})
	return result, err
}

// UpdateItem replaces an existing line item and recomputes totals.
func (s *Service) UpdateItem(ctx context.Context, docID id.ID, item Item) (*PurchaseReceipt, error) {
	var result *PurchaseReceipt
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockForItemChange(ctx, docID)
		if err != nil {
			return err
		}

		idx := doc.FindItem(item.ID)
		if idx < 0 {
			return apperror.NewNotFound("receipt item", item.ID.String())
		}

		if err := item.Validate(ctx); err != nil {
			return err
		}
		if err := s.checkProduct(ctx, item.ProductID); err != nil {
			return err
		}

		item.ReceiptID = docID
		doc.Items[idx] = item

		result = doc
		return s.saveWithTotals(ctx, doc)
	})
	return result, err
}

// RemoveItem deletes a line item and recomputes totals.
func (s *Service) RemoveItem(ctx context.Context, docID, itemID id.ID) (*PurchaseReceipt, error) {
	var result *PurchaseReceipt
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockForItemChange(ctx, docID)
		if err != nil {
			return err
		}

		idx := doc.FindItem(itemID)
		if idx < 0 {
			return apperror.NewNotFound("receipt item", itemID.String())
		}
		doc.Items = append(doc.Items[:idx], doc.Items[idx+1:]...)

		result = doc
		return s.saveWithTotals(ctx, doc)
	})
	return result, err
}

// lockForItemChange loads the receipt with a row lock, rejects terminal
// states and attaches the authoritative stored item set.
func (s *Service) lockForItemChange(ctx context.Context, docID id.ID) (*PurchaseReceipt, error) {
	doc, err := s.repo.GetForUpdate(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("purchase receipt", docID.String())
		}
		return nil, err
	}
	if err := doc.CanModify(); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items
	return doc, nil
}

// saveWithTotals recalculates and persists header and items together.
func (s *Service) saveWithTotals(ctx context.Context, doc *PurchaseReceipt) error {
	doc.Recalculate()
	if err := s.repo.SaveItems(ctx, doc.ID, doc.Items); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	if err := s.repo.Update(ctx, doc); err != nil {
		return fmt.Errorf("update totals: %w", err)
	}
	return nil
}

// --- Lifecycle operations ---

// Receive marks goods as arrived. Legal only from Pending.
func (s *Service) Receive(ctx context.Context, docID id.ID) error {
	return s.transition(ctx, docID, StatusReceived, "receive")
}

// Cancel voids the receipt. Legal from Pending or Received; no stock
// or ledger entries are produced.
func (s *Service) Cancel(ctx context.Context, docID id.ID) error {
	return s.transition(ctx, docID, StatusCancelled, "cancel")
}

// transition runs a plain status change with a row lock.
func (s *Service) transition(ctx context.Context, docID id.ID, target Status, action string) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("purchase receipt", docID.String())
			}
			return err
		}

		next, err := doc.Status.Transition(target)
		if err != nil {
			return err
		}
		doc.Status = next

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("%s receipt: %w", action, err)
		}

		s.audit(ctx, action, doc)
		logger.Info(ctx, "receipt status changed",
			"id", doc.ID, "number", doc.Number, "status", doc.Status)
		return nil
	})
}

// Complete materializes the receipt into stock and marks it Completed.
// Stock integration and the status change commit in one transaction:
// if any item fails, everything rolls back and the receipt stays
// Received, so the call is safely retryable.
func (s *Service) Complete(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("purchase receipt", docID.String())
			}
			return err
		}

		next, err := doc.Status.Transition(StatusCompleted)
		if err != nil {
			return err
		}

		items, err := s.repo.GetItems(ctx, docID)
		if err != nil {
			return fmt.Errorf("get items: %w", err)
		}
		doc.Items = items
		if len(items) == 0 {
			return apperror.NewValidation("cannot complete a receipt without items").
				WithDetail("field", "items")
		}

		lines := make([]stock.ReceiveLine, 0, len(items))
		for _, item := range items {
			lines = append(lines, stock.ReceiveLine{
				ProductID:   item.ProductID,
				BatchNumber: BatchNumber(doc.Number, item.ID),
				Quantity:    item.Quantity,
				UnitCost:    item.UnitCost,
			})
		}

		// The movement actor is whoever runs the completion, not the
		// receipt's original creator.
		actor := appctx.Username(ctx)
		if actor == "" {
			actor = doc.CreatedBy
		}

		supplierID := doc.SupplierID
		if err := s.stock.Receive(ctx, stock.ReceiveRequest{
			ReferenceType: referenceType,
			ReferenceID:   doc.ID,
			SupplierID:    &supplierID,
			ReceivedAt:    doc.PurchaseDate,
			Actor:         actor,
			Lines:         lines,
		}); err != nil {
			return apperror.NewStockIntegration(err).
				WithDetail("receipt_id", doc.ID.String())
		}

		doc.Status = next
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("complete receipt: %w", err)
		}

		s.audit(ctx, "complete", doc)
		logger.Info(ctx, "purchase receipt completed",
			"id", doc.ID, "number", doc.Number, "items", len(items))
		return nil
	})
}

// BatchNumber derives the deterministic batch number for a line item.
func BatchNumber(receiptNumber string, itemID id.ID) string {
	return fmt.Sprintf("%s-%s", receiptNumber, id.Short(itemID))
}

// List retrieves purchase receipts with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseReceipt], error) {
	return s.repo.List(ctx, filter)
}
