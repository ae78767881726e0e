// Package purchase_receipt provides the PurchaseReceipt document.
// A purchase receipt records incoming goods from a supplier and, on
// completion, materializes them into stock batches, ledger movements
// and aggregate inventory levels.
package purchase_receipt

import (
	"context"
	"time"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/entity"
	"ironstock/internal/core/id"
	"ironstock/internal/core/types"
)

const (
	maxNumberLen  = 50
	maxBillRefLen = 100
	maxNotesLen   = 1000
)

// PurchaseReceipt is the receipt header.
type PurchaseReceipt struct {
	entity.Document

	// Supplier reference
	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// Status is the lifecycle state (see status.go)
	Status Status `db:"status" json:"status"`

	// PurchaseDate is the business date goods were purchased
	PurchaseDate time.Time `db:"purchase_date" json:"purchaseDate"`

	// SupplierBillRef is the supplier's own bill/invoice reference
	SupplierBillRef string `db:"supplier_bill_ref" json:"supplierBillRef,omitempty"`

	// Notes is a free-text note
	Notes string `db:"notes" json:"notes,omitempty"`

	// BillDiscountPercentage takes precedence over BillDiscountAmount
	// when positive. After recalculation BillDiscountAmount holds the
	// effective discount actually applied.
	BillDiscountAmount     types.Money `db:"bill_discount_amount" json:"billDiscountAmount"`
	BillDiscountPercentage types.Money `db:"bill_discount_percentage" json:"billDiscountPercentage"`

	// TotalAmount is derived from items minus bill discount, never negative
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Table part: line items
	Items []Item `db:"-" json:"items"`
}

// Item is a receipt line item.
type Item struct {
	ID        id.ID `db:"id" json:"id"`
	ReceiptID id.ID `db:"receipt_id" json:"receiptId"`
	ProductID id.ID `db:"product_id" json:"productId"`

	// Quantity is a positive integer count of units
	Quantity int `db:"quantity" json:"quantity"`

	// UnitCost is the per-unit purchase cost
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// ItemDiscountPercentage takes precedence over ItemDiscountAmount
	// when positive. After recalculation ItemDiscountAmount holds the
	// effective discount actually applied.
	ItemDiscountAmount     types.Money `db:"item_discount_amount" json:"itemDiscountAmount"`
	ItemDiscountPercentage types.Money `db:"item_discount_percentage" json:"itemDiscountPercentage"`

	// LineTotal is derived: base minus effective discount
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// New creates a new purchase receipt in Pending state.
func New(supplierID id.ID, purchaseDate time.Time) *PurchaseReceipt {
	r := &PurchaseReceipt{
		Document:               entity.NewDocument(),
		SupplierID:             supplierID,
		Status:                 StatusPending,
		PurchaseDate:           purchaseDate,
		BillDiscountAmount:     types.Zero,
		BillDiscountPercentage: types.Zero,
		TotalAmount:            types.Zero,
		Items:                  make([]Item, 0),
	}
	r.Date = purchaseDate
	return r
}

// NewItem creates a line item for the given receipt.
func NewItem(receiptID, productID id.ID, quantity int, unitCost types.Money) Item {
	return Item{
		ID:                     id.New(),
		ReceiptID:              receiptID,
		ProductID:              productID,
		Quantity:               quantity,
		UnitCost:               unitCost,
		ItemDiscountAmount:     types.Zero,
		ItemDiscountPercentage: types.Zero,
		LineTotal:              types.Zero,
	}
}

// Base returns the undiscounted line amount.
func (i *Item) Base() types.Money {
	return LineBase(i.Quantity, i.UnitCost)
}

// Recalculate resolves the effective discount and line total.
// The computed discount is written back to ItemDiscountAmount so the
// stored value always matches what was actually deducted.
func (i *Item) Recalculate() {
	base := i.Base()
	i.ItemDiscountAmount = Discount(base, i.ItemDiscountPercentage, i.ItemDiscountAmount)
	i.LineTotal = base.Sub(i.ItemDiscountAmount)
}

// Validate checks line item invariants.
func (i *Item) Validate(ctx context.Context) error {
	if id.IsNil(i.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if i.Quantity <= 0 {
		return apperror.NewValidation("quantity must be a positive integer").
			WithDetail("field", "quantity").
			WithDetail("value", i.Quantity)
	}
	if i.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost cannot be negative").
			WithDetail("field", "unitCost")
	}
	if i.ItemDiscountAmount.IsNegative() {
		return apperror.NewValidation("item discount cannot be negative").
			WithDetail("field", "itemDiscountAmount")
	}
	if i.ItemDiscountPercentage.IsNegative() ||
		i.ItemDiscountPercentage.GreaterThan(types.MoneyFromInt(100)) {
		return apperror.NewValidation("item discount percentage must be between 0 and 100").
			WithDetail("field", "itemDiscountPercentage")
	}
	return nil
}

// Recalculate re-runs discount math over all items and the header.
// Item totals are resolved first, then the bill discount applies to
// their sum, and the grand total is floored at zero.
func (r *PurchaseReceipt) Recalculate() {
	itemsTotal := types.Zero
	for idx := range r.Items {
		r.Items[idx].Recalculate()
		itemsTotal = itemsTotal.Add(r.Items[idx].LineTotal)
	}

	r.BillDiscountAmount = Discount(itemsTotal, r.BillDiscountPercentage, r.BillDiscountAmount)
	r.TotalAmount = types.ClampMin(itemsTotal.Sub(r.BillDiscountAmount), types.Zero)
}

// Validate implements entity.Validatable.
func (r *PurchaseReceipt) Validate(ctx context.Context) error {
	if id.IsNil(r.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}
	if r.CreatedBy == "" {
		return apperror.NewValidation("creator is required").
			WithDetail("field", "createdBy")
	}
	if r.PurchaseDate.IsZero() {
		return apperror.NewValidation("purchase date is required").
			WithDetail("field", "purchaseDate")
	}
	if len(r.Number) > maxNumberLen {
		return apperror.NewValidation("receipt number too long").
			WithDetail("field", "number").
			WithDetail("maxLength", maxNumberLen)
	}
	if len(r.SupplierBillRef) > maxBillRefLen {
		return apperror.NewValidation("supplier bill reference too long").
			WithDetail("field", "supplierBillRef").
			WithDetail("maxLength", maxBillRefLen)
	}
	if len(r.Notes) > maxNotesLen {
		return apperror.NewValidation("notes too long").
			WithDetail("field", "notes").
			WithDetail("maxLength", maxNotesLen)
	}
	if r.BillDiscountAmount.IsNegative() {
		return apperror.NewValidation("bill discount cannot be negative").
			WithDetail("field", "billDiscountAmount")
	}
	if r.BillDiscountPercentage.IsNegative() ||
		r.BillDiscountPercentage.GreaterThan(types.MoneyFromInt(100)) {
		return apperror.NewValidation("bill discount percentage must be between 0 and 100").
			WithDetail("field", "billDiscountPercentage")
	}

	for idx := range r.Items {
		if err := r.Items[idx].Validate(ctx); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("itemIndex", idx)
			}
			return err
		}
	}

	return nil
}

// CanModify checks if the receipt still accepts edits.
// Terminal receipts reject all header and item mutations.
func (r *PurchaseReceipt) CanModify() error {
	if r.Status.IsTerminal() {
		return apperror.NewReceiptCompleted(r.ID.String(), string(r.Status))
	}
	return nil
}

// FindItem returns the index of the item with the given ID, or -1.
func (r *PurchaseReceipt) FindItem(itemID id.ID) int {
	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			return idx
		}
	}
	return -1
}
