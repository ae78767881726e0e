// Package product provides the Product catalog.
// Products are the sellable and stockable items of the store.
package product

import (
	"context"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/entity"
	"ironstock/internal/core/types"
)

// Unit defines the unit of measure for a product.
type Unit string

const (
	UnitPiece Unit = "pcs"
	UnitBox   Unit = "box"
	UnitMeter Unit = "m"
	UnitKg    Unit = "kg"
	UnitLiter Unit = "l"
)

// Product represents a stockable item.
type Product struct {
	entity.Catalog

	// SKU is the stock keeping unit (unique)
	SKU *string `db:"sku" json:"sku,omitempty"`

	// Barcode is the item barcode (EAN-13, etc.)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// Category is a free-form grouping (e.g., "fasteners", "power tools")
	Category *string `db:"category" json:"category,omitempty"`

	// Unit is the unit of measure
	Unit Unit `db:"unit" json:"unit"`

	// PurchasePrice is the default cost when receiving
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// SellPrice is the retail price
	SellPrice types.Money `db:"sell_price" json:"sellPrice"`

	// ReorderLevel triggers low-stock alerts when on-hand drops below it
	ReorderLevel int `db:"reorder_level" json:"reorderLevel"`

	// Description is a detailed description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string, unit Unit) *Product {
	return &Product{
		Catalog:       entity.NewCatalog(code, name),
		Unit:          unit,
		PurchasePrice: types.Zero,
		SellPrice:     types.Zero,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidUnit(p.Unit) {
		return apperror.NewValidation("invalid unit of measure").
			WithDetail("field", "unit").
			WithDetail("value", string(p.Unit))
	}

	if p.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchase price cannot be negative").
			WithDetail("field", "purchasePrice")
	}

	if p.SellPrice.IsNegative() {
		return apperror.NewValidation("sell price cannot be negative").
			WithDetail("field", "sellPrice")
	}

	if p.ReorderLevel < 0 {
		return apperror.NewValidation("reorder level cannot be negative").
			WithDetail("field", "reorderLevel")
	}

	return nil
}

func isValidUnit(u Unit) bool {
	switch u {
	case UnitPiece, UnitBox, UnitMeter, UnitKg, UnitLiter:
		return true
	}
	return false
}
