package dto

import (
	"time"

	"ironstock/internal/core/id"
	"ironstock/internal/core/types"
	"ironstock/internal/domain/documents/purchase_receipt"
)

// --- Request DTOs ---

// CreateReceiptRequest represents a request to create a purchase receipt.
type CreateReceiptRequest struct {
	Number                 string               `json:"number,omitempty"`
	SupplierID             string               `json:"supplierId" binding:"required"`
	PurchaseDate           time.Time            `json:"purchaseDate" binding:"required"`
	SupplierBillRef        string               `json:"supplierBillRef,omitempty"`
	Notes                  string               `json:"notes,omitempty"`
	BillDiscountAmount     *types.Money         `json:"billDiscountAmount,omitempty"`
	BillDiscountPercentage *types.Money         `json:"billDiscountPercentage,omitempty"`
	Items                  []ReceiptItemRequest `json:"items,omitempty"`
}

// ReceiptItemRequest represents a line item in create/add requests.
type ReceiptItemRequest struct {
	ProductID              string       `json:"productId" binding:"required"`
	Quantity               int          `json:"quantity" binding:"required,gt=0"`
	UnitCost               types.Money  `json:"unitCost"`
	ItemDiscountAmount     *types.Money `json:"itemDiscountAmount,omitempty"`
	ItemDiscountPercentage *types.Money `json:"itemDiscountPercentage,omitempty"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateReceiptRequest) ToEntity() (*purchase_receipt.PurchaseReceipt, error) {
	supplierID, err := id.Parse(r.SupplierID)
	if err != nil {
		return nil, err
	}

	doc := purchase_receipt.New(supplierID, r.PurchaseDate)
	doc.Number = r.Number
	doc.SupplierBillRef = r.SupplierBillRef
	doc.Notes = r.Notes
	if r.BillDiscountAmount != nil {
		doc.BillDiscountAmount = *r.BillDiscountAmount
	}
	if r.BillDiscountPercentage != nil {
		doc.BillDiscountPercentage = *r.BillDiscountPercentage
	}

	for _, item := range r.Items {
		entityItem, err := item.ToEntity(doc.ID)
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, entityItem)
	}

	return doc, nil
}

// ToEntity converts the line item request to a domain item.
func (r *ReceiptItemRequest) ToEntity(receiptID id.ID) (purchase_receipt.Item, error) {
	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return purchase_receipt.Item{}, err
	}

	item := purchase_receipt.NewItem(receiptID, productID, r.Quantity, r.UnitCost)
	if r.ItemDiscountAmount != nil {
		item.ItemDiscountAmount = *r.ItemDiscountAmount
	}
	if r.ItemDiscountPercentage != nil {
		item.ItemDiscountPercentage = *r.ItemDiscountPercentage
	}
	return item, nil
}

// UpdateReceiptRequest represents a request to update receipt header fields.
type UpdateReceiptRequest struct {
	SupplierID             *string      `json:"supplierId,omitempty"`
	PurchaseDate           *time.Time   `json:"purchaseDate,omitempty"`
	SupplierBillRef        *string      `json:"supplierBillRef,omitempty"`
	Notes                  *string      `json:"notes,omitempty"`
	BillDiscountAmount     *types.Money `json:"billDiscountAmount,omitempty"`
	BillDiscountPercentage *types.Money `json:"billDiscountPercentage,omitempty"`
	Comment                *string      `json:"comment,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateReceiptRequest) ApplyTo(doc *purchase_receipt.PurchaseReceipt) error {
	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return err
		}
		doc.SupplierID = supplierID
	}
	if r.PurchaseDate != nil {
		doc.PurchaseDate = *r.PurchaseDate
		doc.Date = *r.PurchaseDate
	}
	if r.SupplierBillRef != nil {
		doc.SupplierBillRef = *r.SupplierBillRef
	}
	if r.Notes != nil {
		doc.Notes = *r.Notes
	}
	if r.BillDiscountAmount != nil {
		doc.BillDiscountAmount = *r.BillDiscountAmount
	}
	if r.BillDiscountPercentage != nil {
		doc.BillDiscountPercentage = *r.BillDiscountPercentage
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}
	return nil
}

// --- Response DTOs ---

// ReceiptResponse represents a purchase receipt in API responses.
type ReceiptResponse struct {
	ID                     string                `json:"id"`
	Number                 string                `json:"number"`
	Status                 string                `json:"status"`
	SupplierID             string                `json:"supplierId"`
	PurchaseDate           time.Time             `json:"purchaseDate"`
	SupplierBillRef        string                `json:"supplierBillRef,omitempty"`
	Notes                  string                `json:"notes,omitempty"`
	BillDiscountAmount     types.Money           `json:"billDiscountAmount"`
	BillDiscountPercentage types.Money           `json:"billDiscountPercentage"`
	TotalAmount            types.Money           `json:"totalAmount"`
	Comment                string                `json:"comment,omitempty"`
	Items                  []ReceiptItemResponse `json:"items,omitempty"`
	DeletionMark           bool                  `json:"deletionMark,omitempty"`
	CreatedAt              time.Time             `json:"createdAt"`
	UpdatedAt              time.Time             `json:"updatedAt"`
	CreatedBy              string                `json:"createdBy,omitempty"`
	Version                int                   `json:"version"`
}

// ReceiptItemResponse represents a line item in API responses.
type ReceiptItemResponse struct {
	ID                     string      `json:"id"`
	ProductID              string      `json:"productId"`
	Quantity               int         `json:"quantity"`
	UnitCost               types.Money `json:"unitCost"`
	ItemDiscountAmount     types.Money `json:"itemDiscountAmount"`
	ItemDiscountPercentage types.Money `json:"itemDiscountPercentage"`
	LineTotal              types.Money `json:"lineTotal"`
}

// FromReceipt converts a domain entity to a response DTO.
func FromReceipt(doc *purchase_receipt.PurchaseReceipt) *ReceiptResponse {
	resp := &ReceiptResponse{
		ID:                     doc.ID.String(),
		Number:                 doc.Number,
		Status:                 string(doc.Status),
		SupplierID:             doc.SupplierID.String(),
		PurchaseDate:           doc.PurchaseDate,
		SupplierBillRef:        doc.SupplierBillRef,
		Notes:                  doc.Notes,
		BillDiscountAmount:     doc.BillDiscountAmount,
		BillDiscountPercentage: doc.BillDiscountPercentage,
		TotalAmount:            doc.TotalAmount,
		Comment:                doc.Comment,
		DeletionMark:           doc.DeletionMark,
		CreatedAt:              doc.CreatedAt,
		UpdatedAt:              doc.UpdatedAt,
		CreatedBy:              doc.CreatedBy,
		Version:                doc.Version,
	}

	resp.Items = make([]ReceiptItemResponse, len(doc.Items))
	for i, item := range doc.Items {
		resp.Items[i] = ReceiptItemResponse{
			ID:                     item.ID.String(),
			ProductID:              item.ProductID.String(),
			Quantity:               item.Quantity,
			UnitCost:               item.UnitCost,
			ItemDiscountAmount:     item.ItemDiscountAmount,
			ItemDiscountPercentage: item.ItemDiscountPercentage,
			LineTotal:              item.LineTotal,
		}
	}

	return resp
}
