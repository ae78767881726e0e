package dto

import (
	"ironstock/internal/core/types"
	"ironstock/internal/domain/catalogs/product"
)

// CreateProductRequest represents a request to create a product.
type CreateProductRequest struct {
	Code          string       `json:"code,omitempty"`
	Name          string       `json:"name" binding:"required"`
	SKU           *string      `json:"sku,omitempty"`
	Barcode       *string      `json:"barcode,omitempty"`
	Category      *string      `json:"category,omitempty"`
	Unit          string       `json:"unit" binding:"required"`
	PurchasePrice *types.Money `json:"purchasePrice,omitempty"`
	SellPrice     *types.Money `json:"sellPrice,omitempty"`
	ReorderLevel  int          `json:"reorderLevel,omitempty"`
	Description   *string      `json:"description,omitempty"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name, product.Unit(r.Unit))
	p.SKU = r.SKU
	p.Barcode = r.Barcode
	p.Category = r.Category
	p.ReorderLevel = r.ReorderLevel
	p.Description = r.Description
	if r.PurchasePrice != nil {
		p.PurchasePrice = *r.PurchasePrice
	}
	if r.SellPrice != nil {
		p.SellPrice = *r.SellPrice
	}
	return p
}

// UpdateProductRequest represents a request to update a product.
type UpdateProductRequest struct {
	Name          *string      `json:"name,omitempty"`
	SKU           *string      `json:"sku,omitempty"`
	Barcode       *string      `json:"barcode,omitempty"`
	Category      *string      `json:"category,omitempty"`
	Unit          *string      `json:"unit,omitempty"`
	PurchasePrice *types.Money `json:"purchasePrice,omitempty"`
	SellPrice     *types.Money `json:"sellPrice,omitempty"`
	ReorderLevel  *int         `json:"reorderLevel,omitempty"`
	Description   *string      `json:"description,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.SKU != nil {
		p.SKU = r.SKU
	}
	if r.Barcode != nil {
		p.Barcode = r.Barcode
	}
	if r.Category != nil {
		p.Category = r.Category
	}
	if r.Unit != nil {
		p.Unit = product.Unit(*r.Unit)
	}
	if r.PurchasePrice != nil {
		p.PurchasePrice = *r.PurchasePrice
	}
	if r.SellPrice != nil {
		p.SellPrice = *r.SellPrice
	}
	if r.ReorderLevel != nil {
		p.ReorderLevel = *r.ReorderLevel
	}
	if r.Description != nil {
		p.Description = r.Description
	}
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID            string      `json:"id"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	SKU           *string     `json:"sku,omitempty"`
	Barcode       *string     `json:"barcode,omitempty"`
	Category      *string     `json:"category,omitempty"`
	Unit          string      `json:"unit"`
	PurchasePrice types.Money `json:"purchasePrice"`
	SellPrice     types.Money `json:"sellPrice"`
	ReorderLevel  int         `json:"reorderLevel"`
	Description   *string     `json:"description,omitempty"`
	DeletionMark  bool        `json:"deletionMark,omitempty"`
	Version       int         `json:"version"`
}

// FromProduct converts a domain entity to a response DTO.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID.String(),
		Code:          p.Code,
		Name:          p.Name,
		SKU:           p.SKU,
		Barcode:       p.Barcode,
		Category:      p.Category,
		Unit:          string(p.Unit),
		PurchasePrice: p.PurchasePrice,
		SellPrice:     p.SellPrice,
		ReorderLevel:  p.ReorderLevel,
		Description:   p.Description,
		DeletionMark:  p.DeletionMark,
		Version:       p.Version,
	}
}
