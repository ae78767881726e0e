package dto

import (
	"ironstock/internal/domain/catalogs/supplier"
)

// CreateSupplierRequest represents a request to create a supplier.
type CreateSupplierRequest struct {
	Code          string  `json:"code,omitempty"`
	Name          string  `json:"name" binding:"required"`
	TaxID         *string `json:"taxId,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
	PaymentTerms  string  `json:"paymentTerms,omitempty"`
	Comment       *string `json:"comment,omitempty"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.NewSupplier(r.Code, r.Name)
	s.TaxID = r.TaxID
	s.ContactPerson = r.ContactPerson
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	s.Comment = r.Comment
	if r.PaymentTerms != "" {
		s.PaymentTerms = supplier.PaymentTerms(r.PaymentTerms)
	}
	return s
}

// UpdateSupplierRequest represents a request to update a supplier.
type UpdateSupplierRequest struct {
	Name          *string `json:"name,omitempty"`
	TaxID         *string `json:"taxId,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
	PaymentTerms  *string `json:"paymentTerms,omitempty"`
	Comment       *string `json:"comment,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.TaxID != nil {
		s.TaxID = r.TaxID
	}
	if r.ContactPerson != nil {
		s.ContactPerson = r.ContactPerson
	}
	if r.Phone != nil {
		s.Phone = r.Phone
	}
	if r.Email != nil {
		s.Email = r.Email
	}
	if r.Address != nil {
		s.Address = r.Address
	}
	if r.PaymentTerms != nil {
		s.PaymentTerms = supplier.PaymentTerms(*r.PaymentTerms)
	}
	if r.Comment != nil {
		s.Comment = r.Comment
	}
}

// SupplierResponse represents a supplier in API responses.
type SupplierResponse struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	TaxID         *string `json:"taxId,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
	PaymentTerms  string  `json:"paymentTerms"`
	Comment       *string `json:"comment,omitempty"`
	DeletionMark  bool    `json:"deletionMark,omitempty"`
	Version       int     `json:"version"`
}

// FromSupplier converts a domain entity to a response DTO.
func FromSupplier(s *supplier.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:            s.ID.String(),
		Code:          s.Code,
		Name:          s.Name,
		TaxID:         s.TaxID,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		PaymentTerms:  string(s.PaymentTerms),
		Comment:       s.Comment,
		DeletionMark:  s.DeletionMark,
		Version:       s.Version,
	}
}
