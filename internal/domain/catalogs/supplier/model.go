// Package supplier provides the Supplier catalog.
// Suppliers are the vendors goods are purchased from.
package supplier

import (
	"context"
	"regexp"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// PaymentTerms defines agreed payment terms with a supplier.
type PaymentTerms string

const (
	TermsPrepaid PaymentTerms = "prepaid"
	TermsNet15   PaymentTerms = "net15"
	TermsNet30   PaymentTerms = "net30"
	TermsNet60   PaymentTerms = "net60"
)

// Supplier represents a vendor.
type Supplier struct {
	entity.Catalog

	// TaxID is the supplier's tax identification number
	TaxID *string `db:"tax_id" json:"taxId,omitempty"`

	// ContactPerson is the primary contact name
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is the primary contact email
	Email *string `db:"email" json:"email,omitempty"`

	// Address is the supplier's address
	Address *string `db:"address" json:"address,omitempty"`

	// PaymentTerms is the agreed payment schedule
	PaymentTerms PaymentTerms `db:"payment_terms" json:"paymentTerms"`

	// Comment is a free-form note
	Comment *string `db:"comment" json:"comment,omitempty"`
}

// NewSupplier creates a new Supplier with required fields.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{
		Catalog:      entity.NewCatalog(code, name),
		PaymentTerms: TermsNet30,
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidPaymentTerms(s.PaymentTerms) {
		return apperror.NewValidation("invalid payment terms").
			WithDetail("field", "paymentTerms").
			WithDetail("value", string(s.PaymentTerms))
	}

	if s.Email != nil && *s.Email != "" && !emailRE.MatchString(*s.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}

func isValidPaymentTerms(t PaymentTerms) bool {
	switch t {
	case TermsPrepaid, TermsNet15, TermsNet30, TermsNet60:
		return true
	}
	return false
}
