package catalog_repo

import (
	"ironstock/internal/domain/catalogs/supplier"
	"ironstock/internal/infrastructure/storage/postgres"
)

const supplierTable = "cat_suppliers"

var supplierColumns = []string{
	"id",
	"code",
	"name",
	"tax_id",
	"contact_person",
	"phone",
	"email",
	"address",
	"payment_terms",
	"comment",
	"deletion_mark",
	"version",
}

// SupplierRepo is the PostgreSQL repository for suppliers.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// NewSupplierRepo creates a supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			supplierTable,
			supplierColumns,
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
	}
}
