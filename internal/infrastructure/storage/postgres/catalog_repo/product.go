package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ironstock/internal/core/apperror"
	"ironstock/internal/domain/catalogs/product"
	"ironstock/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

var productColumns = []string{
	"id",
	"code",
	"name",
	"sku",
	"barcode",
	"category",
	"unit",
	"purchase_price",
	"sell_price",
	"reorder_level",
	"description",
	"deletion_mark",
	"version",
}

// ProductRepo is the PostgreSQL repository for products.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			productTable,
			productColumns,
			func() *product.Product { return &product.Product{} },
		),
	}
}

// FindBySKU retrieves a product by SKU.
func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	return r.findByField(ctx, "sku", sku)
}

// FindByBarcode retrieves a product by barcode.
func (r *ProductRepo) FindByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	return r.findByField(ctx, "barcode", barcode)
}

func (r *ProductRepo) findByField(ctx context.Context, field, value string) (*product.Product, error) {
	p := &product.Product{}
	q := r.baseSelect().
		Where(squirrel.Eq{field: value}).
		Where(squirrel.Eq{"deletion_mark": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(productTable, value)
		}
		return nil, fmt.Errorf("find product by %s: %w", field, err)
	}

	return p, nil
}
