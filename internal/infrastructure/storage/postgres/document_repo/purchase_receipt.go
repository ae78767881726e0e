package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ironstock/internal/core/id"
	"ironstock/internal/domain"
	"ironstock/internal/domain/documents/purchase_receipt"
	"ironstock/internal/infrastructure/storage/postgres"
)

const (
	receiptTable      = "doc_purchase_receipts"
	receiptItemsTable = "doc_purchase_receipt_items"
)

var receiptColumns = []string{
	"id",
	"number",
	"date",
	"comment",
	"supplier_id",
	"status",
	"purchase_date",
	"supplier_bill_ref",
	"notes",
	"bill_discount_amount",
	"bill_discount_percentage",
	"total_amount",
	"created_at",
	"updated_at",
	"created_by",
	"updated_by",
	"deletion_mark",
	"version",
}

var receiptItemColumns = []string{
	"id",
	"receipt_id",
	"product_id",
	"quantity",
	"unit_cost",
	"item_discount_amount",
	"item_discount_percentage",
	"line_total",
}

// PurchaseReceiptRepo is the PostgreSQL repository for purchase receipts.
type PurchaseReceiptRepo struct {
	*BaseDocumentRepo[*purchase_receipt.PurchaseReceipt]
}

var _ purchase_receipt.Repository = (*PurchaseReceiptRepo)(nil)

// NewPurchaseReceiptRepo creates a purchase receipt repository.
func NewPurchaseReceiptRepo(txManager *postgres.TxManager) *PurchaseReceiptRepo {
	return &PurchaseReceiptRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			receiptTable,
			receiptColumns,
			func() *purchase_receipt.PurchaseReceipt { return &purchase_receipt.PurchaseReceipt{} },
		),
	}
}

// GetItems retrieves all items of a receipt, ordered by insertion.
func (r *PurchaseReceiptRepo) GetItems(ctx context.Context, receiptID id.ID) ([]purchase_receipt.Item, error) {
	q := r.Builder().
		Select(receiptItemColumns...).
		From(receiptItemsTable).
		Where(squirrel.Eq{"receipt_id": receiptID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []purchase_receipt.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

// SaveItems replaces all items of a receipt.
func (r *PurchaseReceiptRepo) SaveItems(ctx context.Context, receiptID id.ID, items []purchase_receipt.Item) error {
	querier := r.querier(ctx)

	delQ := r.Builder().
		Delete(receiptItemsTable).
		Where(squirrel.Eq{"receipt_id": receiptID})

	sql, args, err := delQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	insQ := r.Builder().
		Insert(receiptItemsTable).
		Columns(receiptItemColumns...)

	for _, item := range items {
		insQ = insQ.Values(
			item.ID,
			receiptID,
			item.ProductID,
			item.Quantity,
			item.UnitCost,
			item.ItemDiscountAmount,
			item.ItemDiscountPercentage,
			item.LineTotal,
		)
	}

	sql, args, err = insQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	return nil
}

// List retrieves receipts with receipt-specific filters.
func (r *PurchaseReceiptRepo) List(ctx context.Context, filter purchase_receipt.ListFilter) (domain.ListResult[*purchase_receipt.PurchaseReceipt], error) {
	result := domain.ListResult[*purchase_receipt.PurchaseReceipt]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"purchase_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"purchase_date": *filter.DateTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"supplier_bill_ref": pattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	return result, nil
}
