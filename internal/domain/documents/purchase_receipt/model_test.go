package purchase_receipt

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ironstock/internal/core/apperror"
	"ironstock/internal/core/id"
	"ironstock/internal/core/types"
)

func money(s string) types.Money {
	m, err := types.NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func TestItemRecalculate_PercentageDiscount(t *testing.T) {
	item := NewItem(id.New(), id.New(), 10, money("15.50"))
	item.ItemDiscountPercentage = money("10")

	item.Recalculate()

	assert.True(t, item.ItemDiscountAmount.Equal(money("15.50")),
		"discount = %s", item.ItemDiscountAmount)
	assert.True(t, item.LineTotal.Equal(money("139.50")),
		"line total = %s", item.LineTotal)
}

func TestItemRecalculate_PercentageTakesPrecedenceOverFixed(t *testing.T) {
	item := NewItem(id.New(), id.New(), 10, money("15.50"))
	item.ItemDiscountPercentage = money("10")
	// The fixed amount must be ignored while a positive percentage is set
	item.ItemDiscountAmount = money("999")

	item.Recalculate()

	assert.True(t, item.ItemDiscountAmount.Equal(money("15.50")))
	assert.True(t, item.LineTotal.Equal(money("139.50")))
}

func TestItemRecalculate_FixedDiscountClampedToBase(t *testing.T) {
	item := NewItem(id.New(), id.New(), 4, money("25"))
	item.ItemDiscountAmount = money("500")

	item.Recalculate()

	assert.True(t, item.ItemDiscountAmount.Equal(money("100")),
		"fixed discount must clamp to the line base")
	assert.True(t, item.LineTotal.Equal(money("0")),
		"line total never goes negative")
}

func TestItemRecalculate_FixedDiscountBelowBase(t *testing.T) {
	item := NewItem(id.New(), id.New(), 2, money("40"))
	item.ItemDiscountAmount = money("5.25")

	item.Recalculate()

	assert.True(t, item.LineTotal.Equal(money("74.75")))
}

func TestReceiptRecalculate_BillDiscountAmount(t *testing.T) {
	doc := New(id.New(), time.Now())
	for i := 0; i < 2; i++ {
		item := NewItem(doc.ID, id.New(), 10, money("15.50"))
		item.ItemDiscountPercentage = money("10")
		doc.Items = append(doc.Items, item)
	}
	doc.BillDiscountAmount = money("20")

	doc.Recalculate()

	// Two lines at 139.50 each, minus the 20.00 bill discount
	assert.True(t, doc.TotalAmount.Equal(money("259.00")),
		"total = %s", doc.TotalAmount)
}

func TestReceiptRecalculate_BillPercentageTakesPrecedence(t *testing.T) {
	doc := New(id.New(), time.Now())
	item := NewItem(doc.ID, id.New(), 10, money("10"))
	doc.Items = append(doc.Items, item)
	doc.BillDiscountPercentage = money("50")
	doc.BillDiscountAmount = money("999")

	doc.Recalculate()

	assert.True(t, doc.BillDiscountAmount.Equal(money("50")))
	assert.True(t, doc.TotalAmount.Equal(money("50")))
}

func TestReceiptRecalculate_TotalNeverNegative(t *testing.T) {
	doc := New(id.New(), time.Now())
	item := NewItem(doc.ID, id.New(), 1, money("10"))
	doc.Items = append(doc.Items, item)
	doc.BillDiscountAmount = money("10000")

	doc.Recalculate()

	assert.True(t, doc.TotalAmount.Equal(types.Zero))
}

func TestReceiptRecalculate_EmptyItems(t *testing.T) {
	doc := New(id.New(), time.Now())
	doc.Recalculate()
	assert.True(t, doc.TotalAmount.Equal(types.Zero))
}

func newValidReceipt() *PurchaseReceipt {
	doc := New(id.New(), time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC))
	doc.CreatedBy = "clerk"
	doc.Items = append(doc.Items, NewItem(doc.ID, id.New(), 5, money("12.50")))
	return doc
}

func TestReceiptValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, newValidReceipt().Validate(ctx))
	})

	t.Run("missing supplier", func(t *testing.T) {
		doc := newValidReceipt()
		doc.SupplierID = id.Nil()
		err := doc.Validate(ctx)
		requireValidation(t, err, "supplierId")
	})

	t.Run("missing creator", func(t *testing.T) {
		doc := newValidReceipt()
		doc.CreatedBy = ""
		err := doc.Validate(ctx)
		requireValidation(t, err, "createdBy")
	})

	t.Run("missing purchase date", func(t *testing.T) {
		doc := newValidReceipt()
		doc.PurchaseDate = time.Time{}
		err := doc.Validate(ctx)
		requireValidation(t, err, "purchaseDate")
	})

	t.Run("number too long", func(t *testing.T) {
		doc := newValidReceipt()
		doc.Number = strings.Repeat("X", maxNumberLen+1)
		err := doc.Validate(ctx)
		requireValidation(t, err, "number")
	})

	t.Run("bill ref too long", func(t *testing.T) {
		doc := newValidReceipt()
		doc.SupplierBillRef = strings.Repeat("X", maxBillRefLen+1)
		err := doc.Validate(ctx)
		requireValidation(t, err, "supplierBillRef")
	})

	t.Run("notes too long", func(t *testing.T) {
		doc := newValidReceipt()
		doc.Notes = strings.Repeat("X", maxNotesLen+1)
		err := doc.Validate(ctx)
		requireValidation(t, err, "notes")
	})

	t.Run("negative bill discount", func(t *testing.T) {
		doc := newValidReceipt()
		doc.BillDiscountAmount = money("-1")
		err := doc.Validate(ctx)
		requireValidation(t, err, "billDiscountAmount")
	})

	t.Run("bill percentage over 100", func(t *testing.T) {
		doc := newValidReceipt()
		doc.BillDiscountPercentage = money("100.01")
		err := doc.Validate(ctx)
		requireValidation(t, err, "billDiscountPercentage")
	})

	t.Run("item error carries index", func(t *testing.T) {
		doc := newValidReceipt()
		doc.Items = append(doc.Items, NewItem(doc.ID, id.New(), 0, money("1")))
		err := doc.Validate(ctx)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		assert.Equal(t, 1, appErr.Details["itemIndex"])
	})
}

func TestItemValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("zero quantity", func(t *testing.T) {
		item := NewItem(id.New(), id.New(), 0, money("1"))
		requireValidation(t, item.Validate(ctx), "quantity")
	})

	t.Run("negative quantity", func(t *testing.T) {
		item := NewItem(id.New(), id.New(), -3, money("1"))
		requireValidation(t, item.Validate(ctx), "quantity")
	})

	t.Run("missing product", func(t *testing.T) {
		item := NewItem(id.New(), id.Nil(), 1, money("1"))
		requireValidation(t, item.Validate(ctx), "productId")
	})

	t.Run("negative unit cost", func(t *testing.T) {
		item := NewItem(id.New(), id.New(), 1, money("-0.01"))
		requireValidation(t, item.Validate(ctx), "unitCost")
	})

	t.Run("percentage out of range", func(t *testing.T) {
		item := NewItem(id.New(), id.New(), 1, money("1"))
		item.ItemDiscountPercentage = money("101")
		requireValidation(t, item.Validate(ctx), "itemDiscountPercentage")
	})
}

func TestCanModify(t *testing.T) {
	doc := newValidReceipt()

	for _, status := range []Status{StatusPending, StatusReceived} {
		doc.Status = status
		assert.NoError(t, doc.CanModify(), "status %s", status)
	}

	for _, status := range []Status{StatusCompleted, StatusCancelled} {
		doc.Status = status
		err := doc.CanModify()
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok, "status %s", status)
		assert.Equal(t, apperror.CodeReceiptCompleted, appErr.Code)
		assert.Equal(t, string(status), appErr.Details["status"])
	}
}

func TestFindItem(t *testing.T) {
	doc := newValidReceipt()
	second := NewItem(doc.ID, id.New(), 1, money("2"))
	doc.Items = append(doc.Items, second)

	assert.Equal(t, 1, doc.FindItem(second.ID))
	assert.Equal(t, -1, doc.FindItem(id.New()))
}

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, apperror.CodeValidation, appErr.Code)
	require.Equal(t, field, appErr.Details["field"])
}
