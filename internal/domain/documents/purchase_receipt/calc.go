package purchase_receipt

import (
	"ironstock/internal/core/types"
)

// Discount computes the effective discount for a base amount.
// A positive percentage takes precedence and the fixed amount is ignored;
// otherwise the fixed amount applies, clamped so it never exceeds the base.
// The same rule runs at item level and at bill level.
func Discount(base, percentage, fixed types.Money) types.Money {
	if percentage.IsPositive() {
		return types.Percent(base, percentage)
	}
	return types.MinMoney(fixed, base)
}

// LineBase returns the undiscounted amount for a line.
func LineBase(quantity int, unitCost types.Money) types.Money {
	return unitCost.Mul(types.MoneyFromInt(int64(quantity)))
}
