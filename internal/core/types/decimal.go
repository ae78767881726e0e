// Package types defines value types shared across the domain layer.
package types

import "github.com/shopspring/decimal"

// Money is a monetary amount with exact decimal arithmetic.
// All prices, discounts and totals use this type; never float64.
type Money = decimal.Decimal

// Zero is the zero monetary amount.
var Zero = decimal.Zero

// NewMoney creates Money from a float input (API boundary only).
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString parses a decimal string into Money.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MoneyFromInt creates Money from an integer amount.
func MoneyFromInt(n int64) Money {
	return decimal.NewFromInt(n)
}

// Percent applies pct (0..100) to amount: amount * pct / 100.
func Percent(amount Money, pct Money) Money {
	return amount.Mul(pct).Div(decimal.NewFromInt(100))
}

// ClampMin returns amount if it is >= floor, otherwise floor.
// Used to keep discounted totals from going negative.
func ClampMin(amount, floor Money) Money {
	if amount.LessThan(floor) {
		return floor
	}
	return amount
}

// MinMoney returns the smaller of a and b.
func MinMoney(a, b Money) Money {
	if a.LessThan(b) {
		return a
	}
	return b
}
