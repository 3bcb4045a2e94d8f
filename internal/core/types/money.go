// Package types provides common value types for money and stock quantities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundMoney rounds to 2 decimal places. Applied at the point a journal
// line or movement total is persisted; intermediate rates keep full
// precision so repeated multiplications do not compound rounding error.
func RoundMoney(m Money) Money {
	return m.Round(2)
}

// MinMoney returns the smaller of two Money values.
func MinMoney(a, b Money) Money {
	if a.LessThan(b) {
		return a
	}
	return b
}

// BalanceTolerance is the maximum permitted debit/credit mismatch for a
// journal entry. Amounts are rounded to 2 decimal places, so a spread of
// one cent can appear when legs are rounded independently.
var BalanceTolerance = MustMoney("0.01")
