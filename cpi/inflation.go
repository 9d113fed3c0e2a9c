package cpi

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Money labelled with the currency era it is expressed in
// =============================================================================

// Amount is a monetary value and the era whose currency it is counted in.
type Amount struct {
	Value decimal.Decimal
	Unit  Era
}

func NewAmount(value decimal.Decimal, unit Era) Amount {
	return Amount{Value: value, Unit: unit.Currency()}
}

func (a Amount) IsZero() bool     { return a.Value.IsZero() }
func (a Amount) IsNegative() bool { return a.Value.IsNegative() }
func (a Amount) String() string   { return a.Value.StringFixed(Precision) + " " + a.Unit.String() }

// =============================================================================
// INFLATION ENGINE
// =============================================================================

// Precision is the number of decimal places results are rounded to.
const Precision = 2

var hundred = decimal.NewFromInt(100)

// PercentChange returns (end/start)*100 - 100 rounded to two places.
func PercentChange(startIndex, endIndex decimal.Decimal) (decimal.Decimal, error) {
	if startIndex.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	return endIndex.Div(startIndex).Mul(hundred).Sub(hundred).Round(Precision), nil
}

// Ratio returns end/start, unrounded.
func Ratio(startIndex, endIndex decimal.Decimal) (decimal.Decimal, error) {
	if startIndex.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	return endIndex.Div(startIndex), nil
}

// ConvertAmount returns amount * end/start rounded to two places, labelled
// with the end currency of tr. The index values already chain across
// redenominations, so no per-era multiplier is applied: tr only selects
// the unit.
func ConvertAmount(amount, startIndex, endIndex decimal.Decimal, tr Transition) (Amount, error) {
	if startIndex.IsZero() {
		return Amount{}, ErrDivisionByZero
	}
	_, to := tr.Units()
	value := amount.Mul(endIndex).Div(startIndex).Round(Precision)
	return Amount{Value: value, Unit: to}, nil
}
