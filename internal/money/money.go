// Package money holds the fixed-point arithmetic used for every monetary
// value in the system. All amounts carry two fractional digits and are
// rounded half-up, so totals are deterministic for a given set of lines no
// matter how the running sum is accumulated.
package money

import "github.com/shopspring/decimal"

const scale = 2

// Zero is the additive identity at monetary scale.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// Add returns a + b rounded to two decimal places.
func Add(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b).Round(scale)
}

// Mul returns unitPrice * quantity rounded to two decimal places.
func Mul(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(scale)
}

// FromString parses a decimal amount. Returns an error for malformed input.
func FromString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return d.Round(scale), nil
}

// IsPositive reports whether the amount is strictly greater than zero.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}

// IsNegative reports whether the amount is strictly less than zero.
func IsNegative(d decimal.Decimal) bool {
	return d.LessThan(decimal.Zero)
}
