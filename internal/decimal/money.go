package decimal

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// TaxRate is the fixed VAT rate applied to the net total (5%)
var TaxRate = MustFromString("0.05")

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Round2 rounds half away from zero to 2 decimal places.
// shopspring's Round already breaks ties away from zero, so 0.125 -> 0.13
// and -0.125 -> -0.13.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ClampNonNegative replaces negative values with zero
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if IsNonNegative(d) {
		return d
	}
	return Zero
}

// CalculateTax computes round2(amount * rate); a rate that is not positive yields zero
func CalculateTax(amount, rate decimal.Decimal) decimal.Decimal {
	if !IsPositive(rate) {
		return Zero
	}
	return Round2(amount.Mul(rate))
}

// FormatAmount renders an amount with exactly 2 decimals and a '.' separator.
// Output never depends on the host locale.
func FormatAmount(d decimal.Decimal) string {
	return Round2(d).StringFixed(2)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}
