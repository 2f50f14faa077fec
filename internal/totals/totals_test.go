package totals_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-finalizer/internal/model"
	"github.com/rezonia/invoice-finalizer/internal/totals"
)

func item(qty, price string) model.LineItem {
	return model.LineItem{
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		items       []model.LineItem
		expectedNet string
		expectedTax string
	}{
		{"single item", []model.LineItem{item("2", "10.00")}, "20.00", "1.00"},
		{"fractional quantity", []model.LineItem{item("1.5", "9.999")}, "15.00", "0.75"},
		{"nil items", nil, "0.00", "0.00"},
		{"empty items", []model.LineItem{}, "0.00", "0.00"},
		{"negative quantity clamped", []model.LineItem{item("-3", "10.00"), item("1", "4.00")}, "4.00", "0.20"},
		{"negative price clamped", []model.LineItem{item("3", "-10.00")}, "0.00", "0.00"},
		{
			// 3 * 0.333 = 0.999 per line; summed before rounding: 2.997 -> 3.00
			"round after sum",
			[]model.LineItem{item("3", "0.333"), item("3", "0.333"), item("3", "0.333")},
			"3.00", "0.15",
		},
		{"tax half rounds away from zero", []model.LineItem{item("1", "0.10")}, "0.10", "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := totals.Calculate(tt.items)

			assert.Equal(t, tt.expectedNet, result.Net.StringFixed(2), "net")
			assert.Equal(t, tt.expectedTax, result.Tax.StringFixed(2), "tax")
		})
	}
}

func TestCalculate_TaxFromRoundedNet(t *testing.T) {
	// sum 0.095 -> net 0.10 -> tax 0.01.
	// Taxing the unrounded sum would give round2(0.00475) = 0.00.
	result := totals.Calculate([]model.LineItem{item("1", "0.095")})

	assert.Equal(t, "0.10", result.Net.StringFixed(2))
	assert.Equal(t, "0.01", result.Tax.StringFixed(2))
}

func TestCalculate_Clamping(t *testing.T) {
	base := []model.LineItem{item("2", "10.00")}
	withNegatives := append([]model.LineItem{}, base...)
	withNegatives = append(withNegatives, item("-1", "50"), item("4", "-2.5"), item("-1", "-1"))

	assert.True(t, totals.Calculate(base).Net.Equal(totals.Calculate(withNegatives).Net))
}

func TestCalculate_Additivity(t *testing.T) {
	a := []model.LineItem{item("2", "10.00"), item("1", "3.25")}
	b := []model.LineItem{item("4", "1.10")}

	combined := totals.Calculate(append(append([]model.LineItem{}, a...), b...)).Net
	separate := totals.Calculate(a).Net.Add(totals.Calculate(b).Net)

	assert.True(t, combined.Equal(separate), "combined=%s separate=%s", combined, separate)
}

func TestCalculate_AdditivityWithinTolerance(t *testing.T) {
	// Sub-cent amounts are rounded per group, so the sums may differ by at most a cent per group.
	a := []model.LineItem{item("1", "0.004")}
	b := []model.LineItem{item("1", "0.004")}

	combined := totals.Calculate(append(append([]model.LineItem{}, a...), b...)).Net
	separate := totals.Calculate(a).Net.Add(totals.Calculate(b).Net)

	diff := combined.Sub(separate).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.02")), "diff=%s", diff)
}

func TestNormalize(t *testing.T) {
	items := []model.LineItem{item("-1", "5"), item("2", "-3"), item("1", "1")}

	normalized := totals.Normalize(items)
	require.Len(t, normalized, 3)

	assert.True(t, normalized[0].Quantity.IsZero())
	assert.True(t, normalized[0].UnitPrice.Equal(decimal.NewFromInt(5)))
	assert.True(t, normalized[1].UnitPrice.IsZero())
	assert.True(t, normalized[2].Quantity.Equal(decimal.NewFromInt(1)))

	// Input is not mutated
	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(-1)))
}

func TestNormalize_Nil(t *testing.T) {
	normalized := totals.Normalize(nil)
	assert.NotNil(t, normalized)
	assert.Empty(t, normalized)
}

func BenchmarkCalculate(b *testing.B) {
	items := make([]model.LineItem, 100)
	for i := range items {
		items[i] = item("1.5", "9.999")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		totals.Calculate(items)
	}
}
