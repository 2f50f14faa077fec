package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-finalizer/internal/decimal"
)

func TestFromString(t *testing.T) {
	d, err := decimal.FromString("123456.78")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("123456.78")))

	_, err = decimal.FromString("not-a-number")
	require.Error(t, err)
}

func TestMustFromString(t *testing.T) {
	d := decimal.MustFromString("999.99")
	assert.True(t, d.Equal(dec.RequireFromString("999.99")))

	assert.Panics(t, func() {
		decimal.MustFromString("invalid")
	})
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"14.9985", "15.00"},
		{"0.125", "0.13"},
		{"0.124", "0.12"},
		{"-0.125", "-0.13"},
		{"2.675", "2.68"},
		{"1.005", "1.01"},
		{"20", "20.00"},
		{"0", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			result := decimal.Round2(dec.RequireFromString(tt.in))
			assert.Equal(t, tt.expected, result.StringFixed(2))
		})
	}
}

func TestRound2_Idempotent(t *testing.T) {
	values := []string{"0.005", "14.9985", "-3.14159", "123456.789", "0.1", "99.995"}

	for _, v := range values {
		once := decimal.Round2(dec.RequireFromString(v))
		twice := decimal.Round2(once)
		assert.True(t, once.Equal(twice), "round2 not idempotent for %s", v)
	}
}

func TestClampNonNegative(t *testing.T) {
	assert.True(t, decimal.ClampNonNegative(dec.NewFromInt(-5)).IsZero())
	assert.True(t, decimal.ClampNonNegative(dec.Zero).IsZero())
	assert.True(t, decimal.ClampNonNegative(dec.RequireFromString("1.5")).Equal(dec.RequireFromString("1.5")))
}

func TestCalculateTax(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"5% of 20.00", "20.00", "1.00"},
		{"5% of 15.00", "15.00", "0.75"},
		{"5% of 0.10 rounds up", "0.10", "0.01"},
		{"5% of 0.09 rounds down", "0.09", "0.00"},
		{"5% of 100.30", "100.30", "5.02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := decimal.CalculateTax(dec.RequireFromString(tt.amount), decimal.TaxRate)
			assert.Equal(t, tt.expected, result.StringFixed(2),
				"amount=%s: got %s, want %s", tt.amount, result.String(), tt.expected)
		})
	}

	assert.True(t, decimal.CalculateTax(dec.NewFromInt(100), dec.Zero).IsZero())
	assert.True(t, decimal.CalculateTax(dec.NewFromInt(100), dec.RequireFromString("-0.05")).IsZero())
}

func TestTaxRate(t *testing.T) {
	assert.Equal(t, "0.05", decimal.TaxRate.String())
	assert.True(t, decimal.IsPositive(decimal.TaxRate))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "21.00", decimal.FormatAmount(dec.NewFromInt(21)))
	assert.Equal(t, "1.00", decimal.FormatAmount(dec.RequireFromString("1")))
	assert.Equal(t, "0.00", decimal.FormatAmount(dec.Zero))
	assert.Equal(t, "1234567.89", decimal.FormatAmount(dec.RequireFromString("1234567.891")))
	assert.Equal(t, "0.75", decimal.FormatAmount(dec.RequireFromString("0.75")))
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		dec.NewFromInt(100),
		dec.NewFromInt(200),
		dec.NewFromInt(300),
	}
	result := decimal.Sum(values)
	assert.True(t, result.Equal(dec.NewFromInt(600)))
}

func TestSum_Empty(t *testing.T) {
	result := decimal.Sum([]dec.Decimal{})
	assert.True(t, result.IsZero())
}

func TestIsPositive(t *testing.T) {
	assert.True(t, decimal.IsPositive(dec.NewFromInt(1)))
	assert.False(t, decimal.IsPositive(dec.Zero))
	assert.False(t, decimal.IsPositive(dec.NewFromInt(-1)))
}

func TestIsNonNegative(t *testing.T) {
	assert.True(t, decimal.IsNonNegative(dec.NewFromInt(1)))
	assert.True(t, decimal.IsNonNegative(dec.Zero))
	assert.False(t, decimal.IsNonNegative(dec.NewFromInt(-1)))
}
