// Package totals turns invoice line items into net and VAT totals.
//
// Amounts are multiplied from the clamped raw quantity and unit price, summed,
// and rounded once (round-after-sum). Unit prices are never pre-rounded.
package totals

import (
	"github.com/shopspring/decimal"

	money "github.com/rezonia/invoice-finalizer/internal/decimal"
	"github.com/rezonia/invoice-finalizer/internal/model"
)

// Normalize returns a new slice with negative quantities and prices clamped to zero.
// A nil input yields an empty slice.
func Normalize(items []model.LineItem) []model.LineItem {
	out := make([]model.LineItem, len(items))
	for i, item := range items {
		out[i] = item.Normalized()
	}
	return out
}

// Net computes round2(sum of qty * price) over normalized items
func Net(items []model.LineItem) decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		amounts = append(amounts, item.Amount())
	}
	return money.Round2(money.Sum(amounts))
}

// Calculate computes invoice totals. It never fails.
func Calculate(items []model.LineItem) model.Totals {
	net := Net(items)
	return model.Totals{
		Net: net,
		Tax: money.CalculateTax(net, money.TaxRate),
	}
}
