package model

import (
	"time"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/invoice-finalizer/internal/decimal"
)

// Invoice is the finalized invoice handed to persistence and rendering
type Invoice struct {
	// Header
	Number   string    `json:"number"`    // e.g. INV-20250115-143205
	IssuedAt time.Time `json:"issued_at"` // Issue instant, UTC

	// Parties
	Seller Party `json:"seller"`

	// Line Items (normalized)
	Items []LineItem `json:"items"`

	// Totals
	Totals Totals `json:"totals"`

	// Base64 TLV payload for the e-invoice QR code.
	// Derived from Seller, IssuedAt and Totals; recomputed on every finalize.
	QRCode string `json:"qr_code"`
}

// Party represents the seller identity encoded into the QR payload
type Party struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"` // TRN
}

// LineItem represents invoice line item
type LineItem struct {
	Name      string          `json:"name,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Normalized returns a copy with negative quantity and price clamped to zero
func (li LineItem) Normalized() LineItem {
	li.Quantity = money.ClampNonNegative(li.Quantity)
	li.UnitPrice = money.ClampNonNegative(li.UnitPrice)
	return li
}

// Amount is the unrounded Quantity * UnitPrice of the normalized item
func (li LineItem) Amount() decimal.Decimal {
	n := li.Normalized()
	return n.Quantity.Mul(n.UnitPrice)
}

// LineTotal is Amount rounded to 2 decimals, for display only.
// Invoice totals are summed from Amount and rounded once.
func (li LineItem) LineTotal() decimal.Decimal {
	return money.Round2(li.Amount())
}

// Totals holds the invoice net total and its VAT
type Totals struct {
	Net decimal.Decimal `json:"net"` // round2(sum of qty * price)
	Tax decimal.Decimal `json:"tax"` // round2(Net * 5%)
}

// Gross returns the tax-inclusive total
func (t Totals) Gross() decimal.Decimal {
	return t.Net.Add(t.Tax)
}
