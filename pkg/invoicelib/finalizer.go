package invoicelib

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rezonia/invoice-finalizer/internal/finalizer"
	"github.com/rezonia/invoice-finalizer/internal/numbering"
	"github.com/rezonia/invoice-finalizer/internal/tlv"
	"github.com/rezonia/invoice-finalizer/internal/totals"
)

// Options configures a Finalizer
type Options struct {
	SellerName  string
	SellerTaxID string
	Prefix      string         // invoice number prefix (default: INV-)
	Location    *time.Location // time zone of generated numbers (default: local)
	Clock       clockwork.Clock
}

// DefaultOptions returns options with the default prefix and local time zone
func DefaultOptions() Options {
	cfg := finalizer.DefaultConfig()
	return Options{
		Prefix:   cfg.Prefix,
		Location: cfg.Location,
	}
}

// Finalizer finalizes draft invoices
type Finalizer struct {
	inner *finalizer.Finalizer
}

// NewFinalizer creates a Finalizer with the given options
func NewFinalizer(opts Options) *Finalizer {
	var fopts []finalizer.Option
	if opts.Clock != nil {
		fopts = append(fopts, finalizer.WithClock(opts.Clock))
	}

	return &Finalizer{
		inner: finalizer.New(finalizer.Config{
			SellerName:  opts.SellerName,
			SellerTaxID: opts.SellerTaxID,
			Prefix:      opts.Prefix,
			Location:    opts.Location,
		}, fopts...),
	}
}

// Finalize computes totals, number and QR payload for the draft
func (f *Finalizer) Finalize(draft Draft) (*Invoice, error) {
	return f.inner.Finalize(draft)
}

// ReadQR decodes the invoice's QR payload
func (f *Finalizer) ReadQR(inv *Invoice) (*QRFields, error) {
	return f.inner.ReadQR(inv)
}

// CalculateTotals computes net and VAT for the items
func CalculateTotals(items []LineItem) Totals {
	return totals.Calculate(items)
}

// InvoiceNumber formats a number for t, <prefix>YYYYMMDD-HHMMSS
func InvoiceNumber(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = numbering.DefaultPrefix
	}
	return numbering.Format(prefix, t)
}

// EncodeQR builds the Base64 QR payload
func EncodeQR(p QRPayload) (string, error) {
	return tlv.Encode(p)
}

// DecodeQR parses a Base64 QR payload
func DecodeQR(encoded string) (*QRFields, error) {
	return tlv.Decode(encoded)
}
