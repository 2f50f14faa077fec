// Package finalizer turns a draft invoice into a finalized one: totals,
// number, seller identity and QR payload, in a single pure step.
package finalizer

import (
	"errors"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rezonia/invoice-finalizer/internal/model"
	"github.com/rezonia/invoice-finalizer/internal/numbering"
	"github.com/rezonia/invoice-finalizer/internal/tlv"
	"github.com/rezonia/invoice-finalizer/internal/totals"
)

// Stages reported in model.FinalizeError
const (
	StageQR = "qr"
)

// Config holds the process-wide defaults applied to every draft
type Config struct {
	SellerName  string
	SellerTaxID string
	Prefix      string         // numbering prefix, numbering.DefaultPrefix when empty
	Location    *time.Location // numbering time zone, time.Local when nil
}

// DefaultConfig returns configuration with no seller identity
func DefaultConfig() Config {
	return Config{
		Prefix:   numbering.DefaultPrefix,
		Location: time.Local,
	}
}

// Draft is the unfinalized invoice input
type Draft struct {
	Items       []model.LineItem `json:"items"`
	Number      string           `json:"number,omitempty"`
	Prefix      string           `json:"prefix,omitempty"`
	SellerName  string           `json:"seller_name,omitempty"`
	SellerTaxID string           `json:"seller_tax_id,omitempty"`
	IssuedAt    *time.Time       `json:"issued_at,omitempty"`
}

// Finalizer is safe for concurrent use
type Finalizer struct {
	config    Config
	clock     clockwork.Clock
	generator *numbering.Generator
}

// Option configures a Finalizer
type Option func(*Finalizer)

// WithClock sets the time source for issue instants and generated numbers
func WithClock(c clockwork.Clock) Option {
	return func(f *Finalizer) {
		f.clock = c
	}
}

// New creates a Finalizer
func New(config Config, opts ...Option) *Finalizer {
	f := &Finalizer{
		config: config,
		clock:  clockwork.NewRealClock(),
	}

	for _, opt := range opts {
		opt(f)
	}

	f.generator = numbering.NewGenerator(
		numbering.WithClock(f.clock),
		numbering.WithLocation(config.Location),
		numbering.WithPrefix(config.Prefix),
	)

	return f
}

// Config returns the defaults in use
func (f *Finalizer) Config() Config {
	return f.config
}

// Finalize computes totals, resolves the number and seller identity and
// attaches the encoded QR payload. On error no invoice is returned.
func (f *Finalizer) Finalize(draft Draft) (*model.Invoice, error) {
	items := totals.Normalize(draft.Items)
	sums := totals.Calculate(items)

	// one clock reading feeds both the number and the issue instant
	now := f.clock.Now()
	number := f.generator.ResolveAt(draft.Number, draft.Prefix, now)

	seller := model.Party{
		Name:  firstNonBlank(draft.SellerName, f.config.SellerName),
		TaxID: firstNonBlank(draft.SellerTaxID, f.config.SellerTaxID),
	}

	issuedAt := now
	if draft.IssuedAt != nil && !draft.IssuedAt.IsZero() {
		issuedAt = *draft.IssuedAt
	}
	issuedAt = issuedAt.UTC().Truncate(time.Second)

	qr, err := tlv.Encode(tlv.Payload{
		SellerName: seller.Name,
		TaxID:      seller.TaxID,
		Timestamp:  FormatTimestamp(issuedAt),
		Total:      sums.Gross(),
		Tax:        sums.Tax,
	})
	if err != nil {
		var codecErr *tlv.CodecError
		msg := "failed to encode QR payload"
		if errors.As(err, &codecErr) && codecErr.Tag != 0 {
			msg = "failed to encode QR payload field " + codecErr.Tag.String()
		}
		return nil, model.NewFinalizeError(number, StageQR, msg, err)
	}

	return &model.Invoice{
		Number:   number,
		IssuedAt: issuedAt,
		Seller:   seller,
		Items:    items,
		Totals:   sums,
		QRCode:   qr,
	}, nil
}

// ReadQR decodes the invoice's stored payload
func (f *Finalizer) ReadQR(inv *model.Invoice) (*tlv.Fields, error) {
	if inv == nil {
		return tlv.NewFields(), nil
	}
	return tlv.Decode(inv.QRCode)
}

// FormatTimestamp renders t as an RFC 3339 UTC instant with second precision
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
