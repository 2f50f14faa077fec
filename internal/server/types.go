package server

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-finalizer/internal/model"
	"github.com/rezonia/invoice-finalizer/internal/tlv"
)

// InvoiceResponse is the response for finalize and lookup endpoints
type InvoiceResponse struct {
	Invoice  *model.Invoice `json:"invoice"`
	Gross    string         `json:"gross_total"`
	QRFields []QRField      `json:"qr_fields,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// InvoiceListResponse is the response for the list endpoint
type InvoiceListResponse struct {
	Invoices []model.Invoice `json:"invoices"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

// QRField is a decoded payload record
type QRField struct {
	Tag   int    `json:"tag"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EncodeRequest carries the five payload values
type EncodeRequest struct {
	SellerName string          `json:"seller_name"`
	TaxID      string          `json:"tax_id"`
	Timestamp  string          `json:"timestamp"`
	Total      decimal.Decimal `json:"total"`
	Tax        decimal.Decimal `json:"tax"`
}

// DecodeRequest carries a base64 payload
type DecodeRequest struct {
	QRCode string `json:"qr_code"`
}

// QRResponse is the response for encode and decode endpoints
type QRResponse struct {
	QRCode string    `json:"qr_code"`
	Fields []QRField `json:"fields"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error     string   `json:"error"`
	Code      string   `json:"code,omitempty"`
	Details   string   `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

func toQRFields(fields *tlv.Fields) []QRField {
	if fields == nil {
		return nil
	}
	out := make([]QRField, 0, fields.Len())
	for _, tag := range fields.Tags() {
		out = append(out, QRField{
			Tag:   int(tag),
			Name:  tag.String(),
			Value: fields.Value(tag),
		})
	}
	return out
}
