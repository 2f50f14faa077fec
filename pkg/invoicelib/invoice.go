// Package invoicelib provides a public API for finalizing point-of-sale invoices.
//
// It exposes the invoice types, the finalizer that computes totals, numbers and
// the e-invoice QR payload, and the payload codec.
//
// Example usage:
//
//	fin := invoicelib.NewFinalizer(invoicelib.Options{
//	    SellerName:  "Acme LLC",
//	    SellerTaxID: "100123456700003",
//	})
//	inv, err := fin.Finalize(invoicelib.Draft{Items: items})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(inv.Number, inv.QRCode)
package invoicelib

import (
	"github.com/rezonia/invoice-finalizer/internal/finalizer"
	"github.com/rezonia/invoice-finalizer/internal/model"
	"github.com/rezonia/invoice-finalizer/internal/tlv"
)

// Re-export core types for public API
type (
	Invoice  = model.Invoice
	LineItem = model.LineItem
	Party    = model.Party
	Totals   = model.Totals
	Draft    = finalizer.Draft
)

// Re-export payload types
type (
	Tag       = tlv.Tag
	QRField   = tlv.Field
	QRPayload = tlv.Payload
	QRFields  = tlv.Fields
)

// Re-export payload tags
const (
	TagSellerName  = tlv.TagSellerName
	TagTaxID       = tlv.TagTaxID
	TagTimestamp   = tlv.TagTimestamp
	TagTotalAmount = tlv.TagTotalAmount
	TagTaxAmount   = tlv.TagTaxAmount
)

// Re-export error types
type (
	ValidationError = model.ValidationError
	FinalizeError   = model.FinalizeError
	CodecError      = tlv.CodecError
)

// Re-export error sentinels
var (
	ErrFieldTooLong   = tlv.ErrFieldTooLong
	ErrInvalidPayload = tlv.ErrInvalidPayload
)
