// Package tlv encodes and decodes the e-invoice QR payload.
//
// Wire format:
//
//	record  := tag(1 byte) length(1 byte) value(length bytes, UTF-8)
//	payload := record(1) record(2) record(3) record(4) record(5)
//	wire    := base64(payload)  // standard alphabet, '=' padding
package tlv

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/invoice-finalizer/internal/decimal"
)

// Tag identifies a payload field
type Tag byte

// Payload tags, emitted in this order
const (
	TagSellerName  Tag = 1
	TagTaxID       Tag = 2
	TagTimestamp   Tag = 3
	TagTotalAmount Tag = 4 // including tax
	TagTaxAmount   Tag = 5
)

// MaxValueLength is the largest value a single length byte can describe
const MaxValueLength = 255

// String returns the field name for the tag
func (t Tag) String() string {
	switch t {
	case TagSellerName:
		return "seller_name"
	case TagTaxID:
		return "tax_id"
	case TagTimestamp:
		return "timestamp"
	case TagTotalAmount:
		return "total_amount"
	case TagTaxAmount:
		return "tax_amount"
	default:
		return "unknown"
	}
}

// Field is a single tag-length-value record
type Field struct {
	Tag   Tag
	Value string
}

// Payload holds the five values encoded into the QR code
type Payload struct {
	SellerName string
	TaxID      string
	Timestamp  string // ISO-8601 instant
	Total      decimal.Decimal
	Tax        decimal.Decimal
}

// Fields returns the records in tag order, amounts formatted as 0.00
func (p Payload) Fields() []Field {
	return []Field{
		{Tag: TagSellerName, Value: p.SellerName},
		{Tag: TagTaxID, Value: p.TaxID},
		{Tag: TagTimestamp, Value: p.Timestamp},
		{Tag: TagTotalAmount, Value: money.FormatAmount(p.Total)},
		{Tag: TagTaxAmount, Value: money.FormatAmount(p.Tax)},
	}
}

// Encode serializes the payload and returns its base64 form.
// Fails with ErrFieldTooLong when any value exceeds MaxValueLength bytes.
func Encode(p Payload) (string, error) {
	raw, err := Marshal(p.Fields())
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Marshal writes the records as given, without reordering
func Marshal(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	for _, f := range fields {
		if f.Tag == 0 {
			return nil, NewInvalidTagError(f.Tag)
		}
		value := []byte(f.Value)
		if len(value) > MaxValueLength {
			return nil, NewFieldTooLongError(f.Tag, len(value))
		}
		buf.WriteByte(byte(f.Tag))
		buf.WriteByte(byte(len(value)))
		buf.Write(value)
	}
	return buf.Bytes(), nil
}

// Decode parses a base64 payload. Blank input yields an empty mapping.
// Malformed trailing bytes end the walk silently; only invalid base64 is an error.
// The standard alphabet with '=' padding is required: unpadded or URL-safe input
// is rejected with ErrInvalidPayload.
func Decode(encoded string) (*Fields, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return NewFields(), nil
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, NewInvalidBase64Error(err)
	}
	return Unmarshal(raw), nil
}

// Unmarshal walks raw records until the buffer is exhausted or a record is truncated
func Unmarshal(raw []byte) *Fields {
	fields := NewFields()

	pos := 0
	for len(raw)-pos >= 2 {
		tag := Tag(raw[pos])
		length := int(raw[pos+1])
		pos += 2

		if length > len(raw)-pos {
			break
		}

		fields.Set(tag, string(raw[pos:pos+length]))
		pos += length
	}

	return fields
}
