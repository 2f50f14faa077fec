package tlv

import "fmt"

// Error codes for payload encoding and decoding
const (
	ErrCodeFieldTooLong  = "FIELD_TOO_LONG"
	ErrCodeInvalidTag    = "INVALID_TAG"
	ErrCodeInvalidBase64 = "INVALID_BASE64"
)

// Sentinels for errors.Is; matching is by Code only
var (
	ErrFieldTooLong   = &CodecError{Code: ErrCodeFieldTooLong}
	ErrInvalidTag     = &CodecError{Code: ErrCodeInvalidTag}
	ErrInvalidPayload = &CodecError{Code: ErrCodeInvalidBase64}
)

// CodecError represents payload encoding/decoding errors
type CodecError struct {
	Code    string
	Tag     Tag
	Message string
	Cause   error
}

func (e *CodecError) Error() string {
	if e.Tag != 0 && e.Cause != nil {
		return fmt.Sprintf("[%s] tag %d: %s (%v)", e.Code, e.Tag, e.Message, e.Cause)
	}
	if e.Tag != 0 {
		return fmt.Sprintf("[%s] tag %d: %s", e.Code, e.Tag, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *CodecError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a CodecError with the same code
func (e *CodecError) Is(target error) bool {
	t, ok := target.(*CodecError)
	return ok && t.Code == e.Code
}

// NewFieldTooLongError returns error when a value exceeds MaxValueLength bytes
func NewFieldTooLongError(tag Tag, length int) *CodecError {
	return &CodecError{
		Code:    ErrCodeFieldTooLong,
		Tag:     tag,
		Message: fmt.Sprintf("value is %d bytes, limit is %d", length, MaxValueLength),
	}
}

// NewInvalidTagError returns error for tag 0
func NewInvalidTagError(tag Tag) *CodecError {
	return &CodecError{
		Code:    ErrCodeInvalidTag,
		Tag:     tag,
		Message: "tag must be between 1 and 255",
	}
}

// NewInvalidBase64Error returns error when the transport encoding cannot be parsed
func NewInvalidBase64Error(cause error) *CodecError {
	return &CodecError{
		Code:    ErrCodeInvalidBase64,
		Message: "payload is not valid base64",
		Cause:   cause,
	}
}
