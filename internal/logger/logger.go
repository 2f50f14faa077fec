package logger

import (
	"context"
	"io"
	"log/slog"
)

type ctxKey int8

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyInvoiceNumber
)

// Handler decorates records with values carried in the context
type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		record.Add("request_id", v)
	}

	if v, ok := ctx.Value(ctxKeyInvoiceNumber).(string); ok {
		record.Add("invoice_number", v)
	}

	return h.Handler.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{h.Handler.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{h.Handler.WithGroup(name)}
}

// NewWithWriter creates a JSON logger writing to w
func NewWithWriter(w io.Writer, level string) (*slog.Logger, error) {
	var sLevel slog.Level

	err := sLevel.UnmarshalText([]byte(level))
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level: sLevel,
	}

	return slog.New(&Handler{slog.NewJSONHandler(w, opts)}), nil
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

func WithInvoiceNumber(ctx context.Context, number string) context.Context {
	return context.WithValue(ctx, ctxKeyInvoiceNumber, number)
}

func RequestIDFromCtx(ctx context.Context) string {
	requestID, ok := ctx.Value(ctxKeyRequestID).(string)
	if !ok {
		return ""
	}

	return requestID
}
