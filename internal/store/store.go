// Package store persists finalized invoices.
package store

import (
	"context"
	"errors"

	"github.com/rezonia/invoice-finalizer/internal/model"
)

var (
	ErrNotFound = errors.New("invoice not found")
	// ErrDuplicateNumber is returned when an invoice with the same number exists.
	// Generated numbers have second granularity, so two drafts finalized in the
	// same second without an explicit number end up here.
	ErrDuplicateNumber = errors.New("invoice number already exists")
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Repository defines the interface for invoice persistence
type Repository interface {
	Save(ctx context.Context, inv *model.Invoice) error
	GetByNumber(ctx context.Context, number string) (*model.Invoice, error)
	List(ctx context.Context, params ListParams) ([]model.Invoice, error)
}

// ListParams contains pagination for List, oldest first
type ListParams struct {
	Limit  int
	Offset int
}

// Normalize applies the default and maximum limit
func (p ListParams) Normalize() ListParams {
	if p.Limit <= 0 {
		p.Limit = DefaultListLimit
	}
	if p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
