package store

import (
	"context"
	"sync"

	"github.com/rezonia/invoice-finalizer/internal/model"
)

// MemoryRepository keeps invoices in process memory
type MemoryRepository struct {
	mu       sync.RWMutex
	byNumber map[string]model.Invoice
	order    []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byNumber: make(map[string]model.Invoice),
	}
}

func (r *MemoryRepository) Save(_ context.Context, inv *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byNumber[inv.Number]; ok {
		return ErrDuplicateNumber
	}

	r.byNumber[inv.Number] = clone(inv)
	r.order = append(r.order, inv.Number)
	return nil
}

func (r *MemoryRepository) GetByNumber(_ context.Context, number string) (*model.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.byNumber[number]
	if !ok {
		return nil, ErrNotFound
	}

	out := clone(&inv)
	return &out, nil
}

func (r *MemoryRepository) List(_ context.Context, params ListParams) ([]model.Invoice, error) {
	params = params.Normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Invoice, 0, params.Limit)
	for i := params.Offset; i < len(r.order) && len(out) < params.Limit; i++ {
		inv := r.byNumber[r.order[i]]
		out = append(out, clone(&inv))
	}
	return out, nil
}

func clone(inv *model.Invoice) model.Invoice {
	c := *inv
	c.Items = make([]model.LineItem, len(inv.Items))
	copy(c.Items, inv.Items)
	return c
}
