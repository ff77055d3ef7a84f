package transaction

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps transactions in insertion order in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []Transaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, tx *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, *tx)
	return nil
}

func (r *MemoryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Transaction, 0)
	for _, tx := range r.items {
		if tx.OwnerID == ownerID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, ownerID, id uuid.UUID, f Fields) (*Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(ownerID, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	tx := &r.items[i]
	tx.Description = f.Description
	tx.Amount = f.Amount
	tx.Category = f.Category
	tx.Type = f.Type
	if f.Date != nil {
		tx.Date = *f.Date
	}

	out := *tx
	return &out, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(ownerID, id)
	if i < 0 {
		return ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

// indexOf must be called with mu held
func (r *MemoryRepository) indexOf(ownerID, id uuid.UUID) int {
	for i, tx := range r.items {
		if tx.ID == id && tx.OwnerID == ownerID {
			return i
		}
	}
	return -1
}
