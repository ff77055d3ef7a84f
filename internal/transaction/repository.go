package transaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound covers both missing transactions and ones owned by someone else.
var ErrNotFound = errors.New("transaction not found")

// Repository persists transactions. Every lookup by id is also filtered by
// owner; implementations must not reveal whether another user's id exists.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Transaction, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, f Fields) (*Transaction, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
