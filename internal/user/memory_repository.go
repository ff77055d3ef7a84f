package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryRepository keeps users in process memory. Email uniqueness is decided
// by a single LoadOrStore, so concurrent signups for one address cannot both win.
type MemoryRepository struct {
	byEmail *xsync.MapOf[string, *User]
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byEmail: xsync.NewMapOf[string, *User](),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if _, loaded := r.byEmail.LoadOrStore(email, u); loaded {
		return nil, ErrDuplicateEmail
	}

	out := *u
	return &out, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail.Load(email)
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}
