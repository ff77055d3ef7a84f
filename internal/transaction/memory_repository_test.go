package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTx(owner uuid.UUID, desc string) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		OwnerID:     owner,
		Description: desc,
		Amount:      10,
		Category:    "Misc",
		Type:        Expense,
		Date:        time.Now().UTC(),
	}
}

func TestMemoryRepository_ListByOwnerKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, repo.Create(ctx, newTx(alice, "first")))
	require.NoError(t, repo.Create(ctx, newTx(bob, "bob's")))
	require.NoError(t, repo.Create(ctx, newTx(alice, "second")))

	txs, err := repo.ListByOwner(ctx, alice)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "first", txs[0].Description)
	assert.Equal(t, "second", txs[1].Description)

	empty, err := repo.ListByOwner(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryRepository_UpdateScopedByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	alice, bob := uuid.New(), uuid.New()

	tx := newTx(alice, "Coffee")
	require.NoError(t, repo.Create(ctx, tx))

	fields := Fields{Description: "Tea", Amount: 3, Category: "Food", Type: Expense}

	_, err := repo.Update(ctx, bob, tx.ID, fields)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := repo.Update(ctx, alice, tx.ID, fields)
	require.NoError(t, err)
	assert.Equal(t, "Tea", updated.Description)
	assert.Equal(t, tx.Date, updated.Date)
	assert.Equal(t, alice, updated.OwnerID)

	newDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	fields.Date = &newDate
	updated, err = repo.Update(ctx, alice, tx.ID, fields)
	require.NoError(t, err)
	assert.Equal(t, newDate, updated.Date)
}

func TestMemoryRepository_DeleteScopedByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	alice, bob := uuid.New(), uuid.New()

	tx := newTx(alice, "Coffee")
	require.NoError(t, repo.Create(ctx, tx))

	assert.ErrorIs(t, repo.Delete(ctx, bob, tx.ID), ErrNotFound)
	require.NoError(t, repo.Delete(ctx, alice, tx.ID))
	assert.ErrorIs(t, repo.Delete(ctx, alice, tx.ID), ErrNotFound)

	txs, err := repo.ListByOwner(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, txs)
}
