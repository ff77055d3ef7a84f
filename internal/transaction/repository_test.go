package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOwnerScoping runs the ownership rules every Repository must honour
func testOwnerScoping(t *testing.T, repo Repository, alice, bob uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	tx := &Transaction{
		ID:          uuid.New(),
		OwnerID:     alice,
		Description: "Coffee",
		Amount:      4.5,
		Category:    "Food",
		Type:        Expense,
		Date:        time.Date(2025, 2, 3, 8, 30, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, tx))

	bobs, err := repo.ListByOwner(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobs)

	fields := Fields{Description: "Stolen", Amount: 1, Category: "X", Type: Income}
	_, err = repo.Update(ctx, bob, tx.ID, fields)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, bob, tx.ID), ErrNotFound)

	_, err = repo.Update(ctx, alice, uuid.New(), fields)
	assert.ErrorIs(t, err, ErrNotFound)

	alices, err := repo.ListByOwner(ctx, alice)
	require.NoError(t, err)
	require.Len(t, alices, 1)
	assert.Equal(t, "Coffee", alices[0].Description)
	assert.Equal(t, 4.5, alices[0].Amount)
	assert.True(t, tx.Date.Equal(alices[0].Date))

	updated, err := repo.Update(ctx, alice, tx.ID, Fields{Description: "Tea", Amount: 3, Category: "Food", Type: Expense})
	require.NoError(t, err)
	assert.Equal(t, "Tea", updated.Description)
	assert.Equal(t, alice, updated.OwnerID)
	assert.True(t, tx.Date.Equal(updated.Date), "date is kept when not supplied")

	require.NoError(t, repo.Delete(ctx, alice, tx.ID))
	alices, err = repo.ListByOwner(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, alices)
}

func TestMemoryRepository_OwnerScoping(t *testing.T) {
	testOwnerScoping(t, NewMemoryRepository(), uuid.New(), uuid.New())
}
