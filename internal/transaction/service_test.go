package transaction

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixfunds/finance-api/internal/apperror"
)

func coffee() Payload {
	return Payload{
		Description: "Coffee",
		Amount:      json.RawMessage(`4.50`),
		Category:    "Food",
		Type:        "expense",
	}
}

func TestService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	owner := uuid.New()

	tx, err := svc.Create(ctx, owner, coffee())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, owner, tx.OwnerID)
	assert.Equal(t, fixed, tx.Date)

	txs, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Coffee", txs[0].Description)
	assert.Equal(t, 4.5, txs[0].Amount)
	assert.Equal(t, "Food", txs[0].Category)
	assert.Equal(t, Expense, txs[0].Type)
}

func TestService_CreateKeepsSuppliedDate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	date := time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)

	p := coffee()
	p.Date = &date
	tx, err := svc.Create(context.Background(), uuid.New(), p)
	require.NoError(t, err)
	assert.Equal(t, date, tx.Date)
}

func TestService_CreateValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.Create(context.Background(), uuid.New(), Payload{Type: "expense"})
	assert.True(t, apperror.Is(err, apperror.Validation))
}

func TestService_UpdateAndDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	alice, bob := uuid.New(), uuid.New()

	tx, err := svc.Create(ctx, alice, coffee())
	require.NoError(t, err)

	edit := coffee()
	edit.Description = "Espresso"

	_, err = svc.Update(ctx, bob, tx.ID.String(), edit)
	assert.True(t, apperror.Is(err, apperror.NotFound))

	err = svc.Delete(ctx, bob, tx.ID.String())
	assert.True(t, apperror.Is(err, apperror.NotFound))

	updated, err := svc.Update(ctx, alice, tx.ID.String(), edit)
	require.NoError(t, err)
	assert.Equal(t, "Espresso", updated.Description)

	require.NoError(t, svc.Delete(ctx, alice, tx.ID.String()))

	txs, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestService_UpdateStoresDateInUTC(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	svc := NewService(repo)
	owner := uuid.New()

	tx, err := svc.Create(ctx, owner, coffee())
	require.NoError(t, err)

	local := time.Date(2025, 6, 1, 9, 0, 0, 0, time.FixedZone("UTC+1", 3600))
	edit := coffee()
	edit.Date = &local

	updated, err := svc.Update(ctx, owner, tx.ID.String(), edit)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, updated.Date.Location())
	assert.Equal(t, time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), updated.Date)

	stored, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, time.UTC, stored[0].Date.Location())
}

func TestService_MalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	_, err := svc.Update(ctx, uuid.New(), "not-a-uuid", coffee())
	assert.True(t, apperror.Is(err, apperror.NotFound))

	err = svc.Delete(ctx, uuid.New(), "not-a-uuid")
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

func TestService_Summarize(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	owner := uuid.New()

	payloads := []Payload{
		{Description: "Salary", Amount: json.RawMessage(`1000`), Category: "Work", Type: "income"},
		{Description: "Rent", Amount: json.RawMessage(`400`), Category: "Housing", Type: "expense"},
		{Description: "Lunch", Amount: json.RawMessage(`"15.5"`), Category: "Food", Type: "expense"},
		{Description: "Dinner", Amount: json.RawMessage(`24.5`), Category: "Food", Type: "expense"},
	}
	for _, p := range payloads {
		_, err := svc.Create(ctx, owner, p)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, uuid.New(), coffee())
	require.NoError(t, err)

	sum, err := svc.Summarize(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, sum.Income)
	assert.Equal(t, 440.0, sum.Expense)
	assert.Equal(t, 560.0, sum.Balance)
	assert.Equal(t, []CategoryTotal{
		{Category: "Food", Total: 40},
		{Category: "Housing", Total: 400},
	}, sum.Categories)
}

func TestService_SummarizeEmpty(t *testing.T) {
	sum, err := NewService(NewMemoryRepository()).Summarize(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, sum.Balance)
	assert.NotNil(t, sum.Categories)
	assert.Empty(t, sum.Categories)
}
