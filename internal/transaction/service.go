package transaction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nixfunds/finance-api/internal/apperror"
)

const msgNotFound = "Transaction not found"

// Service applies validation and ownership rules on top of a Repository.
// ownerID always comes from the authenticated caller, never from the payload.
type Service struct {
	repo      Repository
	validator *Validator
	now       func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:      repo,
		validator: NewValidator(),
		now:       time.Now,
	}
}

// Create validates the payload and stores a new transaction owned by ownerID
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, p Payload) (*Transaction, error) {
	f, err := s.validator.Fields(p)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Description: f.Description,
		Amount:      f.Amount,
		Category:    f.Category,
		Type:        f.Type,
		Date:        s.now().UTC().Truncate(time.Millisecond),
	}
	if f.Date != nil {
		tx.Date = f.Date.UTC()
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}

// List returns the caller's transactions in store order
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]Transaction, error) {
	txs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txs == nil {
		txs = []Transaction{}
	}
	return txs, nil
}

// Update replaces description, amount, category and type of a transaction the
// caller owns. A malformed id is reported exactly like a missing one.
func (s *Service) Update(ctx context.Context, ownerID uuid.UUID, rawID string, p Payload) (*Transaction, error) {
	f, err := s.validator.Fields(p)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperror.NewNotFound(msgNotFound)
	}
	if f.Date != nil {
		d := f.Date.UTC()
		f.Date = &d
	}

	tx, err := s.repo.Update(ctx, ownerID, id, f)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NewNotFound(msgNotFound)
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return tx, nil
}

// Delete removes a transaction the caller owns
func (s *Service) Delete(ctx context.Context, ownerID uuid.UUID, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return apperror.NewNotFound(msgNotFound)
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperror.NewNotFound(msgNotFound)
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// Summarize totals the caller's income and expenses and breaks expenses down
// by category.
func (s *Service) Summarize(ctx context.Context, ownerID uuid.UUID) (*Summary, error) {
	txs, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Categories: []CategoryTotal{}}
	byCategory := make(map[string]float64)
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			sum.Income += tx.Amount
		case Expense:
			sum.Expense += tx.Amount
			byCategory[tx.Category] += tx.Amount
		}
	}
	sum.Balance = sum.Income - sum.Expense

	for category, total := range byCategory {
		sum.Categories = append(sum.Categories, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(sum.Categories, func(i, j int) bool {
		return sum.Categories[i].Category < sum.Categories[j].Category
	})

	return sum, nil
}
