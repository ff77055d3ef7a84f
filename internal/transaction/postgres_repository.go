package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/nixfunds/finance-api/internal/database"
)

// PostgresRepository handles transaction persistence through bun
type PostgresRepository struct {
	db *bun.DB
}

func NewPostgresRepository(db *bun.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, tx *Transaction) error {
	_, err := r.db.NewInsert().
		Model(toDB(tx)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Transaction, error) {
	var rows []database.Transaction
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", ownerID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	out := make([]Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, *mapDBTransactionToModel(&rows[i]))
	}
	return out, nil
}

// Update replaces the editable fields in a single UPDATE ... RETURNING
func (r *PostgresRepository) Update(ctx context.Context, ownerID, id uuid.UUID, f Fields) (*Transaction, error) {
	row := new(database.Transaction)
	q := r.db.NewUpdate().
		Model(row).
		Set("description = ?", f.Description).
		Set("amount = ?", f.Amount).
		Set("category = ?", f.Category).
		Set("type = ?", string(f.Type)).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Returning("*")
	if f.Date != nil {
		q = q.Set("date = ?", f.Date.UTC())
	}

	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return mapDBTransactionToModel(row), nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Transaction)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func toDB(tx *Transaction) *database.Transaction {
	return &database.Transaction{
		ID:          tx.ID,
		UserID:      tx.OwnerID,
		Description: tx.Description,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Type:        string(tx.Type),
		Date:        tx.Date,
	}
}

// mapDBTransactionToModel converts database model to domain model
func mapDBTransactionToModel(row *database.Transaction) *Transaction {
	return &Transaction{
		ID:          row.ID,
		OwnerID:     row.UserID,
		Description: row.Description,
		Amount:      row.Amount,
		Category:    row.Category,
		Type:        Type(row.Type),
		Date:        row.Date,
	}
}
