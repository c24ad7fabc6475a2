package repository

import (
	"context"
	"fmt"

	"nayaplay/database"
	"nayaplay/models"

	"github.com/jackc/pgx/v5"
)

// DepositRepository implements the DepositRepository interface
type DepositRepository struct {
	q queryable
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *database.DB) *DepositRepository {
	return &DepositRepository{q: db.Pool}
}

// newDepositRepositoryWithTx creates a new deposit repository with a transaction
func newDepositRepositoryWithTx(tx queryable) *DepositRepository {
	return &DepositRepository{q: tx}
}

// Create inserts a deposit keyed by the gateway reference. The unique
// constraint on the reference makes redelivered confirmations collide here;
// Create reports false for those instead of inserting a second row.
func (r *DepositRepository) Create(ctx context.Context, deposit *models.Deposit) (bool, error) {
	query := `
		INSERT INTO deposits (account_id, amount, reference)
		VALUES ($1, $2, $3)
		ON CONFLICT (reference) DO NOTHING
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		deposit.AccountID,
		deposit.Amount,
		deposit.Reference,
	).Scan(&deposit.ID, &deposit.CreatedAt)

	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create deposit %s: %w", deposit.Reference, err)
	}
	return true, nil
}

// GetByReference retrieves a deposit by its gateway reference
func (r *DepositRepository) GetByReference(ctx context.Context, reference string) (*models.Deposit, error) {
	query := `SELECT id, account_id, amount, reference, created_at FROM deposits WHERE reference = $1`

	var deposit models.Deposit
	err := r.q.QueryRow(ctx, query, reference).Scan(
		&deposit.ID,
		&deposit.AccountID,
		&deposit.Amount,
		&deposit.Reference,
		&deposit.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit by reference %s: %w", reference, err)
	}
	return &deposit, nil
}
