package repository

import (
	"context"
	"fmt"

	"nayaplay/database"
	"nayaplay/models"

	"github.com/jackc/pgx/v5"
)

const withdrawalColumns = `id, ref, account_id, amount, address, status, created_at, resolved_at`

// WithdrawalRepository implements the WithdrawalRepository interface
type WithdrawalRepository struct {
	q queryable
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

// newWithdrawalRepositoryWithTx creates a new withdrawal repository with a transaction
func newWithdrawalRepositoryWithTx(tx queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

func scanWithdrawal(row pgx.Row) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := row.Scan(
		&withdrawal.ID,
		&withdrawal.Ref,
		&withdrawal.AccountID,
		&withdrawal.Amount,
		&withdrawal.Address,
		&withdrawal.Status,
		&withdrawal.CreatedAt,
		&withdrawal.ResolvedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// Create creates a new withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (ref, account_id, amount, address, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		withdrawal.Ref,
		withdrawal.AccountID,
		withdrawal.Amount,
		withdrawal.Address,
		withdrawal.Status,
	).Scan(&withdrawal.ID, &withdrawal.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create withdrawal for account %d: %w", withdrawal.AccountID, err)
	}
	return nil
}

// GetByRef retrieves a withdrawal by its external UUID
func (r *WithdrawalRepository) GetByRef(ctx context.Context, ref string) (*models.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE ref = $1`

	withdrawal, err := scanWithdrawal(r.q.QueryRow(ctx, query, ref))
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal by ref %s: %w", ref, err)
	}
	return withdrawal, nil
}

// GetPending returns all withdrawals awaiting review, oldest first
func (r *WithdrawalRepository) GetPending(ctx context.Context) ([]*models.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE status = 'pending' ORDER BY created_at ASC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []*models.Withdrawal
	for rows.Next() {
		var withdrawal models.Withdrawal
		err := rows.Scan(
			&withdrawal.ID,
			&withdrawal.Ref,
			&withdrawal.AccountID,
			&withdrawal.Amount,
			&withdrawal.Address,
			&withdrawal.Status,
			&withdrawal.CreatedAt,
			&withdrawal.ResolvedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, &withdrawal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate withdrawals: %w", err)
	}
	return withdrawals, nil
}

// Update persists a status transition
func (r *WithdrawalRepository) Update(ctx context.Context, withdrawal *models.Withdrawal) error {
	query := `
		UPDATE withdrawals
		SET status = $1, resolved_at = $2
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, withdrawal.Status, withdrawal.ResolvedAt, withdrawal.ID)
	if err != nil {
		return fmt.Errorf("failed to update withdrawal %d: %w", withdrawal.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal %d not found", withdrawal.ID)
	}
	return nil
}
