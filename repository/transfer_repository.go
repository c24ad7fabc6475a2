package repository

import (
	"context"
	"fmt"

	"nayaplay/database"
	"nayaplay/models"
)

// TransferRepository implements the TransferRepository interface
type TransferRepository struct {
	q queryable
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *database.DB) *TransferRepository {
	return &TransferRepository{q: db.Pool}
}

// newTransferRepositoryWithTx creates a new transfer repository with a transaction
func newTransferRepositoryWithTx(tx queryable) *TransferRepository {
	return &TransferRepository{q: tx}
}

// Create creates a new transfer record
func (r *TransferRepository) Create(ctx context.Context, transfer *models.AgentTransfer) error {
	query := `
		INSERT INTO agent_transfers (ref, from_account_id, to_account_id, amount, sender_balance_before, sender_balance_after, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		transfer.Ref,
		transfer.FromAccountID,
		transfer.ToAccountID,
		transfer.Amount,
		transfer.SenderBalanceBefore,
		transfer.SenderBalanceAfter,
		transfer.Status,
	).Scan(&transfer.ID, &transfer.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transfer from account %d: %w", transfer.FromAccountID, err)
	}
	return nil
}

// GetByAccount returns transfers sent or received by an account
func (r *TransferRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.AgentTransfer, error) {
	query := `
		SELECT id, ref, from_account_id, to_account_id, amount, sender_balance_before, sender_balance_after, status, created_at
		FROM agent_transfers
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfers for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var transfers []*models.AgentTransfer
	for rows.Next() {
		var transfer models.AgentTransfer
		err := rows.Scan(
			&transfer.ID,
			&transfer.Ref,
			&transfer.FromAccountID,
			&transfer.ToAccountID,
			&transfer.Amount,
			&transfer.SenderBalanceBefore,
			&transfer.SenderBalanceAfter,
			&transfer.Status,
			&transfer.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, &transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}
	return transfers, nil
}
