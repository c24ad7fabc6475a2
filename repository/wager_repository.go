package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"nayaplay/database"
	"nayaplay/models"

	"github.com/jackc/pgx/v5"
)

const wagerColumns = `id, ref, account_id, game, stake, params, outcome, multiplier, payout, status, balance_history_id, created_at`

// WagerRepository implements the WagerRepository interface
type WagerRepository struct {
	q queryable
}

// NewWagerRepository creates a new wager repository
func NewWagerRepository(db *database.DB) *WagerRepository {
	return &WagerRepository{q: db.Pool}
}

// newWagerRepositoryWithTx creates a new wager repository with a transaction
func newWagerRepositoryWithTx(tx queryable) *WagerRepository {
	return &WagerRepository{q: tx}
}

// Create creates a new wager record
func (r *WagerRepository) Create(ctx context.Context, wager *models.Wager) error {
	paramsJSON, err := json.Marshal(wager.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal wager params: %w", err)
	}
	outcomeJSON, err := json.Marshal(wager.Outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal wager outcome: %w", err)
	}

	query := `
		INSERT INTO wagers (ref, account_id, game, stake, params, outcome, multiplier, payout, status, balance_history_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		wager.Ref,
		wager.AccountID,
		wager.Game,
		wager.Stake,
		paramsJSON,
		outcomeJSON,
		wager.Multiplier,
		wager.Payout,
		wager.Status,
		wager.BalanceHistoryID,
	).Scan(&wager.ID, &wager.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create wager for account %d: %w", wager.AccountID, err)
	}
	return nil
}

func scanWagerRows(rows pgx.Rows) ([]*models.Wager, error) {
	defer rows.Close()

	var wagers []*models.Wager
	for rows.Next() {
		wager, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wager: %w", err)
		}
		wagers = append(wagers, wager)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wagers: %w", err)
	}
	return wagers, nil
}

func scanWager(row pgx.Row) (*models.Wager, error) {
	var wager models.Wager
	var paramsJSON, outcomeJSON []byte

	err := row.Scan(
		&wager.ID,
		&wager.Ref,
		&wager.AccountID,
		&wager.Game,
		&wager.Stake,
		&paramsJSON,
		&outcomeJSON,
		&wager.Multiplier,
		&wager.Payout,
		&wager.Status,
		&wager.BalanceHistoryID,
		&wager.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(paramsJSON) > 0 {
		if err := json.Unmarshal(paramsJSON, &wager.Params); err != nil {
			return nil, fmt.Errorf("failed to unmarshal wager params: %w", err)
		}
	}
	if len(outcomeJSON) > 0 {
		if err := json.Unmarshal(outcomeJSON, &wager.Outcome); err != nil {
			return nil, fmt.Errorf("failed to unmarshal wager outcome: %w", err)
		}
	}
	return &wager, nil
}

// GetByRef retrieves a wager by its external UUID
func (r *WagerRepository) GetByRef(ctx context.Context, ref string) (*models.Wager, error) {
	query := `SELECT ` + wagerColumns + ` FROM wagers WHERE ref = $1`

	wager, err := scanWager(r.q.QueryRow(ctx, query, ref))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wager by ref %s: %w", ref, err)
	}
	return wager, nil
}

// GetByAccount returns wagers for a specific account, newest first
func (r *WagerRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get wagers for account %d: %w", accountID, err)
	}
	return scanWagerRows(rows)
}

// GetRecent returns the most recently settled wagers across all accounts
func (r *WagerRepository) GetRecent(ctx context.Context, limit int) ([]*models.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent wagers: %w", err)
	}
	return scanWagerRows(rows)
}

// GetStats returns wager statistics for an account
func (r *WagerRepository) GetStats(ctx context.Context, accountID int64) (*models.WagerStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(stake), 0),
			COALESCE(SUM(payout), 0),
			COUNT(*) FILTER (WHERE status = 'won'),
			COUNT(*) FILTER (WHERE status = 'lost'),
			COALESCE(MAX(payout - stake) FILTER (WHERE status = 'won'), 0)
		FROM wagers
		WHERE account_id = $1
	`

	var stats models.WagerStats
	err := r.q.QueryRow(ctx, query, accountID).Scan(
		&stats.TotalWagers,
		&stats.TotalWagered,
		&stats.TotalPayout,
		&stats.WonWagers,
		&stats.LostWagers,
		&stats.BiggestWin,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager stats for account %d: %w", accountID, err)
	}
	return &stats, nil
}
