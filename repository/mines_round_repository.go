package repository

import (
	"context"
	"fmt"

	"nayaplay/database"
	"nayaplay/models"

	"github.com/jackc/pgx/v5"
)

const minesRoundColumns = `id, ref, account_id, stake, mine_count, server_seed, seed_hash, client_seed, nonce, mine_cells, revealed, state, created_at, settled_at`

// MinesRoundRepository implements the MinesRoundRepository interface
type MinesRoundRepository struct {
	q queryable
}

// NewMinesRoundRepository creates a new mines round repository
func NewMinesRoundRepository(db *database.DB) *MinesRoundRepository {
	return &MinesRoundRepository{q: db.Pool}
}

// newMinesRoundRepositoryWithTx creates a new mines round repository with a transaction
func newMinesRoundRepositoryWithTx(tx queryable) *MinesRoundRepository {
	return &MinesRoundRepository{q: tx}
}

func scanMinesRound(row pgx.Row) (*models.MinesRound, error) {
	var round models.MinesRound
	err := row.Scan(
		&round.ID,
		&round.Ref,
		&round.AccountID,
		&round.Stake,
		&round.MineCount,
		&round.ServerSeed,
		&round.SeedHash,
		&round.ClientSeed,
		&round.Nonce,
		&round.MineCells,
		&round.Revealed,
		&round.State,
		&round.CreatedAt,
		&round.SettledAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// Create creates a new round. The partial unique index on active rounds
// makes a second concurrent open fail at the schema level.
func (r *MinesRoundRepository) Create(ctx context.Context, round *models.MinesRound) error {
	query := `
		INSERT INTO mines_rounds (ref, account_id, stake, mine_count, server_seed, seed_hash, client_seed, nonce, mine_cells, revealed, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		round.Ref,
		round.AccountID,
		round.Stake,
		round.MineCount,
		round.ServerSeed,
		round.SeedHash,
		round.ClientSeed,
		round.Nonce,
		round.MineCells,
		round.Revealed,
		round.State,
	).Scan(&round.ID, &round.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create mines round for account %d: %w", round.AccountID, err)
	}
	return nil
}

// GetByRef retrieves a round by its external UUID
func (r *MinesRoundRepository) GetByRef(ctx context.Context, ref string) (*models.MinesRound, error) {
	query := `SELECT ` + minesRoundColumns + ` FROM mines_rounds WHERE ref = $1`

	round, err := scanMinesRound(r.q.QueryRow(ctx, query, ref))
	if err != nil {
		return nil, fmt.Errorf("failed to get mines round by ref %s: %w", ref, err)
	}
	return round, nil
}

// GetActiveByAccount returns the account's active round, or nil
func (r *MinesRoundRepository) GetActiveByAccount(ctx context.Context, accountID int64) (*models.MinesRound, error) {
	query := `SELECT ` + minesRoundColumns + ` FROM mines_rounds WHERE account_id = $1 AND state = 'active'`

	round, err := scanMinesRound(r.q.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, fmt.Errorf("failed to get active mines round for account %d: %w", accountID, err)
	}
	return round, nil
}

// Update persists reveal progress and state transitions
func (r *MinesRoundRepository) Update(ctx context.Context, round *models.MinesRound) error {
	query := `
		UPDATE mines_rounds
		SET revealed = $1, state = $2, settled_at = $3
		WHERE id = $4
	`

	result, err := r.q.Exec(ctx, query, round.Revealed, round.State, round.SettledAt, round.ID)
	if err != nil {
		return fmt.Errorf("failed to update mines round %d: %w", round.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("mines round %d not found", round.ID)
	}
	return nil
}
