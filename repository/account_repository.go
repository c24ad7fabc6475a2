package repository

import (
	"context"
	"fmt"

	"nayaplay/database"
	"nayaplay/models"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, ref, display_name, role, balance, total_wagered, bet_nonce, client_seed, verified, ghost_mode, created_at, updated_at`

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Ref,
		&account.DisplayName,
		&account.Role,
		&account.Balance,
		&account.TotalWagered,
		&account.BetNonce,
		&account.ClientSeed,
		&account.Verified,
		&account.GhostMode,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account by its internal ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	return account, nil
}

// GetByRef retrieves an account by its external UUID
func (r *AccountRepository) GetByRef(ctx context.Context, ref string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ref = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, ref))
	if err != nil {
		return nil, fmt.Errorf("failed to get account by ref %s: %w", ref, err)
	}
	return account, nil
}

// GetByIDForUpdate retrieves an account and locks its row until the
// transaction ends. Concurrent settlements for the same account queue here.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", id, err)
	}
	return account, nil
}

// Create creates a new account with the initial balance
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (ref, display_name, role, balance, client_seed, verified, ghost_mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, total_wagered, bet_nonce, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		account.Ref,
		account.DisplayName,
		account.Role,
		account.Balance,
		account.ClientSeed,
		account.Verified,
		account.GhostMode,
	).Scan(&account.ID, &account.TotalWagered, &account.BetNonce, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create account %s: %w", account.Ref, err)
	}
	return nil
}

// UpdateBalance updates an account's balance. The CHECK constraint on the
// column rejects any update that would drive the balance negative.
func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, newBalance, id)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %d not found", id)
	}
	return nil
}

// CreditBalance atomically adds amount to the account's balance and returns
// the resulting value. The increment happens in the UPDATE itself, so a credit
// never depends on a previously read balance and concurrent writers cannot
// erase each other's updates.
func (r *AccountRepository) CreditBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING balance
	`

	var balance int64
	if err := r.q.QueryRow(ctx, query, amount, id).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to credit account %d: %w", id, err)
	}
	return balance, nil
}

// IncrementBetNonce advances the provably-fair nonce and returns the value
// the next wager should use
func (r *AccountRepository) IncrementBetNonce(ctx context.Context, id int64) (int64, error) {
	query := `
		UPDATE accounts
		SET bet_nonce = bet_nonce + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING bet_nonce
	`

	var nonce int64
	if err := r.q.QueryRow(ctx, query, id).Scan(&nonce); err != nil {
		return 0, fmt.Errorf("failed to increment bet nonce for account %d: %w", id, err)
	}
	return nonce, nil
}

// AddTotalWagered adds to the account's lifetime wagered counter
func (r *AccountRepository) AddTotalWagered(ctx context.Context, id int64, amount int64) error {
	query := `
		UPDATE accounts
		SET total_wagered = total_wagered + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to update total wagered for account %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %d not found", id)
	}
	return nil
}

// UpdatePreferences persists ghost mode and client seed changes
func (r *AccountRepository) UpdatePreferences(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET ghost_mode = $1, client_seed = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.q.Exec(ctx, query, account.GhostMode, account.ClientSeed, account.ID)
	if err != nil {
		return fmt.Errorf("failed to update preferences for account %d: %w", account.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %d not found", account.ID)
	}
	return nil
}
