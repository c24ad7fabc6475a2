package service

import (
	"context"
	"encoding/json"
	"time"

	"nayaplay/events"
	"nayaplay/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account by its internal ID
	GetByID(ctx context.Context, id int64) (*models.Account, error)

	// GetByRef retrieves an account by its external UUID
	GetByRef(ctx context.Context, ref string) (*models.Account, error)

	// GetByIDForUpdate retrieves an account and locks its row for the
	// remainder of the transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Account, error)

	// Create creates a new account with the initial balance
	Create(ctx context.Context, account *models.Account) error

	// UpdateBalance writes an absolute balance. Only valid on a row the
	// caller locked with GetByIDForUpdate in the same transaction.
	UpdateBalance(ctx context.Context, id int64, newBalance int64) error

	// CreditBalance atomically adds amount to the balance and returns the
	// resulting value. Use this for credits on rows that are not locked.
	CreditBalance(ctx context.Context, id int64, amount int64) (int64, error)

	// IncrementBetNonce advances the provably-fair nonce and returns the
	// value the next wager should use
	IncrementBetNonce(ctx context.Context, id int64) (int64, error)

	// AddTotalWagered adds to the account's lifetime wagered counter
	AddTotalWagered(ctx context.Context, id int64, amount int64) error

	// UpdatePreferences persists ghost mode and client seed changes
	UpdatePreferences(ctx context.Context, account *models.Account) error
}

// BalanceHistoryRepository defines the interface for the append-only ledger
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByAccount returns balance history for a specific account
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.BalanceHistory, error)

	// SumChanges returns the sum of all recorded changes for an account
	SumChanges(ctx context.Context, accountID int64) (int64, error)

	// GetByDateRange returns balance history within a date range
	GetByDateRange(ctx context.Context, accountID int64, from, to time.Time) ([]*models.BalanceHistory, error)
}

// WagerRepository defines the interface for settled wager data access
type WagerRepository interface {
	// Create creates a new wager record
	Create(ctx context.Context, wager *models.Wager) error

	// GetByRef retrieves a wager by its external UUID
	GetByRef(ctx context.Context, ref string) (*models.Wager, error)

	// GetByAccount returns wagers for a specific account, newest first
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.Wager, error)

	// GetRecent returns the most recently settled wagers across all accounts
	GetRecent(ctx context.Context, limit int) ([]*models.Wager, error)

	// GetStats returns wager statistics for an account
	GetStats(ctx context.Context, accountID int64) (*models.WagerStats, error)
}

// MinesRoundRepository defines the interface for mines round data access
type MinesRoundRepository interface {
	// Create creates a new round
	Create(ctx context.Context, round *models.MinesRound) error

	// GetByRef retrieves a round by its external UUID
	GetByRef(ctx context.Context, ref string) (*models.MinesRound, error)

	// GetActiveByAccount returns the account's active round, or nil
	GetActiveByAccount(ctx context.Context, accountID int64) (*models.MinesRound, error)

	// Update persists reveal progress and state transitions
	Update(ctx context.Context, round *models.MinesRound) error
}

// TransferRepository defines the interface for agent transfer data access
type TransferRepository interface {
	// Create creates a new transfer record
	Create(ctx context.Context, transfer *models.AgentTransfer) error

	// GetByAccount returns transfers sent or received by an account
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.AgentTransfer, error)
}

// DepositRepository defines the interface for credited gateway deposits
type DepositRepository interface {
	// Create inserts a deposit keyed by the gateway reference. It reports
	// false when the reference was already credited.
	Create(ctx context.Context, deposit *models.Deposit) (bool, error)

	// GetByReference retrieves a deposit by its gateway reference
	GetByReference(ctx context.Context, reference string) (*models.Deposit, error)
}

// WithdrawalRepository defines the interface for withdrawal data access
type WithdrawalRepository interface {
	// Create creates a new withdrawal request
	Create(ctx context.Context, withdrawal *models.Withdrawal) error

	// GetByRef retrieves a withdrawal by its external UUID
	GetByRef(ctx context.Context, ref string) (*models.Withdrawal, error)

	// GetPending returns all withdrawals awaiting review
	GetPending(ctx context.Context) ([]*models.Withdrawal, error)

	// Update persists a status transition
	Update(ctx context.Context, withdrawal *models.Withdrawal) error
}

// AccountService defines the interface for account operations
type AccountService interface {
	// GetOrCreateAccount retrieves an account by ref or creates it with the
	// configured starting balance
	GetOrCreateAccount(ctx context.Context, ref string, displayName string) (*models.Account, error)

	// GetAccount retrieves an account by ref
	GetAccount(ctx context.Context, ref string) (*models.Account, error)

	// UpdatePreferences applies ghost mode and client seed changes
	UpdatePreferences(ctx context.Context, accountID int64, ghostMode *bool, clientSeed *string) (*models.Account, error)

	// GetBalanceHistory returns the account's recent ledger entries
	GetBalanceHistory(ctx context.Context, accountID int64, limit int) ([]*models.BalanceHistory, error)

	// GetBalanceHistoryRange returns the account's ledger entries within a
	// date range
	GetBalanceHistoryRange(ctx context.Context, accountID int64, from, to time.Time) ([]*models.BalanceHistory, error)

	// GetWagers returns the account's settled wagers, newest first
	GetWagers(ctx context.Context, accountID int64, limit int) ([]*models.Wager, error)

	// GetWager retrieves one of the account's wagers by ref
	GetWager(ctx context.Context, accountID int64, ref string) (*models.Wager, error)

	// GetTransfers returns transfers sent or received by the account
	GetTransfers(ctx context.Context, accountID int64, limit int) ([]*models.AgentTransfer, error)

	// GetWagerStats returns aggregate wager statistics for an account
	GetWagerStats(ctx context.Context, accountID int64) (*models.WagerStats, error)

	// Reconcile replays the ledger sum against the stored balance and
	// records a correcting entry if they diverge
	Reconcile(ctx context.Context, accountID int64) (*models.ReconcileResult, error)
}

// SettlementService defines the interface for single-shot wager settlement.
// The full debit, resolve, credit and record cycle runs in one transaction.
type SettlementService interface {
	// PlaceBet settles a wager for any single-shot game
	PlaceBet(ctx context.Context, accountID int64, game models.Game, stake int64, params json.RawMessage) (*models.SettlementResult, error)

	// RecentWagers returns the most recently settled wagers across all
	// accounts, newest first
	RecentWagers(ctx context.Context, limit int) ([]*models.Wager, error)
}

// MinesService defines the interface for the multi-step mines game
type MinesService interface {
	// StartRound debits the stake and opens a round
	StartRound(ctx context.Context, accountID int64, stake int64, mineCount int) (*models.MinesRound, error)

	// Reveal uncovers one cell on the active round
	Reveal(ctx context.Context, accountID int64, cell int) (*MinesRevealResult, error)

	// Cashout settles the active round at the current multiplier
	Cashout(ctx context.Context, accountID int64) (*models.SettlementResult, error)

	// GetActiveRound returns the account's active round, or nil
	GetActiveRound(ctx context.Context, accountID int64) (*models.MinesRound, error)
}

// MinesRevealResult is the outcome of a single reveal
type MinesRevealResult struct {
	Round      *models.MinesRound
	Cell       int
	Mine       bool
	Multiplier float64 // running multiplier after this reveal, 0 on a bust
	Settlement *models.SettlementResult
}

// TransferService defines the interface for agent transfer operations
type TransferService interface {
	// Transfer moves funds from an agent account to a recipient
	Transfer(ctx context.Context, fromAccountID int64, toRef string, amount int64) (*models.TransferResult, error)
}

// WalletService defines the interface for deposits and withdrawals
type WalletService interface {
	// CreditDeposit credits a confirmed deposit to an account
	CreditDeposit(ctx context.Context, accountRef string, amount int64, reference string) (*models.Account, error)

	// RequestWithdrawal debits the amount and opens a pending withdrawal
	RequestWithdrawal(ctx context.Context, accountID int64, amount int64, address string) (*models.Withdrawal, error)

	// ReviewWithdrawal approves or rejects a pending withdrawal; a rejection
	// refunds the debited amount
	ReviewWithdrawal(ctx context.Context, withdrawalRef string, approve bool) (*models.Withdrawal, error)

	// GetPendingWithdrawals lists withdrawals awaiting review, oldest first
	GetPendingWithdrawals(ctx context.Context) ([]*models.Withdrawal, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	WagerRepository() WagerRepository
	MinesRoundRepository() MinesRoundRepository
	TransferRepository() TransferRepository
	WithdrawalRepository() WithdrawalRepository
	DepositRepository() DepositRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
