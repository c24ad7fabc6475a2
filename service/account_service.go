package service

import (
	"context"
	"fmt"
	"time"

	"nayaplay/config"
	"nayaplay/models"

	log "github.com/sirupsen/logrus"
)

type accountService struct {
	uowFactory UnitOfWorkFactory
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory) AccountService {
	return &accountService{
		uowFactory: uowFactory,
	}
}

func (s *accountService) GetOrCreateAccount(ctx context.Context, ref string, displayName string) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account != nil {
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return account, nil
	}

	cfg := config.Get()
	account = &models.Account{
		Ref:         ref,
		DisplayName: displayName,
		Role:        models.RolePlayer,
		Balance:     cfg.StartingBalance,
		// The account ref doubles as the default client seed until the
		// player sets their own
		ClientSeed: ref,
	}
	if err := uow.AccountRepository().Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	history := &models.BalanceHistory{
		AccountID:       account.ID,
		BalanceBefore:   0,
		BalanceAfter:    cfg.StartingBalance,
		ChangeAmount:    cfg.StartingBalance,
		TransactionType: models.TransactionTypeInitial,
		TransactionMetadata: map[string]any{
			"account_ref":  ref,
			"display_name": displayName,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, ref string) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return account, nil
}

func (s *accountService) UpdatePreferences(ctx context.Context, accountID int64, ghostMode *bool, clientSeed *string) (*models.Account, error) {
	if clientSeed != nil && (*clientSeed == "" || len(*clientSeed) > 128) {
		return nil, fmt.Errorf("%w: client seed must be 1-128 characters", ErrInvalidParams)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	if ghostMode != nil {
		account.GhostMode = *ghostMode
	}
	if clientSeed != nil {
		account.ClientSeed = *clientSeed
	}
	if err := uow.AccountRepository().UpdatePreferences(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return account, nil
}

func (s *accountService) GetBalanceHistory(ctx context.Context, accountID int64, limit int) ([]*models.BalanceHistory, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	history, err := uow.BalanceHistoryRepository().GetByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return history, nil
}

func (s *accountService) GetBalanceHistoryRange(ctx context.Context, accountID int64, from, to time.Time) ([]*models.BalanceHistory, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: range end must be after range start", ErrInvalidParams)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	history, err := uow.BalanceHistoryRepository().GetByDateRange(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history range: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return history, nil
}

func (s *accountService) GetWagers(ctx context.Context, accountID int64, limit int) ([]*models.Wager, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wagers, err := uow.WagerRepository().GetByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get wagers: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return wagers, nil
}

// GetWager looks a wager up by ref. A wager belonging to another account is
// reported as not found rather than forbidden, refs are not guessable and the
// distinction would only leak which refs exist.
func (s *accountService) GetWager(ctx context.Context, accountID int64, ref string) (*models.Wager, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wager, err := uow.WagerRepository().GetByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager: %w", err)
	}
	if wager == nil || wager.AccountID != accountID {
		return nil, ErrWagerNotFound
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return wager, nil
}

func (s *accountService) GetTransfers(ctx context.Context, accountID int64, limit int) ([]*models.AgentTransfer, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	transfers, err := uow.TransferRepository().GetByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfers: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return transfers, nil
}

// Reconcile replays the ledger sum against the stored balance. The two can
// only diverge through outside interference, every balance mutation writes its
// ledger row in the same transaction. The stored balance is kept as the truth
// and a reconciliation entry brings the ledger back in line with it.
func (s *accountService) Reconcile(ctx context.Context, accountID int64) (*models.ReconcileResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	sum, err := uow.BalanceHistoryRepository().SumChanges(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger: %w", err)
	}

	result := &models.ReconcileResult{
		AccountID: accountID,
		Balance:   account.Balance,
		LedgerSum: sum,
		Drift:     sum - account.Balance,
		CheckedAt: time.Now().UTC(),
	}

	if result.Drift != 0 {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"balance":   account.Balance,
			"ledgerSum": sum,
			"drift":     result.Drift,
		}).Error("Ledger diverged from stored balance, recording correction")

		history := &models.BalanceHistory{
			AccountID:       accountID,
			BalanceBefore:   sum,
			BalanceAfter:    account.Balance,
			ChangeAmount:    account.Balance - sum,
			TransactionType: models.TransactionTypeReconciliation,
			TransactionMetadata: map[string]any{
				"drift": result.Drift,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, err
		}
		result.Corrected = true
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

func (s *accountService) GetWagerStats(ctx context.Context, accountID int64) (*models.WagerStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stats, err := uow.WagerRepository().GetStats(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager stats: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return stats, nil
}
