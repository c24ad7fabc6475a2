package service

import (
	"context"
	"fmt"
	"time"

	"nayaplay/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type walletService struct {
	uowFactory UnitOfWorkFactory
}

// NewWalletService creates a new wallet service
func NewWalletService(uowFactory UnitOfWorkFactory) WalletService {
	return &walletService{
		uowFactory: uowFactory,
	}
}

// CreditDeposit credits a confirmed deposit. The reference is the payment
// gateway's identifier for the invoice that was paid; a reference that was
// already credited is a gateway redelivery and becomes a no-op.
func (s *walletService) CreditDeposit(ctx context.Context, accountRef string, amount int64, reference string) (*models.Account, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: deposit amount must be positive", ErrInvalidParams)
	}
	if reference == "" {
		return nil, fmt.Errorf("%w: deposit reference is required", ErrInvalidParams)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByRef(ctx, accountRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	deposit := &models.Deposit{
		AccountID: account.ID,
		Amount:    amount,
		Reference: reference,
	}
	inserted, err := uow.DepositRepository().Create(ctx, deposit)
	if err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}
	if !inserted {
		log.WithFields(log.Fields{
			"accountRef": accountRef,
			"reference":  reference,
		}).Info("Deposit reference already credited, ignoring redelivery")
		return account, nil
	}

	// Relative credit: the GetByRef read above is not locked, so an absolute
	// write could erase a concurrent settlement's update
	newBalance, err := uow.AccountRepository().CreditBalance(ctx, account.ID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit deposit: %w", err)
	}

	history := &models.BalanceHistory{
		AccountID:       account.ID,
		BalanceBefore:   newBalance - amount,
		BalanceAfter:    newBalance,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeDeposit,
		TransactionMetadata: map[string]any{
			"gateway_reference": reference,
		},
		RelatedID:   &deposit.ID,
		RelatedType: relatedTypePtr(models.RelatedTypeDeposit),
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	account.Balance = newBalance
	return account, nil
}

// RequestWithdrawal debits the amount immediately and opens a pending
// withdrawal for review. A rejection refunds the debit.
func (s *walletService) RequestWithdrawal(ctx context.Context, accountID int64, amount int64, address string) (*models.Withdrawal, error) {
	withdrawal := &models.Withdrawal{
		Ref:       uuid.New().String(),
		AccountID: accountID,
		Amount:    amount,
		Address:   address,
		Status:    models.WithdrawalStatusPending,
	}
	if err := withdrawal.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
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
	if !account.CanAfford(amount) {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, account.Balance, amount)
	}

	newBalance := account.Balance - amount
	if err := uow.AccountRepository().UpdateBalance(ctx, accountID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to debit withdrawal: %w", err)
	}

	if err := uow.WithdrawalRepository().Create(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	history := &models.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   account.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeWithdrawal,
		TransactionMetadata: map[string]any{
			"withdrawal_ref": withdrawal.Ref,
			"address":        address,
		},
		RelatedID:   &withdrawal.ID,
		RelatedType: relatedTypePtr(models.RelatedTypeWithdrawal),
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return withdrawal, nil
}

// ReviewWithdrawal resolves a pending withdrawal. Approval leaves the debit
// in place; rejection refunds it.
func (s *walletService) ReviewWithdrawal(ctx context.Context, withdrawalRef string, approve bool) (*models.Withdrawal, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	withdrawal, err := uow.WithdrawalRepository().GetByRef(ctx, withdrawalRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	if withdrawal == nil {
		return nil, ErrWithdrawalNotFound
	}
	if !withdrawal.IsPending() {
		return nil, ErrWithdrawalNotPending
	}

	now := time.Now().UTC()
	withdrawal.ResolvedAt = &now
	if approve {
		withdrawal.Status = models.WithdrawalStatusApproved
	} else {
		withdrawal.Status = models.WithdrawalStatusRejected
	}
	if err := uow.WithdrawalRepository().Update(ctx, withdrawal); err != nil {
		return nil, fmt.Errorf("failed to update withdrawal: %w", err)
	}

	if !approve {
		account, err := uow.AccountRepository().GetByIDForUpdate(ctx, withdrawal.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return nil, ErrAccountNotFound
		}

		newBalance := account.Balance + withdrawal.Amount
		if err := uow.AccountRepository().UpdateBalance(ctx, account.ID, newBalance); err != nil {
			return nil, fmt.Errorf("failed to refund withdrawal: %w", err)
		}

		history := &models.BalanceHistory{
			AccountID:       account.ID,
			BalanceBefore:   account.Balance,
			BalanceAfter:    newBalance,
			ChangeAmount:    withdrawal.Amount,
			TransactionType: models.TransactionTypeWithdrawalRefund,
			TransactionMetadata: map[string]any{
				"withdrawal_ref": withdrawal.Ref,
			},
			RelatedID:   &withdrawal.ID,
			RelatedType: relatedTypePtr(models.RelatedTypeWithdrawal),
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return withdrawal, nil
}

// GetPendingWithdrawals lists withdrawals awaiting review, oldest first
func (s *walletService) GetPendingWithdrawals(ctx context.Context) ([]*models.Withdrawal, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	withdrawals, err := uow.WithdrawalRepository().GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending withdrawals: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return withdrawals, nil
}
