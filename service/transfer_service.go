package service

import (
	"context"
	"fmt"

	"nayaplay/events"
	"nayaplay/models"

	"github.com/google/uuid"
)

type transferService struct {
	uowFactory UnitOfWorkFactory
}

// NewTransferService creates a new transfer service
func NewTransferService(uowFactory UnitOfWorkFactory) TransferService {
	return &transferService{
		uowFactory: uowFactory,
	}
}

// Transfer moves funds from an agent account to a recipient. Only verified
// accounts with a transfer-capable role may send; anyone may receive.
func (s *transferService) Transfer(ctx context.Context, fromAccountID int64, toRef string, amount int64) (*models.TransferResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: transfer amount must be positive", ErrInvalidParams)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Lock the sender row; the recipient credit is monotonic and needs no lock
	fromAccount, err := uow.AccountRepository().GetByIDForUpdate(ctx, fromAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender account: %w", err)
	}
	if fromAccount == nil {
		return nil, ErrAccountNotFound
	}
	if !fromAccount.Role.CanTransfer() || !fromAccount.Verified {
		return nil, ErrTransferNotAllowed
	}
	if !fromAccount.CanAfford(amount) {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, fromAccount.Balance, amount)
	}

	toAccount, err := uow.AccountRepository().GetByRef(ctx, toRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient account: %w", err)
	}
	if toAccount == nil {
		return nil, fmt.Errorf("recipient: %w", ErrAccountNotFound)
	}
	if toAccount.ID == fromAccount.ID {
		return nil, ErrSelfTransfer
	}

	newFromBalance := fromAccount.Balance - amount

	if err := uow.AccountRepository().UpdateBalance(ctx, fromAccount.ID, newFromBalance); err != nil {
		return nil, fmt.Errorf("failed to debit sender: %w", err)
	}
	// The recipient row is not locked, so the credit must be a relative
	// increment; taking a second row lock here could deadlock against an
	// opposite-direction transfer
	newToBalance, err := uow.AccountRepository().CreditBalance(ctx, toAccount.ID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit recipient: %w", err)
	}

	transfer := &models.AgentTransfer{
		Ref:                 uuid.New().String(),
		FromAccountID:       fromAccount.ID,
		ToAccountID:         toAccount.ID,
		Amount:              amount,
		SenderBalanceBefore: fromAccount.Balance,
		SenderBalanceAfter:  newFromBalance,
		Status:              models.TransferStatusCompleted,
	}
	if err := transfer.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transfer: %w", err)
	}
	if err := uow.TransferRepository().Create(ctx, transfer); err != nil {
		return nil, fmt.Errorf("failed to create transfer record: %w", err)
	}

	fromHistory := &models.BalanceHistory{
		AccountID:       fromAccount.ID,
		BalanceBefore:   fromAccount.Balance,
		BalanceAfter:    newFromBalance,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeTransferOut,
		TransactionMetadata: map[string]any{
			"transfer_ref":  transfer.Ref,
			"recipient_ref": toAccount.Ref,
		},
		RelatedID:   &transfer.ID,
		RelatedType: relatedTypePtr(models.RelatedTypeTransfer),
	}
	if err := RecordBalanceChange(ctx, uow, fromHistory); err != nil {
		return nil, err
	}

	toHistory := &models.BalanceHistory{
		AccountID:       toAccount.ID,
		BalanceBefore:   newToBalance - amount,
		BalanceAfter:    newToBalance,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeTransferIn,
		TransactionMetadata: map[string]any{
			"transfer_ref": transfer.Ref,
			"sender_ref":   fromAccount.Ref,
		},
		RelatedID:   &transfer.ID,
		RelatedType: relatedTypePtr(models.RelatedTypeTransfer),
	}
	if err := RecordBalanceChange(ctx, uow, toHistory); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.TransferCompletedEvent{
		TransferRef:   transfer.Ref,
		FromAccountID: fromAccount.ID,
		ToAccountID:   toAccount.ID,
		Amount:        amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TransferResult{
		Ref:           transfer.Ref,
		Amount:        amount,
		RecipientName: toAccount.DisplayName,
		NewBalance:    newFromBalance,
	}, nil
}
