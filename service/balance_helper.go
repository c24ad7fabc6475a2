package service

import (
	"context"
	"fmt"

	"nayaplay/events"
	"nayaplay/models"
)

// RecordBalanceChange records a balance history entry and emits appropriate events.
// This is the single entry point for all balance changes in the system.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := history.Validate(); err != nil {
		return fmt.Errorf("invalid balance change: %w", err)
	}

	// Record the balance history
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	// Emit balance change event (will be flushed after transaction commits)
	event := events.BalanceChangeEvent{
		AccountID:       history.AccountID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	}
	uow.EventBus().Publish(event)

	// Also emit account created event if this is the initial balance
	if history.TransactionType == models.TransactionTypeInitial {
		displayName, _ := history.TransactionMetadata["display_name"].(string)
		accountRef, _ := history.TransactionMetadata["account_ref"].(string)
		uow.EventBus().Publish(events.AccountCreatedEvent{
			AccountID:      history.AccountID,
			AccountRef:     accountRef,
			DisplayName:    displayName,
			InitialBalance: history.BalanceAfter,
		})
	}

	return nil
}
