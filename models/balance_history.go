package models

import (
	"errors"
	"time"
)

// RelatedType represents what type of entity the related_id refers to
type RelatedType string

const (
	RelatedTypeWager      RelatedType = "wager"
	RelatedTypeMinesRound RelatedType = "mines_round"
	RelatedTypeTransfer   RelatedType = "transfer"
	RelatedTypeWithdrawal RelatedType = "withdrawal"
	RelatedTypeDeposit    RelatedType = "deposit"
)

// BalanceHistory represents a single entry in the append-only balance ledger.
// Every balance mutation in the system writes exactly one of these rows inside
// the same transaction that performs the mutation.
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	AccountID           int64           `db:"account_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	RelatedID           *int64          `db:"related_id"`
	RelatedType         *RelatedType    `db:"related_type"`
	CreatedAt           time.Time       `db:"created_at"`
}

// IsPositiveChange returns true if the change amount is positive
func (bh *BalanceHistory) IsPositiveChange() bool {
	return bh.ChangeAmount > 0
}

// IsNegativeChange returns true if the change amount is negative
func (bh *BalanceHistory) IsNegativeChange() bool {
	return bh.ChangeAmount < 0
}

// Validate performs basic validation on the ledger entry
func (bh *BalanceHistory) Validate() error {
	if bh.ChangeAmount == 0 {
		return errors.New("change amount cannot be zero")
	}
	if bh.BalanceAfter != bh.BalanceBefore+bh.ChangeAmount {
		return errors.New("balance calculation is inconsistent")
	}
	if bh.BalanceAfter < 0 {
		return errors.New("balance cannot go negative")
	}
	return nil
}

// ReconcileResult reports the outcome of replaying the ledger against the
// stored balance
type ReconcileResult struct {
	AccountID int64
	Balance   int64
	LedgerSum int64
	Drift     int64 // LedgerSum - Balance before correction, 0 when healthy
	Corrected bool
	CheckedAt time.Time
}

// Description returns a human-readable description of the transaction
func (bh *BalanceHistory) Description() string {
	switch bh.TransactionType {
	case TransactionTypeWagerWin:
		return "Wager win"
	case TransactionTypeWagerLoss:
		return "Wager loss"
	case TransactionTypeMinesStake:
		return "Mines stake"
	case TransactionTypeMinesCashout:
		return "Mines cashout"
	case TransactionTypeTransferIn:
		return "Transfer received"
	case TransactionTypeTransferOut:
		return "Transfer sent"
	case TransactionTypeDeposit:
		return "Deposit"
	case TransactionTypeWithdrawal:
		return "Withdrawal"
	case TransactionTypeWithdrawalRefund:
		return "Withdrawal refund"
	case TransactionTypeInitial:
		return "Initial balance"
	case TransactionTypeReconciliation:
		return "Balance reconciliation"
	default:
		return string(bh.TransactionType)
	}
}
