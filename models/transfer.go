package models

import (
	"errors"
	"time"
)

// TransferStatus is the status of an agent transfer
type TransferStatus string

const (
	TransferStatusCompleted TransferStatus = "completed"
)

// AgentTransfer represents a completed balance transfer from an agent to a
// player. Sender pre/post balances are denormalized for audit.
type AgentTransfer struct {
	ID                int64          `db:"id"`
	Ref               string         `db:"ref"` // external UUID
	FromAccountID     int64          `db:"from_account_id"`
	ToAccountID       int64          `db:"to_account_id"`
	Amount            int64          `db:"amount"`
	SenderBalanceBefore int64        `db:"sender_balance_before"`
	SenderBalanceAfter  int64        `db:"sender_balance_after"`
	Status            TransferStatus `db:"status"`
	CreatedAt         time.Time      `db:"created_at"`
}

// Validate performs basic consistency checks on the transfer record
func (t *AgentTransfer) Validate() error {
	if t.Amount <= 0 {
		return errors.New("transfer amount must be positive")
	}
	if t.FromAccountID == t.ToAccountID {
		return errors.New("cannot transfer to self")
	}
	if t.SenderBalanceAfter != t.SenderBalanceBefore-t.Amount {
		return errors.New("sender balance accounting is inconsistent")
	}
	return nil
}

// TransferResult is returned to the caller after a successful transfer
type TransferResult struct {
	Ref           string
	Amount        int64
	RecipientName string
	NewBalance    int64
}
