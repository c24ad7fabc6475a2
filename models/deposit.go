package models

import (
	"errors"
	"time"
)

// Deposit records a credited gateway payment. The reference is the gateway's
// identifier for the paid invoice and is unique, so a redelivered confirmation
// cannot credit the same payment twice.
type Deposit struct {
	ID        int64     `db:"id"`
	AccountID int64     `db:"account_id"`
	Amount    int64     `db:"amount"`
	Reference string    `db:"reference"`
	CreatedAt time.Time `db:"created_at"`
}

// Validate performs basic validation on a deposit record
func (d *Deposit) Validate() error {
	if d.Amount <= 0 {
		return errors.New("deposit amount must be positive")
	}
	if d.Reference == "" {
		return errors.New("deposit reference is required")
	}
	return nil
}
