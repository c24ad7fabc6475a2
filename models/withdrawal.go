package models

import (
	"errors"
	"time"
)

// WithdrawalStatus is the review status of a withdrawal request
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Withdrawal represents a withdrawal request. The amount is debited from the
// account when the request is created; rejecting the request refunds it.
type Withdrawal struct {
	ID         int64            `db:"id"`
	Ref        string           `db:"ref"`
	AccountID  int64            `db:"account_id"`
	Amount     int64            `db:"amount"`
	Address    string           `db:"address"`
	Status     WithdrawalStatus `db:"status"`
	CreatedAt  time.Time        `db:"created_at"`
	ResolvedAt *time.Time       `db:"resolved_at"`
}

// IsPending reports whether the request still awaits review
func (w *Withdrawal) IsPending() bool {
	return w.Status == WithdrawalStatusPending
}

// Validate performs basic validation on a withdrawal request
func (w *Withdrawal) Validate() error {
	if w.Amount <= 0 {
		return errors.New("withdrawal amount must be positive")
	}
	if w.Address == "" {
		return errors.New("withdrawal address is required")
	}
	return nil
}
