package models

import (
	"errors"
	"time"
)

// AccountRole represents the role attached to an account
type AccountRole string

const (
	RolePlayer  AccountRole = "player"
	RoleAgent   AccountRole = "agent"
	RoleAdmin   AccountRole = "admin"
	RoleSupport AccountRole = "support"
)

// IsValid reports whether the role is one of the known roles
func (r AccountRole) IsValid() bool {
	switch r {
	case RolePlayer, RoleAgent, RoleAdmin, RoleSupport:
		return true
	}
	return false
}

// CanTransfer reports whether the role may initiate agent transfers
func (r AccountRole) CanTransfer() bool {
	return r == RoleAgent || r == RoleAdmin
}

// Account represents a platform account with its balance state
type Account struct {
	ID            int64       `db:"id"`
	Ref           string      `db:"ref"` // external UUID, used as default client seed
	DisplayName   string      `db:"display_name"`
	Role          AccountRole `db:"role"`
	Balance       int64       `db:"balance"` // cents, never negative
	TotalWagered  int64       `db:"total_wagered"`
	BetNonce      int64       `db:"bet_nonce"` // provably-fair nonce counter
	ClientSeed    string      `db:"client_seed"`
	Verified      bool        `db:"verified"`
	GhostMode     bool        `db:"ghost_mode"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

// CanAfford checks if the account has sufficient balance for an amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// ValidateAmount checks if an amount is valid (positive and affordable)
func (a *Account) ValidateAmount(amount int64) error {
	if amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !a.CanAfford(amount) {
		return errors.New("insufficient balance")
	}
	return nil
}

// CalculateNewBalance calculates what the balance would be after a change
func (a *Account) CalculateNewBalance(changeAmount int64) int64 {
	return a.Balance + changeAmount
}

// PublicName returns the name to show in public projections such as the
// live bet feed, honoring the account's ghost mode flag.
func (a *Account) PublicName() string {
	if a.GhostMode {
		return "Hidden"
	}
	return a.DisplayName
}
