package service

import "errors"

// Sentinel errors for the failure modes callers are expected to branch on.
// The API layer maps these onto HTTP status codes with errors.Is.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidParams       = errors.New("invalid wager parameters")
	ErrStakeOutOfRange     = errors.New("stake outside allowed limits")
	ErrWagerNotFound       = errors.New("wager not found")

	ErrActiveRoundExists = errors.New("an active mines round already exists")
	ErrNoActiveRound     = errors.New("no active mines round")
	ErrCellRevealed      = errors.New("cell already revealed")
	ErrRevealLimit       = errors.New("reveal limit reached, cash out to settle")
	ErrNothingRevealed   = errors.New("cash out requires at least one revealed cell")

	ErrTransferNotAllowed = errors.New("account may not initiate transfers")
	ErrSelfTransfer       = errors.New("cannot transfer to the same account")

	ErrWithdrawalNotFound   = errors.New("withdrawal not found")
	ErrWithdrawalNotPending = errors.New("withdrawal is not pending")
)
