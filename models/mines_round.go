package models

import (
	"errors"
	"time"

	"nayaplay/games"
)

// MinesRoundState tracks the lifecycle of a mines round. The stake is debited
// when the round starts; the round settles as a lost wager on bust or a won
// wager on cashout. At most one active round may exist per account.
type MinesRoundState string

const (
	MinesRoundStateActive    MinesRoundState = "active"
	MinesRoundStateBusted    MinesRoundState = "busted"
	MinesRoundStateCashedOut MinesRoundState = "cashed_out"
)

// MinesRound represents a mines round in progress or settled
type MinesRound struct {
	ID         int64           `db:"id"`
	Ref        string          `db:"ref"` // external UUID
	AccountID  int64           `db:"account_id"`
	Stake      int64           `db:"stake"`
	MineCount  int             `db:"mine_count"`
	ServerSeed string          `db:"server_seed"`
	SeedHash   string          `db:"seed_hash"`
	ClientSeed string          `db:"client_seed"`
	Nonce      int64           `db:"nonce"`
	MineCells  []int           `db:"mine_cells"` // derived from seeds, kept for audit
	Revealed   []int           `db:"revealed"`
	State      MinesRoundState `db:"state"`
	CreatedAt  time.Time       `db:"created_at"`
	SettledAt  *time.Time      `db:"settled_at"`
}

// IsActive reports whether the round still accepts reveals or cashout
func (r *MinesRound) IsActive() bool {
	return r.State == MinesRoundStateActive
}

// SafeCells returns the number of non-mine cells on the grid
func (r *MinesRound) SafeCells() int {
	return games.MinesGridSize - r.MineCount
}

// IsRevealed reports whether the given cell was already revealed
func (r *MinesRound) IsRevealed(cell int) bool {
	for _, c := range r.Revealed {
		if c == cell {
			return true
		}
	}
	return false
}

// IsMine reports whether the given cell holds a mine
func (r *MinesRound) IsMine(cell int) bool {
	for _, c := range r.MineCells {
		if c == cell {
			return true
		}
	}
	return false
}

// CanReveal reports whether another reveal is permitted. The last safe cell is
// never revealable: the running multiplier is undefined there, so the player
// must cash out instead.
func (r *MinesRound) CanReveal() bool {
	return r.IsActive() && len(r.Revealed) < r.SafeCells()-1
}

// Validate performs basic validation on a round before persistence
func (r *MinesRound) Validate() error {
	if r.Stake <= 0 {
		return errors.New("stake must be positive")
	}
	if r.MineCount < games.MinesMinCount || r.MineCount > games.MinesMaxCount {
		return errors.New("mine count must be between 1 and 24")
	}
	if len(r.MineCells) != r.MineCount {
		return errors.New("mine cell count does not match mine count")
	}
	return nil
}
