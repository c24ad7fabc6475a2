package models

import (
	"errors"
	"time"
)

// Game identifies a game rule module
type Game string

const (
	GameDice  Game = "dice"
	GameMines Game = "mines"
	GameKeno  Game = "keno"
	GameLimbo Game = "limbo"
	GameWheel Game = "wheel"
)

// IsValid reports whether the game identifier is known
func (g Game) IsValid() bool {
	switch g {
	case GameDice, GameMines, GameKeno, GameLimbo, GameWheel:
		return true
	}
	return false
}

// WagerStatus is the terminal status of a settled wager
type WagerStatus string

const (
	WagerStatusWon  WagerStatus = "won"
	WagerStatusLost WagerStatus = "lost"
)

// Wager represents a single settled wager. Rows are append-only: a wager is
// written exactly once, at settlement, and never mutated or deleted.
type Wager struct {
	ID               int64          `db:"id"`
	Ref              string         `db:"ref"` // external UUID
	AccountID        int64          `db:"account_id"`
	Game             Game           `db:"game"`
	Stake            int64          `db:"stake"`
	Params           map[string]any `db:"params"`  // game-specific player choices
	Outcome          map[string]any `db:"outcome"` // drawn values plus seed disclosure
	Multiplier       float64        `db:"multiplier"`
	Payout           int64          `db:"payout"`
	Status           WagerStatus    `db:"status"`
	BalanceHistoryID *int64         `db:"balance_history_id"`
	CreatedAt        time.Time      `db:"created_at"`
}

// NetProfit returns the net profit/loss from this wager
func (w *Wager) NetProfit() int64 {
	if w.Status == WagerStatusWon {
		return w.Payout - w.Stake
	}
	return -w.Stake
}

// Validate performs basic consistency checks before the wager is persisted
func (w *Wager) Validate() error {
	if w.Stake <= 0 {
		return errors.New("stake must be positive")
	}
	if !w.Game.IsValid() {
		return errors.New("unknown game")
	}
	if w.Multiplier < 0 {
		return errors.New("multiplier cannot be negative")
	}
	if w.Status == WagerStatusWon && w.Payout <= 0 {
		return errors.New("winning wager must have positive payout")
	}
	if w.Status == WagerStatusLost && w.Payout != 0 {
		return errors.New("lost wager must have zero payout")
	}
	return nil
}

// SettlementResult is the outcome of a settled wager as returned to the caller
type SettlementResult struct {
	WagerRef   string
	Game       Game
	Won        bool
	Stake      int64
	Multiplier float64
	Payout     int64
	Outcome    map[string]any
	NewBalance int64
}

// WagerStats holds aggregate wager statistics for an account
type WagerStats struct {
	TotalWagers  int64
	TotalWagered int64
	TotalPayout  int64
	WonWagers    int64
	LostWagers   int64
	BiggestWin   int64
}

// NetResult returns the account-perspective net over the counted wagers
func (s *WagerStats) NetResult() int64 {
	return s.TotalPayout - s.TotalWagered
}
