package games

import (
	"errors"
	"math"
)

// DiceDirection is the side of the threshold the player bets on
type DiceDirection string

const (
	DiceOver  DiceDirection = "over"
	DiceUnder DiceDirection = "under"
)

// Dice threshold bounds. Targets outside this range would allow win chances
// of 0 or 100 and are rejected.
const (
	DiceMinTarget = 2
	DiceMaxTarget = 98
)

// dicePayoutNumerator encodes the 1% structural house edge: a fair game would
// use 100.
const dicePayoutNumerator = 99.0

// DiceParams are the player-chosen parameters for a dice wager
type DiceParams struct {
	Target    int           `json:"target"`
	Direction DiceDirection `json:"direction"`
}

// Validate checks the parameters before any ledger mutation
func (p DiceParams) Validate() error {
	if p.Target < DiceMinTarget || p.Target > DiceMaxTarget {
		return errors.New("dice target must be between 2 and 98")
	}
	if p.Direction != DiceOver && p.Direction != DiceUnder {
		return errors.New("dice direction must be over or under")
	}
	return nil
}

// WinChance returns the number of winning rolls out of 100
func (p DiceParams) WinChance() int {
	if p.Direction == DiceOver {
		return 100 - p.Target
	}
	return p.Target
}

// DiceResult is the evaluated outcome of a dice wager
type DiceResult struct {
	Roll       int
	Won        bool
	Multiplier float64
}

// EvaluateDice maps one float from the outcome source to a roll in [0, 99]
// and resolves the wager. Multiplier = 99 / winChance regardless of outcome.
func EvaluateDice(p DiceParams, f float64) DiceResult {
	roll := int(math.Floor(f * 100))
	if roll > 99 {
		roll = 99
	}

	var won bool
	if p.Direction == DiceOver {
		won = roll >= p.Target
	} else {
		won = roll < p.Target
	}

	return DiceResult{
		Roll:       roll,
		Won:        won,
		Multiplier: dicePayoutNumerator / float64(p.WinChance()),
	}
}
