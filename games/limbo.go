package games

import (
	"errors"
	"math"
)

// Limbo bounds and edge factor
const (
	LimboMinTarget = 1.01
	LimboMaxTarget = 1_000_000.0
	limboEdge      = 0.99 // 1% house edge folded into the generated result
)

// LimboParams are the player-chosen parameters for a limbo wager
type LimboParams struct {
	Target float64 `json:"target"`
}

// Validate checks the parameters before any ledger mutation
func (p LimboParams) Validate() error {
	if p.Target < LimboMinTarget || p.Target > LimboMaxTarget {
		return errors.New("limbo target must be between 1.01 and 1000000")
	}
	return nil
}

// LimboResult is the evaluated outcome of a limbo wager
type LimboResult struct {
	Result     float64
	Won        bool
	Multiplier float64
}

// EvaluateLimbo generates the house multiplier from one float and resolves
// the wager. The payout multiplier on a win is the player's target exactly,
// no matter how far the generated result exceeded it.
func EvaluateLimbo(p LimboParams, f float64) LimboResult {
	// Guard the open interval: a zero float would divide by zero.
	if f <= 0 {
		f = math.Nextafter(0, 1)
	}

	result := math.Floor((1/f)*limboEdge*100) / 100
	if result < 1.0 {
		result = 1.0
	}
	if result > LimboMaxTarget {
		result = LimboMaxTarget
	}

	won := result >= p.Target
	multiplier := 0.0
	if won {
		multiplier = p.Target
	}

	return LimboResult{
		Result:     result,
		Won:        won,
		Multiplier: multiplier,
	}
}
