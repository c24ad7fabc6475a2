package games

import "errors"

// Keno board constants: the player picks exactly 10 of 40 numbers and the
// house draws 10 without replacement.
const (
	KenoNumbers   = 40
	KenoPickCount = 10
	KenoDrawCount = 10
)

// RiskTier selects a paytable (keno) or segment layout (wheel)
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// IsValid reports whether the tier is one of the known tiers
func (r RiskTier) IsValid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// KenoPaytable maps tier -> match count (0-10) -> payout multiplier.
// Every tier pays zero on 0 or 1 matches; higher tiers trade win frequency
// for magnitude. The house edge is encoded in these values.
var KenoPaytable = map[RiskTier][KenoPickCount + 1]float64{
	RiskLow: {
		0, 0, 1.10, 1.30, 1.70, 2.50, 5.00, 15.00, 50.00, 250.00, 1000.00,
	},
	RiskMedium: {
		0, 0, 0, 2.00, 2.50, 5.00, 15.00, 100.00, 500.00, 800.00, 1000.00,
	},
	RiskHigh: {
		0, 0, 0, 0, 4.00, 11.00, 56.00, 500.00, 800.00, 1000.00, 5000.00,
	},
}

// KenoParams are the player-chosen parameters for a keno wager
type KenoParams struct {
	Picks []int    `json:"picks"`
	Risk  RiskTier `json:"risk"`
}

// Validate checks the parameters before any ledger mutation
func (p KenoParams) Validate() error {
	if !p.Risk.IsValid() {
		return errors.New("risk tier must be low, medium or high")
	}
	if len(p.Picks) != KenoPickCount {
		return errors.New("exactly 10 numbers must be picked")
	}
	seen := make(map[int]bool, len(p.Picks))
	for _, n := range p.Picks {
		if n < 0 || n >= KenoNumbers {
			return errors.New("picked numbers must be between 0 and 39")
		}
		if seen[n] {
			return errors.New("picked numbers must be distinct")
		}
		seen[n] = true
	}
	return nil
}

// KenoResult is the evaluated outcome of a keno wager
type KenoResult struct {
	Drawn      []int
	Matches    int
	Won        bool
	Multiplier float64
}

// DrawKenoNumbers draws the 10 winning numbers without replacement
func DrawKenoNumbers(serverSeed, clientSeed string, nonce int64) []int {
	return DrawWithoutReplacement(serverSeed, clientSeed, nonce, KenoNumbers, KenoDrawCount)
}

// EvaluateKeno counts matches between picks and the drawn numbers and looks
// up the payout multiplier in the tier's paytable.
func EvaluateKeno(p KenoParams, drawn []int) KenoResult {
	drawnSet := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		drawnSet[n] = true
	}

	matches := 0
	for _, n := range p.Picks {
		if drawnSet[n] {
			matches++
		}
	}

	multiplier := KenoPaytable[p.Risk][matches]
	return KenoResult{
		Drawn:      drawn,
		Matches:    matches,
		Won:        multiplier > 0,
		Multiplier: multiplier,
	}
}
