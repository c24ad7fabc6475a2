package games

import "errors"

// WheelSegment is one discrete segment on the wheel. Selection probability is
// weight / total weight for the tier.
type WheelSegment struct {
	Value  float64 `json:"value"`
	Weight int     `json:"weight"`
}

// WheelSegments maps each risk tier to its segment layout. The zero-value
// segment carries the largest weight in every tier; the house edge is encoded
// in the value/weight combinations.
var WheelSegments = map[RiskTier][]WheelSegment{
	RiskLow: {
		{Value: 0, Weight: 40},
		{Value: 1.2, Weight: 35},
		{Value: 1.8, Weight: 15},
		{Value: 2.8, Weight: 10},
	},
	RiskMedium: {
		{Value: 0, Weight: 58},
		{Value: 1.5, Weight: 24},
		{Value: 3.0, Weight: 12},
		{Value: 4.0, Weight: 6},
	},
	RiskHigh: {
		{Value: 0, Weight: 90},
		{Value: 5.0, Weight: 5},
		{Value: 10.0, Weight: 3},
		{Value: 20.0, Weight: 2},
	},
}

// WheelParams are the player-chosen parameters for a wheel wager
type WheelParams struct {
	Risk RiskTier `json:"risk"`
}

// Validate checks the parameters before any ledger mutation
func (p WheelParams) Validate() error {
	if !p.Risk.IsValid() {
		return errors.New("risk tier must be low, medium or high")
	}
	return nil
}

// WheelResult is the evaluated outcome of a wheel wager
type WheelResult struct {
	SegmentIndex int
	Value        float64
	Won          bool
}

// EvaluateWheel selects a segment by cumulative weight from one float
func EvaluateWheel(p WheelParams, f float64) WheelResult {
	segments := WheelSegments[p.Risk]

	total := 0
	for _, s := range segments {
		total += s.Weight
	}

	// f in [0,1) scaled over the total weight lands in exactly one segment
	point := f * float64(total)
	cumulative := 0.0
	for i, s := range segments {
		cumulative += float64(s.Weight)
		if point < cumulative {
			return WheelResult{SegmentIndex: i, Value: s.Value, Won: s.Value > 0}
		}
	}

	// Unreachable for f < 1; keep the last segment as a safe fallback.
	last := len(segments) - 1
	return WheelResult{SegmentIndex: last, Value: segments[last].Value, Won: segments[last].Value > 0}
}
