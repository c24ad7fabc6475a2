package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimboParams_Validate(t *testing.T) {
	assert.NoError(t, LimboParams{Target: 1.01}.Validate())
	assert.NoError(t, LimboParams{Target: 2.0}.Validate())
	assert.NoError(t, LimboParams{Target: 1_000_000}.Validate())
	assert.Error(t, LimboParams{Target: 1.0}.Validate())
	assert.Error(t, LimboParams{Target: 0}.Validate())
	assert.Error(t, LimboParams{Target: 1_000_001}.Validate())
}

func TestEvaluateLimbo_ResultFormula(t *testing.T) {
	// result = floor((1/f) * 0.99 * 100) / 100
	tests := []struct {
		f      float64
		result float64
	}{
		{f: 0.99, result: 1.0},
		{f: 0.5, result: 1.98},
		{f: 0.25, result: 3.96},
		{f: 0.1, result: 9.9},
		{f: 0.01, result: 99.0},
	}

	for _, tt := range tests {
		result := EvaluateLimbo(LimboParams{Target: 1.01}, tt.f)
		assert.InDelta(t, tt.result, result.Result, 1e-9, "f=%v", tt.f)
	}
}

func TestEvaluateLimbo_ResultBounds(t *testing.T) {
	// Large floats floor to below 1.0 before clamping
	low := EvaluateLimbo(LimboParams{Target: 1.01}, 0.9999)
	assert.Equal(t, 1.0, low.Result)
	assert.False(t, low.Won)

	// A zero float must not divide by zero and stays within the cap
	zero := EvaluateLimbo(LimboParams{Target: 2.0}, 0)
	assert.LessOrEqual(t, zero.Result, LimboMaxTarget)
	assert.GreaterOrEqual(t, zero.Result, 1.0)
}

func TestEvaluateLimbo_PayoutIsTargetExactly(t *testing.T) {
	// f=0.1 generates 9.9; the payout multiplier on a win is the target,
	// not the generated result.
	result := EvaluateLimbo(LimboParams{Target: 2.0}, 0.1)
	require.True(t, result.Won)
	assert.InDelta(t, 2.0, result.Multiplier, 1e-12)

	lost := EvaluateLimbo(LimboParams{Target: 50.0}, 0.1)
	require.False(t, lost.Won)
	assert.Zero(t, lost.Multiplier)
}

func TestEvaluateLimbo_WinBoundary(t *testing.T) {
	// f=0.5 generates exactly 1.98: a target of 1.98 wins, 1.99 loses
	assert.True(t, EvaluateLimbo(LimboParams{Target: 1.98}, 0.5).Won)
	assert.False(t, EvaluateLimbo(LimboParams{Target: 1.99}, 0.5).Won)
}
