package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinesParams_Validate(t *testing.T) {
	assert.NoError(t, MinesParams{MineCount: 1}.Validate())
	assert.NoError(t, MinesParams{MineCount: 24}.Validate())
	assert.Error(t, MinesParams{MineCount: 0}.Validate())
	assert.Error(t, MinesParams{MineCount: 25}.Validate())
	assert.Error(t, MinesParams{MineCount: -3}.Validate())
}

func TestMinesMultiplier_Formula(t *testing.T) {
	// multiplier(k) = (25 - M) / (25 - M - k)
	assert.InDelta(t, 1.0, MinesMultiplier(3, 0), 1e-12)
	assert.InDelta(t, 22.0/21.0, MinesMultiplier(3, 1), 1e-12)
	assert.InDelta(t, 22.0/17.0, MinesMultiplier(3, 5), 1e-12)
	assert.InDelta(t, 1.0/1.0*24.0/23.0, MinesMultiplier(1, 1), 1e-12)

	// One mine leaves 24 safe cells; after 23 reveals only one remains
	assert.InDelta(t, 24.0, MinesMultiplier(1, 23), 1e-12)

	// 24 mines leave a single safe cell with no defined reveal multiplier,
	// so the starting multiplier is all there is.
	assert.InDelta(t, 1.0, MinesMultiplier(24, 0), 1e-12)
}

func TestMinesMultiplier_StrictlyIncreasing(t *testing.T) {
	for mineCount := MinesMinCount; mineCount <= MinesMaxCount; mineCount++ {
		prev := MinesMultiplier(mineCount, 0)
		for k := 1; k <= MaxMinesReveals(mineCount); k++ {
			current := MinesMultiplier(mineCount, k)
			assert.Greater(t, current, prev,
				"multiplier must grow with each reveal (mines=%d, k=%d)", mineCount, k)
			prev = current
		}
	}
}

func TestMaxMinesReveals(t *testing.T) {
	// Reveals stop one short of clearing every safe cell so the running
	// multiplier stays finite.
	assert.Equal(t, 23, MaxMinesReveals(1))
	assert.Equal(t, 21, MaxMinesReveals(3))
	assert.Equal(t, 0, MaxMinesReveals(24))
}

func TestDrawMineCells(t *testing.T) {
	for mineCount := MinesMinCount; mineCount <= MinesMaxCount; mineCount++ {
		cells := DrawMineCells("server-seed", "client-seed", int64(mineCount), mineCount)
		require.Len(t, cells, mineCount)

		seen := make(map[int]bool)
		for _, c := range cells {
			assert.GreaterOrEqual(t, c, 0)
			assert.Less(t, c, MinesGridSize)
			assert.False(t, seen[c], "cell %d placed twice", c)
			seen[c] = true
		}
	}
}

func TestDrawMineCells_Deterministic(t *testing.T) {
	a := DrawMineCells("server-seed", "client-seed", 9, 5)
	b := DrawMineCells("server-seed", "client-seed", 9, 5)
	assert.Equal(t, a, b)

	c := DrawMineCells("server-seed", "client-seed", 10, 5)
	assert.NotEqual(t, a, c, "a different nonce must move the mines")
}
