package games

import "errors"

// Mines grid constants
const (
	MinesGridSize = 25
	MinesMinCount = 1
	MinesMaxCount = 24
)

// MinesParams are the player-chosen parameters for a mines round
type MinesParams struct {
	MineCount int `json:"mine_count"`
}

// Validate checks the parameters before any ledger mutation
func (p MinesParams) Validate() error {
	if p.MineCount < MinesMinCount || p.MineCount > MinesMaxCount {
		return errors.New("mine count must be between 1 and 24")
	}
	return nil
}

// MinesMultiplier returns the running multiplier after `revealed` safe
// reveals with `mineCount` mines on the grid:
//
//	multiplier(k) = (25 - M) / (25 - M - k)
//
// The multiplier is strictly increasing in k and undefined at k = 25 - M, so
// callers must stop reveals one short of that point.
func MinesMultiplier(mineCount, revealed int) float64 {
	safe := MinesGridSize - mineCount
	return float64(safe) / float64(safe-revealed)
}

// MaxMinesReveals returns the largest number of reveals for which the running
// multiplier remains defined.
func MaxMinesReveals(mineCount int) int {
	return MinesGridSize - mineCount - 1
}

// DrawMineCells places mineCount mines uniformly on the grid from the seed
// material. Placement depends only on the committed seeds and nonce — never
// on the player's history or the platform's exposure.
func DrawMineCells(serverSeed, clientSeed string, nonce int64, mineCount int) []int {
	return DrawWithoutReplacement(serverSeed, clientSeed, nonce, MinesGridSize, mineCount)
}
