package api

import (
	"encoding/json"
	"net/http"

	"nayaplay/models"
	"nayaplay/service"

	"github.com/go-chi/chi/v5"
)

// BetHandler exposes the single-shot wager settlement endpoint
type BetHandler struct {
	settlements service.SettlementService
}

func NewBetHandler(settlements service.SettlementService) *BetHandler {
	return &BetHandler{settlements: settlements}
}

// PlaceBetRequest carries the stake and the raw game parameters. The params
// payload is validated by the game rule module, not here.
type PlaceBetRequest struct {
	Stake  int64           `json:"stake" validate:"required,gt=0"`
	Params json.RawMessage `json:"params" validate:"required"`
}

// SettlementResponse is the settled wager as returned to the player
type SettlementResponse struct {
	WagerRef   string         `json:"wager_ref"`
	Game       string         `json:"game"`
	Won        bool           `json:"won"`
	Stake      int64          `json:"stake"`
	Multiplier float64        `json:"multiplier"`
	Payout     int64          `json:"payout"`
	Outcome    map[string]any `json:"outcome"`
	NewBalance int64          `json:"new_balance"`
}

func toSettlementResponse(result *models.SettlementResult) SettlementResponse {
	return SettlementResponse{
		WagerRef:   result.WagerRef,
		Game:       string(result.Game),
		Won:        result.Won,
		Stake:      result.Stake,
		Multiplier: result.Multiplier,
		Payout:     result.Payout,
		Outcome:    result.Outcome,
		NewBalance: result.NewBalance,
	}
}

// HandlePlaceBet handles POST /bets/{game}
func (h *BetHandler) HandlePlaceBet(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	game := models.Game(chi.URLParam(r, "game"))
	if !game.IsValid() {
		respondError(w, http.StatusNotFound, "unknown game")
		return
	}

	var req PlaceBetRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}

	result, err := h.settlements.PlaceBet(r.Context(), account.ID, game, req.Stake, req.Params)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toSettlementResponse(result))
}
