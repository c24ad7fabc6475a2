package api

import (
	"net/http"

	"nayaplay/models"
	"nayaplay/service"
)

// MinesHandler exposes the multi-step mines round endpoints
type MinesHandler struct {
	mines service.MinesService
}

func NewMinesHandler(mines service.MinesService) *MinesHandler {
	return &MinesHandler{mines: mines}
}

// MinesRoundResponse is the public projection of a round. Mine positions are
// only included once the round has settled.
type MinesRoundResponse struct {
	Ref       string `json:"ref"`
	Stake     int64  `json:"stake"`
	MineCount int    `json:"mine_count"`
	SeedHash  string `json:"seed_hash"`
	Revealed  []int  `json:"revealed"`
	State     string `json:"state"`
	MineCells []int  `json:"mine_cells,omitempty"`
}

func toMinesRoundResponse(round *models.MinesRound) MinesRoundResponse {
	resp := MinesRoundResponse{
		Ref:       round.Ref,
		Stake:     round.Stake,
		MineCount: round.MineCount,
		SeedHash:  round.SeedHash,
		Revealed:  round.Revealed,
		State:     string(round.State),
	}
	if resp.Revealed == nil {
		resp.Revealed = []int{}
	}
	if !round.IsActive() {
		resp.MineCells = round.MineCells
	}
	return resp
}

// StartMinesRequest opens a new round
type StartMinesRequest struct {
	Stake     int64 `json:"stake" validate:"required,gt=0"`
	MineCount int   `json:"mine_count" validate:"required,min=1,max=24"`
}

// HandleStartRound handles POST /mines/start
func (h *MinesHandler) HandleStartRound(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	var req StartMinesRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}

	round, err := h.mines.StartRound(r.Context(), account.ID, req.Stake, req.MineCount)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toMinesRoundResponse(round))
}

// RevealRequest uncovers a single cell
type RevealRequest struct {
	Cell *int `json:"cell" validate:"required,min=0,max=24"`
}

// RevealResponse is the outcome of one reveal
type RevealResponse struct {
	Round      MinesRoundResponse  `json:"round"`
	Cell       int                 `json:"cell"`
	Mine       bool                `json:"mine"`
	Multiplier float64             `json:"multiplier"`
	Settlement *SettlementResponse `json:"settlement,omitempty"`
}

// HandleReveal handles POST /mines/reveal
func (h *MinesHandler) HandleReveal(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	var req RevealRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}

	result, err := h.mines.Reveal(r.Context(), account.ID, *req.Cell)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := RevealResponse{
		Round:      toMinesRoundResponse(result.Round),
		Cell:       result.Cell,
		Mine:       result.Mine,
		Multiplier: result.Multiplier,
	}
	if result.Settlement != nil {
		settlement := toSettlementResponse(result.Settlement)
		resp.Settlement = &settlement
	}
	respondJSON(w, http.StatusOK, resp)
}

// HandleCashout handles POST /mines/cashout
func (h *MinesHandler) HandleCashout(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	result, err := h.mines.Cashout(r.Context(), account.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toSettlementResponse(result))
}

// HandleGetActiveRound handles GET /mines/active
func (h *MinesHandler) HandleGetActiveRound(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	round, err := h.mines.GetActiveRound(r.Context(), account.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if round == nil {
		respondError(w, http.StatusNotFound, "no active mines round")
		return
	}

	respondJSON(w, http.StatusOK, toMinesRoundResponse(round))
}
