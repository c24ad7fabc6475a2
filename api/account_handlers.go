package api

import (
	"net/http"
	"strconv"
	"time"

	"nayaplay/models"
	"nayaplay/service"

	"github.com/go-chi/chi/v5"
)

// AccountHandler exposes account state and preference endpoints
type AccountHandler struct {
	accounts service.AccountService
}

func NewAccountHandler(accounts service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// AccountResponse is the public projection of an account
type AccountResponse struct {
	Ref          string  `json:"ref"`
	DisplayName  string  `json:"display_name"`
	Role         string  `json:"role"`
	Balance      int64   `json:"balance"`
	TotalWagered int64   `json:"total_wagered"`
	ClientSeed   string  `json:"client_seed"`
	BetNonce     int64   `json:"bet_nonce"`
	GhostMode    bool    `json:"ghost_mode"`
	Verified     bool    `json:"verified"`
}

func toAccountResponse(account *models.Account) AccountResponse {
	return AccountResponse{
		Ref:          account.Ref,
		DisplayName:  account.DisplayName,
		Role:         string(account.Role),
		Balance:      account.Balance,
		TotalWagered: account.TotalWagered,
		ClientSeed:   account.ClientSeed,
		BetNonce:     account.BetNonce,
		GhostMode:    account.GhostMode,
		Verified:     account.Verified,
	}
}

// HandleGetAccount handles GET /account
func (h *AccountHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())
	respondJSON(w, http.StatusOK, toAccountResponse(account))
}

// UpdatePreferencesRequest carries optional preference changes; absent fields
// are left untouched.
type UpdatePreferencesRequest struct {
	GhostMode  *bool   `json:"ghost_mode"`
	ClientSeed *string `json:"client_seed" validate:"omitempty,min=1,max=128"`
}

// HandleUpdatePreferences handles PUT /account/preferences
func (h *AccountHandler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	var req UpdatePreferencesRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}

	updated, err := h.accounts.UpdatePreferences(r.Context(), account.ID, req.GhostMode, req.ClientSeed)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toAccountResponse(updated))
}

// HandleGetBalanceHistory handles GET /account/history. With from and to
// query parameters (RFC 3339) it returns the entries inside that range,
// without them the most recent entries up to the limit.
func (h *AccountHandler) HandleGetBalanceHistory(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())
	limit := parseLimit(r, 50, 200)

	var entries []*models.BalanceHistory
	var err error

	fromRaw, toRaw := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if fromRaw != "" || toRaw != "" {
		from, ferr := time.Parse(time.RFC3339, fromRaw)
		to, terr := time.Parse(time.RFC3339, toRaw)
		if ferr != nil || terr != nil {
			respondError(w, http.StatusBadRequest, "from and to must both be RFC 3339 timestamps")
			return
		}
		entries, err = h.accounts.GetBalanceHistoryRange(r.Context(), account.ID, from, to)
	} else {
		entries, err = h.accounts.GetBalanceHistory(r.Context(), account.ID, limit)
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	type entryResponse struct {
		BalanceBefore   int64          `json:"balance_before"`
		BalanceAfter    int64          `json:"balance_after"`
		ChangeAmount    int64          `json:"change_amount"`
		TransactionType string         `json:"transaction_type"`
		Description     string         `json:"description"`
		Metadata        map[string]any `json:"metadata,omitempty"`
		CreatedAt       string         `json:"created_at"`
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			BalanceBefore:   e.BalanceBefore,
			BalanceAfter:    e.BalanceAfter,
			ChangeAmount:    e.ChangeAmount,
			TransactionType: e.TransactionType.String(),
			Description:     e.Description(),
			Metadata:        e.TransactionMetadata,
			CreatedAt:       e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// WagerResponse is the public projection of a settled wager
type WagerResponse struct {
	Ref        string         `json:"ref"`
	Game       string         `json:"game"`
	Stake      int64          `json:"stake"`
	Params     map[string]any `json:"params"`
	Outcome    map[string]any `json:"outcome"`
	Multiplier float64        `json:"multiplier"`
	Payout     int64          `json:"payout"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

func toWagerResponse(wager *models.Wager) WagerResponse {
	return WagerResponse{
		Ref:        wager.Ref,
		Game:       string(wager.Game),
		Stake:      wager.Stake,
		Params:     wager.Params,
		Outcome:    wager.Outcome,
		Multiplier: wager.Multiplier,
		Payout:     wager.Payout,
		Status:     string(wager.Status),
		CreatedAt:  wager.CreatedAt,
	}
}

// HandleGetWagers handles GET /account/wagers
func (h *AccountHandler) HandleGetWagers(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())
	limit := parseLimit(r, 50, 200)

	wagers, err := h.accounts.GetWagers(r.Context(), account.ID, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]WagerResponse, 0, len(wagers))
	for _, wager := range wagers {
		out = append(out, toWagerResponse(wager))
	}
	respondJSON(w, http.StatusOK, out)
}

// HandleGetWager handles GET /account/wagers/{ref}
func (h *AccountHandler) HandleGetWager(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())
	ref := chi.URLParam(r, "ref")

	wager, err := h.accounts.GetWager(r.Context(), account.ID, ref)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toWagerResponse(wager))
}

// TransferListEntry is one transfer as seen from the requesting account
type TransferListEntry struct {
	Ref       string    `json:"ref"`
	Direction string    `json:"direction"` // "sent" or "received"
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// HandleGetTransfers handles GET /account/transfers
func (h *AccountHandler) HandleGetTransfers(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())
	limit := parseLimit(r, 50, 200)

	transfers, err := h.accounts.GetTransfers(r.Context(), account.ID, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]TransferListEntry, 0, len(transfers))
	for _, transfer := range transfers {
		direction := "received"
		if transfer.FromAccountID == account.ID {
			direction = "sent"
		}
		out = append(out, TransferListEntry{
			Ref:       transfer.Ref,
			Direction: direction,
			Amount:    transfer.Amount,
			Status:    string(transfer.Status),
			CreatedAt: transfer.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// HandleGetWagerStats handles GET /account/stats
func (h *AccountHandler) HandleGetWagerStats(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	stats, err := h.accounts.GetWagerStats(r.Context(), account.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"total_wagers":  stats.TotalWagers,
		"total_wagered": stats.TotalWagered,
		"total_payout":  stats.TotalPayout,
		"won_wagers":    stats.WonWagers,
		"lost_wagers":   stats.LostWagers,
		"biggest_win":   stats.BiggestWin,
		"net_result":    stats.NetResult(),
	})
}

// parseLimit reads the limit query parameter, clamped to [1, max]
func parseLimit(r *http.Request, fallback, max int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
