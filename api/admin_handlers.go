package api

import (
	"net/http"
	"time"

	"nayaplay/events"
	"nayaplay/games"
	"nayaplay/service"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

// AdminHandler exposes operator-only endpoints
type AdminHandler struct {
	seeds       *games.SeedManager
	bus         *events.Bus
	accounts    service.AccountService
	settlements service.SettlementService
}

func NewAdminHandler(seeds *games.SeedManager, bus *events.Bus, accounts service.AccountService, settlements service.SettlementService) *AdminHandler {
	return &AdminHandler{seeds: seeds, bus: bus, accounts: accounts, settlements: settlements}
}

// HandleRotateSeed handles POST /admin/fairness/rotate. The outgoing seed is
// disclosed in the response so players can verify past outcomes against the
// previously published hash.
func (h *AdminHandler) HandleRotateSeed(w http.ResponseWriter, r *http.Request) {
	disclosed, err := h.seeds.Rotate()
	if err != nil {
		log.WithError(err).Error("Seed rotation failed")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	newHash := h.seeds.Hash()
	h.bus.Emit(r.Context(), events.SeedRotatedEvent{
		DisclosedSeed: disclosed,
		NewHash:       newHash,
	})

	log.WithField("newHash", newHash).Info("Server seed rotated")

	respondJSON(w, http.StatusOK, map[string]string{
		"disclosed_seed": disclosed,
		"new_seed_hash":  newHash,
	})
}

// HandleGetRecentWagers handles GET /admin/wagers. Unlike the public feed
// this view is not anonymized, the operator sees the owning account IDs.
func (h *AdminHandler) HandleGetRecentWagers(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50, 500)

	wagers, err := h.settlements.RecentWagers(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	type adminWagerResponse struct {
		WagerResponse
		AccountID int64 `json:"account_id"`
	}

	out := make([]adminWagerResponse, 0, len(wagers))
	for _, wager := range wagers {
		out = append(out, adminWagerResponse{
			WagerResponse: toWagerResponse(wager),
			AccountID:     wager.AccountID,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// HandleReconcileAccount handles POST /admin/accounts/{ref}/reconcile. It
// replays the balance ledger against the stored balance and records a
// correcting entry on divergence.
func (h *AdminHandler) HandleReconcileAccount(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	account, err := h.accounts.GetAccount(r.Context(), ref)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	result, err := h.accounts.Reconcile(r.Context(), account.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"account_ref": ref,
		"balance":     result.Balance,
		"ledger_sum":  result.LedgerSum,
		"drift":       result.Drift,
		"corrected":   result.Corrected,
		"checked_at":  result.CheckedAt.Format(time.RFC3339),
	})
}
