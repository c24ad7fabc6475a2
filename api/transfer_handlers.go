package api

import (
	"net/http"

	"nayaplay/service"
)

// TransferHandler exposes the agent transfer endpoint
type TransferHandler struct {
	transfers service.TransferService
}

func NewTransferHandler(transfers service.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// TransferRequest moves funds to another account by its ref
type TransferRequest struct {
	ToRef  string `json:"to_ref" validate:"required,uuid"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

// HandleTransfer handles POST /transfers
func (h *TransferHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	var req TransferRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}

	result, err := h.transfers.Transfer(r.Context(), account.ID, req.ToRef, req.Amount)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"transfer_ref":   result.Ref,
		"amount":         result.Amount,
		"recipient_name": result.RecipientName,
		"new_balance":    result.NewBalance,
	})
}
