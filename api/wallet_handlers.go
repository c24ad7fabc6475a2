package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"nayaplay/gateway"
	"nayaplay/models"
	"nayaplay/service"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

// PaymentGateway is the slice of the gateway client the wallet endpoints use
type PaymentGateway interface {
	CreateInvoice(ctx context.Context, accountRef string, amount int64) (*gateway.Invoice, error)
	RequestPayout(ctx context.Context, payout gateway.PayoutRequest) error
}

// WalletHandler exposes deposit and withdrawal endpoints
type WalletHandler struct {
	wallet        service.WalletService
	gateway       PaymentGateway
	webhookSecret string
}

func NewWalletHandler(wallet service.WalletService, gw PaymentGateway, webhookSecret string) *WalletHandler {
	return &WalletHandler{wallet: wallet, gateway: gw, webhookSecret: webhookSecret}
}

// DepositRequest opens a deposit invoice at the payment gateway
type DepositRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// HandleCreateDeposit handles POST /deposits. The balance is only credited
// once the gateway confirms payment through the webhook.
func (h *WalletHandler) HandleCreateDeposit(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	var req DepositRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}

	invoice, err := h.gateway.CreateInvoice(r.Context(), account.Ref, req.Amount)
	if err != nil {
		log.WithError(err).Error("Failed to create deposit invoice")
		respondError(w, http.StatusBadGateway, "payment gateway unavailable")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"invoice_id":  invoice.ID,
		"payment_url": invoice.PaymentURL,
		"amount":      invoice.Amount,
	})
}

// WithdrawalResponse is the public projection of a withdrawal
type WithdrawalResponse struct {
	Ref        string     `json:"ref"`
	Amount     int64      `json:"amount"`
	Address    string     `json:"address"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func toWithdrawalResponse(withdrawal *models.Withdrawal) WithdrawalResponse {
	return WithdrawalResponse{
		Ref:        withdrawal.Ref,
		Amount:     withdrawal.Amount,
		Address:    withdrawal.Address,
		Status:     string(withdrawal.Status),
		CreatedAt:  withdrawal.CreatedAt,
		ResolvedAt: withdrawal.ResolvedAt,
	}
}

// WithdrawalRequest opens a pending withdrawal
type WithdrawalRequest struct {
	Amount  int64  `json:"amount" validate:"required,gt=0"`
	Address string `json:"address" validate:"required,min=1,max=256"`
}

// HandleRequestWithdrawal handles POST /withdrawals
func (h *WalletHandler) HandleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	var req WithdrawalRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}

	withdrawal, err := h.wallet.RequestWithdrawal(r.Context(), account.ID, req.Amount, req.Address)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toWithdrawalResponse(withdrawal))
}

// HandleGetPendingWithdrawals handles GET /admin/withdrawals
func (h *WalletHandler) HandleGetPendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.wallet.GetPendingWithdrawals(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]WithdrawalResponse, 0, len(withdrawals))
	for _, withdrawal := range withdrawals {
		out = append(out, toWithdrawalResponse(withdrawal))
	}
	respondJSON(w, http.StatusOK, out)
}

// ReviewWithdrawalRequest resolves a pending withdrawal
type ReviewWithdrawalRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

// HandleReviewWithdrawal handles POST /admin/withdrawals/{ref}/review
func (h *WalletHandler) HandleReviewWithdrawal(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	var req ReviewWithdrawalRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}

	withdrawal, err := h.wallet.ReviewWithdrawal(r.Context(), ref, *req.Approve)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	// Hand approved withdrawals to the gateway for execution. A payout
	// failure does not undo the review; the operator retries from the
	// gateway side.
	if withdrawal.Status == models.WithdrawalStatusApproved {
		err := h.gateway.RequestPayout(r.Context(), gateway.PayoutRequest{
			WithdrawalRef: withdrawal.Ref,
			Address:       withdrawal.Address,
			Amount:        withdrawal.Amount,
		})
		if err != nil {
			log.WithError(err).WithField("withdrawalRef", withdrawal.Ref).Error("Payout request failed")
		}
	}

	respondJSON(w, http.StatusOK, toWithdrawalResponse(withdrawal))
}

// paymentWebhookPayload is the gateway's deposit confirmation
type paymentWebhookPayload struct {
	AccountRef string `json:"account_ref" validate:"required,uuid"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	Reference  string `json:"reference" validate:"required"`
}

// HandlePaymentWebhook handles POST /webhooks/payment. The body is
// authenticated with an HMAC-SHA256 signature over the raw payload.
func (h *WalletHandler) HandlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	if !h.verifySignature(body, r.Header.Get("X-Webhook-Signature")) {
		log.Warn("Payment webhook with bad signature rejected")
		respondError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var payload paymentWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := getValidator().Struct(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  "invalid request",
			Fields: formatValidationError(err),
		})
		return
	}

	account, err := h.wallet.CreditDeposit(r.Context(), payload.AccountRef, payload.Amount, payload.Reference)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.WithFields(log.Fields{
		"accountRef": payload.AccountRef,
		"amount":     payload.Amount,
		"reference":  payload.Reference,
	}).Info("Deposit credited")

	respondJSON(w, http.StatusOK, map[string]any{
		"status":      "credited",
		"new_balance": account.Balance,
	})
}

func (h *WalletHandler) verifySignature(body []byte, signature string) bool {
	if h.webhookSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
