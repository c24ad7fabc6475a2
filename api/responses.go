package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"nayaplay/service"

	log "github.com/sirupsen/logrus"
)

// ErrorResponse is the JSON body returned on any failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries per-field validation failures
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("Failed to encode JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps service sentinel errors onto HTTP status codes.
// Anything unrecognized is a 500 with a generic body; the real error only
// goes to the log.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := mapServiceError(err)
	if status == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("Request failed")
	}
	respondError(w, status, message)
}

func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, service.ErrWithdrawalNotFound):
		return http.StatusNotFound, "withdrawal not found"
	case errors.Is(err, service.ErrWagerNotFound):
		return http.StatusNotFound, "wager not found"
	case errors.Is(err, service.ErrNoActiveRound):
		return http.StatusNotFound, "no active mines round"
	case errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusConflict, "insufficient balance"
	case errors.Is(err, service.ErrActiveRoundExists):
		return http.StatusConflict, "an active mines round already exists"
	case errors.Is(err, service.ErrWithdrawalNotPending):
		return http.StatusConflict, "withdrawal is not pending"
	case errors.Is(err, service.ErrInvalidParams):
		return http.StatusBadRequest, "invalid wager parameters"
	case errors.Is(err, service.ErrStakeOutOfRange):
		return http.StatusBadRequest, "stake outside allowed limits"
	case errors.Is(err, service.ErrCellRevealed):
		return http.StatusBadRequest, "cell already revealed"
	case errors.Is(err, service.ErrRevealLimit):
		return http.StatusBadRequest, "reveal limit reached, cash out to settle"
	case errors.Is(err, service.ErrNothingRevealed):
		return http.StatusBadRequest, "cash out requires at least one revealed cell"
	case errors.Is(err, service.ErrSelfTransfer):
		return http.StatusBadRequest, "cannot transfer to the same account"
	case errors.Is(err, service.ErrTransferNotAllowed):
		return http.StatusForbidden, "account may not initiate transfers"
	}
	return http.StatusInternalServerError, "internal error"
}
