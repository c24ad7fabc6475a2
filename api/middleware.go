package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"nayaplay/models"
	"nayaplay/service"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const accountContextKey contextKey = "account"

// accountFromContext returns the authenticated account placed on the request
// context by accountMiddleware.
func accountFromContext(ctx context.Context) *models.Account {
	account, _ := ctx.Value(accountContextKey).(*models.Account)
	return account
}

// accountMiddleware resolves the caller's account from the X-Account-Ref
// header, creating it on first contact. X-Display-Name sets the public name
// for new accounts.
func accountMiddleware(accounts service.AccountService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ref := r.Header.Get("X-Account-Ref")
			if _, err := uuid.Parse(ref); err != nil {
				respondError(w, http.StatusUnauthorized, "missing or invalid X-Account-Ref header")
				return
			}

			displayName := strings.TrimSpace(r.Header.Get("X-Display-Name"))
			if displayName == "" {
				displayName = "player-" + ref[:8]
			}

			account, err := accounts.GetOrCreateAccount(r.Context(), ref, displayName)
			if err != nil {
				respondServiceError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), accountContextKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// adminAuth guards the admin routes with a static API key
func adminAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-API-Key")
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				respondError(w, http.StatusUnauthorized, "invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// requestLogging logs every request with method, path, status and duration.
// Health and metrics probes are skipped to keep the log readable.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("Request handled")
	})
}
