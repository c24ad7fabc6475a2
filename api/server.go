package api

import (
	"context"
	"net/http"
	"time"

	"nayaplay/config"
	"nayaplay/database"
	"nayaplay/events"
	"nayaplay/games"
	"nayaplay/monitoring"
	"nayaplay/service"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Server hosts the HTTP API
type Server struct {
	httpServer *http.Server
}

// Services bundles everything the router needs
type Services struct {
	Accounts    service.AccountService
	Settlements service.SettlementService
	Mines       service.MinesService
	Transfers   service.TransferService
	Wallet      service.WalletService
	Feed        *service.FeedService
	Seeds       *games.SeedManager
	Gateway     PaymentGateway
}

// NewServer builds the router and wires every handler
func NewServer(cfg *config.Config, db *database.DB, bus *events.Bus, svcs Services) *Server {
	r := chi.NewRouter()

	r.Use(monitoring.Middleware)
	r.Use(requestLogging)

	accountHandler := NewAccountHandler(svcs.Accounts)
	betHandler := NewBetHandler(svcs.Settlements)
	minesHandler := NewMinesHandler(svcs.Mines)
	transferHandler := NewTransferHandler(svcs.Transfers)
	walletHandler := NewWalletHandler(svcs.Wallet, svcs.Gateway, cfg.WebhookSecret)
	feedHandler := NewFeedHandler(svcs.Feed, svcs.Seeds)
	adminHandler := NewAdminHandler(svcs.Seeds, bus, svcs.Accounts, svcs.Settlements)
	hub := NewFeedHub(bus)

	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", handleReadyz(db))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", hub.HandleWS)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Get("/feed", feedHandler.HandleGetFeed)
		r.Get("/fairness/seed", feedHandler.HandleGetSeedHash)
		r.Post("/webhooks/payment", walletHandler.HandlePaymentWebhook)

		// Player endpoints, identified by the X-Account-Ref header
		r.Group(func(r chi.Router) {
			r.Use(accountMiddleware(svcs.Accounts))

			r.Route("/account", func(r chi.Router) {
				r.Get("/", accountHandler.HandleGetAccount)
				r.Put("/preferences", accountHandler.HandleUpdatePreferences)
				r.Get("/history", accountHandler.HandleGetBalanceHistory)
				r.Get("/stats", accountHandler.HandleGetWagerStats)
				r.Get("/wagers", accountHandler.HandleGetWagers)
				r.Get("/wagers/{ref}", accountHandler.HandleGetWager)
				r.Get("/transfers", accountHandler.HandleGetTransfers)
			})

			r.Post("/bets/{game}", betHandler.HandlePlaceBet)

			r.Route("/mines", func(r chi.Router) {
				r.Post("/start", minesHandler.HandleStartRound)
				r.Post("/reveal", minesHandler.HandleReveal)
				r.Post("/cashout", minesHandler.HandleCashout)
				r.Get("/active", minesHandler.HandleGetActiveRound)
			})

			r.Post("/transfers", transferHandler.HandleTransfer)
			r.Post("/deposits", walletHandler.HandleCreateDeposit)
			r.Post("/withdrawals", walletHandler.HandleRequestWithdrawal)
		})

		// Operator endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuth(cfg.AdminAPIKey))

			r.Get("/wagers", adminHandler.HandleGetRecentWagers)
			r.Get("/withdrawals", walletHandler.HandleGetPendingWithdrawals)
			r.Post("/withdrawals/{ref}/review", walletHandler.HandleReviewWithdrawal)
			r.Post("/fairness/rotate", adminHandler.HandleRotateSeed)
			r.Post("/accounts/{ref}/reconcile", adminHandler.HandleReconcileAccount)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler returns the root handler, used by tests to serve requests without
// binding a listener
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server and blocks until it stops
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP server starting")
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
