package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"nayaplay/api"
	"nayaplay/config"
	"nayaplay/database"
	"nayaplay/events"
	"nayaplay/games"
	"nayaplay/gateway"
	"nayaplay/monitoring"
	"nayaplay/repository"
	"nayaplay/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting settlement engine...")

	cfg := config.Get()

	log.Info("Applying schema migrations...")
	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	seeds, err := games.NewSeedManager()
	if err != nil {
		return fmt.Errorf("failed to initialize seed manager: %w", err)
	}
	log.WithField("seedHash", seeds.Hash()).Info("Server seed committed")

	accountService := service.NewAccountService(uowFactory)
	settlementService := service.NewSettlementService(uowFactory, seeds)
	minesService := service.NewMinesService(uowFactory, seeds)
	transferService := service.NewTransferService(uowFactory)
	walletService := service.NewWalletService(uowFactory)

	feedService := service.NewFeedService(cfg.FeedSize)
	feedService.Register(eventBus)
	monitoring.Register(eventBus)

	gatewayClient := gateway.New(cfg.GatewayURL, cfg.GatewayAPIKey, cfg.GatewayTimeout)

	server := api.NewServer(cfg, db, eventBus, api.Services{
		Accounts:    accountService,
		Settlements: settlementService,
		Mines:       minesService,
		Transfers:   transferService,
		Wallet:      walletService,
		Feed:        feedService,
		Seeds:       seeds,
		Gateway:     gatewayClient,
	})

	// Rotate the server seed on schedule, disclosing the outgoing seed
	go rotateSeedLoop(ctx, seeds, eventBus, cfg.SeedRotation)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	log.WithField("environment", cfg.Environment).Info("Settlement engine is running")

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown failed")
	}

	log.Info("Shutdown completed")
	return nil
}

// rotateSeedLoop checks the seed age periodically and rotates it once the
// configured interval passes. Each rotation publishes the disclosed seed.
func rotateSeedLoop(ctx context.Context, seeds *games.SeedManager, bus *events.Bus, interval time.Duration) {
	checkEvery := interval / 10
	if checkEvery > time.Minute {
		checkEvery = time.Minute
	}
	ticker := time.NewTicker(checkEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			disclosed, rotated, err := seeds.MaybeRotate(interval)
			if err != nil {
				log.WithError(err).Error("Scheduled seed rotation failed")
				continue
			}
			if rotated {
				log.WithField("newHash", seeds.Hash()).Info("Server seed rotated on schedule")
				bus.Emit(ctx, events.SeedRotatedEvent{
					DisclosedSeed: disclosed,
					NewHash:       seeds.Hash(),
				})
			}
		}
	}
}
