package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"nayaplay/cmd"
	"nayaplay/config"
	"nayaplay/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Missing .env is fine, the environment may be set directly
	_ = godotenv.Load()

	log.SetFormatter(&log.JSONFormatter{})
	if os.Getenv("LOG_LEVEL") == "debug" {
		log.SetLevel(log.DebugLevel)
	}

	// Migration subcommand for running the schema apart from the server
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := database.Migrate(config.Get().DatabaseURL); err != nil {
			log.WithError(err).Fatal("Migration failed")
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.WithError(err).Fatal("Application error")
	}
}
