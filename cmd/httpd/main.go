package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ioozy/scamwatch/internal/bootstrap"
	"github.com/ioozy/scamwatch/internal/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Missing .env is fine; real environments set vars directly.
	_ = godotenv.Load()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		os.Stderr.WriteString("create logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting HTTP server",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.Bool("fallback_enabled", cfg.Fallback.Enabled),
		logger.Bool("audit_enabled", cfg.Database.Enabled),
	)

	components, err := bootstrap.NewHTTPComponents(cfg, log)
	if err != nil {
		log.Error("bootstrap failed", logger.Error(err))
		os.Exit(1)
	}
	defer components.Close()

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- components.Server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	case sig := <-shutdown:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := components.Server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", logger.Error(err))
			os.Exit(1)
		}
		log.Info("server stopped gracefully")
	}
}
