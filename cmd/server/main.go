package main

import (
	"context"
	"exypnos-finder/internal/app"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// main starts the HTTP API and blocks until SIGINT or SIGTERM.
func main() {
	cfg, logger, err := app.Bootstrap()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	srv, err := app.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx, srv, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
