package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/football-stats/internal/app"
	"github.com/riskibarqy/football-stats/internal/config"
	"github.com/riskibarqy/football-stats/internal/interfaces/mcpserver"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// stdout is the protocol channel.
	logger := logging.NewConsole(cfg.LogLevel, os.Stderr).Named("mcp")
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Error("close app", "error", err)
		}
	}()

	srv := mcpserver.New(mcpserver.Deps{
		Questions: container.Questions,
		Players:   container.Players,
		Schema:    container.Schema,
		Logger:    logger,
		Version:   cfg.ServiceVersion,
	})
	if err := srv.ServeStdio(); err != nil {
		logger.Error("mcp server stopped", "error", err)
	}
}
