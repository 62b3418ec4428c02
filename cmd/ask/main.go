package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/riskibarqy/football-stats/internal/app"
	"github.com/riskibarqy/football-stats/internal/config"
	"github.com/riskibarqy/football-stats/internal/domain/nlquery"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, `usage: ask "<question about football players>"`)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	// stdout carries the answer only.
	logger := logging.NewConsole(cfg.LogLevel, os.Stderr)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Error("close app", "error", err)
		}
	}()

	answer, err := container.Questions.Answer(ctx, question)
	if err != nil {
		if answer.SQL != "" {
			fmt.Fprintf(os.Stderr, "sql: %s\n", answer.SQL)
		}
		var failure *nlquery.Failure
		if errors.As(err, &failure) {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", failure.Stage, failure.Err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	logger.Debug("answered question", "invocation_id", answer.InvocationID, "sql", answer.SQL, "rows", answer.RowCount)
	fmt.Fprintln(os.Stdout, answer.Text)
	return 0
}
