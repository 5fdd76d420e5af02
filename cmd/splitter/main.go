// Command splitter is the interactive expense splitter.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmynk/splitledger/internal/app"
	"github.com/mmynk/splitledger/internal/cli"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/sinks"
	"github.com/mmynk/splitledger/pkg/logging"
)

func main() {
	if err := cli.LoadEnvFile(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load .env:", err)
		os.Exit(1)
	}

	cfg := config.Load()
	// Keep the menu readable: only warnings and errors by default
	logging.SetupWithLevel(logging.ParseLevel(os.Getenv("LOG_LEVEL"), slog.LevelWarn))

	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	sinkSet, err := sinks.Open(cfg, slog.Default())
	if err != nil {
		slog.Error("Failed to open sinks", "error", err)
		os.Exit(1)
	}

	opts := append(sinkSet.Options(), app.WithLogger(slog.Default().With("component", "ledger")))
	state := app.New(opts...)
	err = cli.NewUI(state, os.Stdin, os.Stdout).Run(context.Background())
	state.Close()

	if cerr := sinkSet.Close(); cerr != nil {
		slog.Warn("Failed to close sinks", "error", cerr)
	}
	if err != nil {
		slog.Error("Splitter failed", "error", err)
		os.Exit(1)
	}
}
