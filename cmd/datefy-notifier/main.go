package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gustavotrrsenac/datefy/internal/config"
	"github.com/gustavotrrsenac/datefy/internal/notify"
	"github.com/gustavotrrsenac/datefy/internal/sheets"
	gsheet "github.com/gustavotrrsenac/datefy/internal/sheets/google"
	mem "github.com/gustavotrrsenac/datefy/internal/sheets/memory"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting datefy-notifier")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notifier")
		os.Exit(1)
	}

	// Ledger exports go to Google Sheets when configured, otherwise to
	// an in-memory sink that only logs.
	var exporter sheets.LedgerExporter
	if cfg.GoogleSpreadsheetID != "" {
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = cli
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		exporter = mem.New()
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, exports kept in memory")
	}

	client, err := notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handlers := notify.Handlers{
		// E-mail delivery is simulated; the notice is only logged.
		ResetSenha: func(ctx context.Context, msg *notify.ResetSenhaMessage) error {
			slog.InfoContext(ctx, "Simulated recovery e-mail sent", "email", msg.Email)
			return nil
		},
		ExportFinanca: func(ctx context.Context, msg *notify.ExportFinancaMessage) error {
			ref, err := exporter.Append(ctx, msg.Financa())
			if err != nil {
				return err
			}
			slog.InfoContext(ctx, "Ledger entry exported", "id", msg.ID, "row_ref", ref)
			return nil
		},
	}

	if err := client.Consume(ctx, handlers); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Notifier stopped gracefully")
}
