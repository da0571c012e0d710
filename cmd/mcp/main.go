package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/pdfsum/internal/config"
	"github.com/dgallion1/pdfsum/internal/mcpserver"
	"github.com/dgallion1/pdfsum/internal/tool"
)

func main() {
	// stdout carries the protocol; logs go to stderr.
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg := config.Load()
	if err := cfg.ValidateSummary(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t := tool.New(cfg.BackendFactory(nil), cfg.SummaryModel,
		tool.WithLogger(log.With("component", "tool", "backend", cfg.SummaryBackend)),
		tool.WithParserOptions(cfg.Parser()),
		tool.WithDefaults(cfg.Defaults()),
	)
	defer t.Close()

	log.Info("starting pdfsum mcp server", "backend", cfg.SummaryBackend, "model", cfg.SummaryModel)
	if err := mcpserver.Run(ctx, t, log); err != nil && ctx.Err() == nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
