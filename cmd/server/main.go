package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/pdfsum/internal/api"
	"github.com/dgallion1/pdfsum/internal/config"
	"github.com/dgallion1/pdfsum/internal/pipeline"
	"github.com/dgallion1/pdfsum/internal/summarize"
	"github.com/dgallion1/pdfsum/internal/tool"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the tool. A backend that fails to build leaves the tool
	// running in its "not loaded" state.
	stats := summarize.NewCallStats(cfg.LLMStatsWindow)
	t := tool.New(cfg.BackendFactory(stats), cfg.SummaryModel,
		tool.WithLogger(log.With("component", "tool", "backend", cfg.SummaryBackend)),
		tool.WithParserOptions(cfg.Parser()),
		tool.WithDefaults(cfg.Defaults()),
	)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, t, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(t, orch, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Stop accepting requests before the job queue closes.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}

		orch.Stop()
		t.Close()
	}()

	log.Info("starting pdfsum", "port", cfg.Port, "backend", cfg.SummaryBackend, "model", cfg.SummaryModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
