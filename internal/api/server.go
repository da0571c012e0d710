package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/pdfsum/internal/config"
	"github.com/dgallion1/pdfsum/internal/pipeline"
	"github.com/dgallion1/pdfsum/internal/summarize"
	"github.com/dgallion1/pdfsum/internal/tool"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for pdfsum.
type Server struct {
	router       chi.Router
	tool         *tool.Tool
	orchestrator *pipeline.Orchestrator
	stats        *summarize.CallStats
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil.
func NewServer(t *tool.Tool, orch *pipeline.Orchestrator, stats *summarize.CallStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		tool:         t,
		orchestrator: orch,
		stats:        stats,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.PdfsumAPIKey, s.log))

		r.Post("/api/extract", s.handleExtract)
		r.Post("/api/summarize", s.handleSummarize)
		r.Post("/api/summarize/jobs", s.handleSubmitJob)
		r.Get("/api/summarize/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":       "ok",
		"model_loaded": s.tool.Loaded(),
	})
}
