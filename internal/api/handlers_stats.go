package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"backend":      s.cfg.SummaryBackend,
		"model":        s.tool.Model(),
		"model_loaded": s.tool.Loaded(),
		"queue_depth":  s.orchestrator.QueueDepth(),
		"stats":        s.stats.Snapshot(),
	})
}
