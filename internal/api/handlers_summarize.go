package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/pdfsum/internal/parser"
	"github.com/dgallion1/pdfsum/internal/pipeline"
	"github.com/dgallion1/pdfsum/internal/tool"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	path, cleanup, err := pipeline.SpoolFile(data, filename)
	if err != nil {
		s.log.Error("spool upload", "error", err)
		jsonError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	text := s.tool.ExtractText(path)
	if tool.IsErrorResult(text) {
		jsonError(w, text, http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": filename,
		"format":   parser.FormatLabel(filename),
		"chars":    len([]rune(text)),
		"text":     text,
	})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	params, err := s.parseParams(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	path, cleanup, err := pipeline.SpoolFile(data, filename)
	if err != nil {
		s.log.Error("spool upload", "error", err)
		jsonError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	summary := s.tool.Summarize(r.Context(), path, params)
	if tool.IsErrorResult(summary) {
		jsonError(w, summary, http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": filename,
		"model":    s.tool.Model(),
		"summary":  summary,
	})
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	params, err := s.parseParams(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(filename, data, params)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/summarize/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// readUpload reads the "file" form field. On failure it writes the error
// response and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (filename string, data []byte, ok bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	filename = sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return "", nil, false
	}

	data, err = io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return "", nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}
	return filename, data, true
}

// parseParams applies optional max_length, min_length and chunk_size form
// values over the configured defaults.
func (s *Server) parseParams(r *http.Request) (tool.Params, error) {
	p := s.tool.Defaults()
	fields := []struct {
		key string
		dst *int
	}{
		{"max_length", &p.MaxLength},
		{"min_length", &p.MinLength},
		{"chunk_size", &p.ChunkSize},
	}
	for _, f := range fields {
		v := r.FormValue(f.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("invalid %s: %q", f.key, v)
		}
		*f.dst = n
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	// With no separators left, only a bare dot entry can still traverse.
	if name == "" || name == "." || name == ".." {
		name = "unnamed"
	}
	return name
}
