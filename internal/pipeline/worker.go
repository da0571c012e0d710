package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/pdfsum/internal/chunker"
	"github.com/dgallion1/pdfsum/internal/tool"
)

// Summarizer is the part of tool.Tool a worker drives.
type Summarizer interface {
	Loaded() bool
	ExtractText(path string) string
	SummarizeText(ctx context.Context, text string, p tool.Params) string
}

// Worker processes a single document job.
type Worker struct {
	tool Summarizer
	log  *slog.Logger
}

func NewWorker(t Summarizer, log *slog.Logger) *Worker {
	return &Worker{tool: t, log: log}
}

// Process extracts and summarizes a job's upload.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if !w.tool.Loaded() {
		job.Fail("summarizing", tool.NotLoaded)
		return
	}

	path, cleanup, err := SpoolFile(job.FileData(), job.Filename)
	if err != nil {
		log.Error("spool upload", "error", err)
		job.Fail("extracting", fmt.Sprintf("spool upload: %s", err))
		return
	}
	defer cleanup()
	job.releaseFileData()

	// Phase 1: Extract
	job.SetStatus(StatusExtracting, "extracting")
	text := w.tool.ExtractText(path)
	if tool.IsErrorResult(text) {
		log.Warn("extraction failed", "error", text)
		job.Fail("extracting", text)
		return
	}
	chunks := chunker.Count(text, job.Params.ChunkSize)
	job.SetTotalChunks(chunks)
	log.Info("extracted document", "chars", len(text), "chunks", chunks)

	// Phase 2: Summarize
	job.SetStatus(StatusSummarizing, "summarizing")
	summary := w.tool.SummarizeText(ctx, text, job.Params)
	if tool.IsErrorResult(summary) {
		log.Warn("summarization failed", "error", summary)
		job.Fail("summarizing", summary)
		return
	}

	job.Complete(summary)
	log.Info("job complete", "summary_chars", len(summary))
}

// SpoolFile writes data to a temporary file that keeps filename's
// extension, so the parser picks the right format. cleanup removes it.
func SpoolFile(data []byte, filename string) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", "pdfsum-upload-*"+filepath.Ext(filepath.Base(filename)))
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup = func() { os.Remove(f.Name()) }

	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), cleanup, nil
}
