package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/pdfsum/internal/config"
	"github.com/dgallion1/pdfsum/internal/pdftest"
	"github.com/dgallion1/pdfsum/internal/summarize"
	"github.com/dgallion1/pdfsum/internal/tool"
)

type echoBackend struct{}

func (echoBackend) Summarize(_ context.Context, text string, _ summarize.Options) (string, error) {
	return "<" + strings.TrimSpace(text) + ">", nil
}
func (echoBackend) Model() string { return "echo" }
func (echoBackend) Close()        {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTool() *tool.Tool {
	return tool.New(func(string) (summarize.Backend, error) { return echoBackend{}, nil }, "", tool.WithLogger(testLogger()))
}

func waitDone(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		if snap.Status.Done() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job.ID)
	return JobSnapshot{}
}

func TestOrchestrator_SummarizesUpload(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour}
	orch := NewOrchestrator(cfg, newTestTool(), testLogger())
	orch.Start(context.Background())
	defer orch.Stop()

	job := NewJob("report.pdf", pdftest.Build("Quarterly results."), tool.Params{ChunkSize: 1000})
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	snap := waitDone(t, job)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (%s)", snap.Status, snap.Error)
	}
	if snap.Summary != "<Quarterly results.>" {
		t.Errorf("unexpected summary %q", snap.Summary)
	}
	if snap.TotalChunks != 1 {
		t.Errorf("expected 1 chunk, got %d", snap.TotalChunks)
	}
	if orch.GetJob(job.ID) != job {
		t.Error("expected job to be retrievable")
	}
}

func TestOrchestrator_ExtractionFailure(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 4, JobTTL: time.Hour}
	orch := NewOrchestrator(cfg, newTestTool(), testLogger())
	orch.Start(context.Background())
	defer orch.Stop()

	job := NewJob("broken.pdf", []byte("not a pdf"), tool.DefaultParams())
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	snap := waitDone(t, job)
	if snap.Status != StatusFailed || snap.Phase != "extracting" {
		t.Fatalf("expected failed extraction, got %q/%q", snap.Status, snap.Phase)
	}
	if !strings.HasPrefix(snap.Error, "Error reading PDF file") {
		t.Errorf("unexpected error %q", snap.Error)
	}
}

func TestOrchestrator_NotLoaded(t *testing.T) {
	unloaded := tool.New(nil, "", tool.WithLogger(testLogger()))
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 4, JobTTL: time.Hour}
	orch := NewOrchestrator(cfg, unloaded, testLogger())
	orch.Start(context.Background())
	defer orch.Stop()

	job := NewJob("report.pdf", pdftest.Build("Text."), tool.DefaultParams())
	orch.Submit(job)

	snap := waitDone(t, job)
	if snap.Status != StatusFailed || snap.Error != tool.NotLoaded {
		t.Errorf("expected not-loaded failure, got %q %q", snap.Status, snap.Error)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	orch := NewOrchestrator(cfg, newTestTool(), testLogger())

	first := NewJob("a.pdf", nil, tool.DefaultParams())
	second := NewJob("b.pdf", nil, tool.DefaultParams())
	if err := orch.Submit(first); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := orch.Submit(second); err == nil {
		t.Fatal("expected queue full error")
	}
	if snap := second.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("expected queue_full failure, got %q/%q", snap.Status, snap.Phase)
	}
	if orch.QueueDepth() != 1 {
		t.Errorf("expected depth 1, got %d", orch.QueueDepth())
	}
}

func TestSpoolFile(t *testing.T) {
	path, cleanup, err := SpoolFile([]byte("body"), "../../notes.md")
	if err != nil {
		t.Fatalf("spool: %v", err)
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("expected .md extension, got %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "body" {
		t.Errorf("unexpected spooled contents %q (%v)", data, err)
	}
	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected spooled file removed, got %v", err)
	}
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 4, JobTTL: time.Hour}
	orch := NewOrchestrator(cfg, newTestTool(), testLogger())
	orch.Start(context.Background())
	orch.Stop()

	job := NewJob("a.pdf", pdftest.Build("Late."), tool.DefaultParams())
	err := orch.Submit(job)
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if snap := job.Snapshot(); snap.Status != StatusFailed || snap.Phase != "shutdown" {
		t.Errorf("expected shutdown failure, got %q/%q", snap.Status, snap.Phase)
	}
	if orch.GetJob(job.ID) != job {
		t.Error("expected rejected job to stay visible to pollers")
	}

	// A second Stop must not close the queue again.
	orch.Stop()
}

func TestOrchestrator_StopFailsQueuedJobs(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 4, JobTTL: time.Hour}
	orch := NewOrchestrator(cfg, newTestTool(), testLogger())

	// Not started: nothing consumes the queue.
	jobs := []*Job{
		NewJob("a.pdf", nil, tool.DefaultParams()),
		NewJob("b.pdf", nil, tool.DefaultParams()),
	}
	for _, j := range jobs {
		if err := orch.Submit(j); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	orch.Stop()

	for _, j := range jobs {
		snap := j.Snapshot()
		if snap.Status != StatusFailed || snap.Phase != "shutdown" {
			t.Errorf("job %s: expected shutdown failure, got %q/%q", snap.Filename, snap.Status, snap.Phase)
		}
	}
	if orch.QueueDepth() != 0 {
		t.Errorf("expected drained queue, got depth %d", orch.QueueDepth())
	}
}
