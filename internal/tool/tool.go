// Package tool reads documents and summarizes them chunk by chunk. Results
// and failures share one string channel: failures are messages carrying one
// of the prefixes recognized by IsErrorResult.
package tool

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/pdfsum/internal/chunker"
	"github.com/dgallion1/pdfsum/internal/parser"
	"github.com/dgallion1/pdfsum/internal/summarize"
)

const (
	name        = "pdf_reader_tool"
	description = "A tool for reading and summarizing PDF files."

	// NotLoaded is returned by Summarize when no backend could be built.
	NotLoaded = "Summarization model is not loaded."
	// NoPath is returned by Run for an empty path.
	NoPath = "Error: No file path provided."

	readPrefix      = "Error reading "
	summarizePrefix = "Error summarizing PDF file: "
)

// BackendFactory builds the summarization backend for a model id.
type BackendFactory func(model string) (summarize.Backend, error)

// Extractor returns the full text of the document at path.
type Extractor func(path string) (string, error)

// Tool is safe for concurrent use once constructed.
type Tool struct {
	backend   summarize.Backend
	model     string
	extract   Extractor
	parseOpts parser.Options
	defaults  Params
	log       *slog.Logger
}

type Option func(*Tool)

func WithLogger(log *slog.Logger) Option {
	return func(t *Tool) { t.log = log }
}

// WithExtractor replaces file-based extraction.
func WithExtractor(fn Extractor) Option {
	return func(t *Tool) { t.extract = fn }
}

func WithParserOptions(opts parser.Options) Option {
	return func(t *Tool) { t.parseOpts = opts }
}

// WithDefaults sets the parameters used by RunAsync.
func WithDefaults(p Params) Option {
	return func(t *Tool) { t.defaults = p }
}

// New builds a Tool, calling factory exactly once. A factory error is logged
// and leaves the tool without a backend; Summarize then reports NotLoaded.
func New(factory BackendFactory, model string, opts ...Option) *Tool {
	if model == "" {
		model = summarize.DefaultModel
	}
	t := &Tool{
		model:    model,
		defaults: DefaultParams(),
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(t)
	}
	if t.extract == nil {
		t.extract = func(path string) (string, error) {
			return parser.ExtractFile(path, t.parseOpts)
		}
	}

	if factory == nil {
		t.log.Error("no summarization backend factory", "model", model)
		return t
	}
	b, err := factory(model)
	if err != nil {
		t.log.Error("load summarization model", "model", model, "error", err)
		return t
	}
	t.backend = b
	t.log.Info("summarization model loaded", "model", b.Model())
	return t
}

func (t *Tool) Name() string { return name }

func (t *Tool) Description() string { return description }

// Loaded reports whether a backend is available.
func (t *Tool) Loaded() bool { return t.backend != nil }

// Model returns the model id the tool was configured with.
func (t *Tool) Model() string { return t.model }

// Defaults returns the parameters RunAsync uses.
func (t *Tool) Defaults() Params { return t.defaults }

// Close releases the backend.
func (t *Tool) Close() {
	if t.backend != nil {
		t.backend.Close()
	}
}

// ExtractText returns the document's text, pages concatenated in order with
// no separator, or a message starting with "Error reading <format> file".
func (t *Tool) ExtractText(path string) string {
	text, err := t.extract(path)
	if err != nil {
		return readError(path, err)
	}
	return text
}

// Summarize extracts the document, splits it into fixed-size chunks and
// joins the per-chunk summaries with single spaces in chunk order.
// Extraction failures are returned unchanged; any other failure is
// reported as "Error summarizing PDF file: <cause>".
func (t *Tool) Summarize(ctx context.Context, path string, p Params) (out string) {
	if t.backend == nil {
		return NotLoaded
	}
	defer t.recoverInto(&out, path)

	if err := p.Validate(); err != nil {
		return summarizePrefix + err.Error()
	}

	text, err := t.extract(path)
	if err != nil {
		return readError(path, err)
	}
	return t.SummarizeText(ctx, text, p)
}

// SummarizeText summarizes already extracted text the way Summarize does.
func (t *Tool) SummarizeText(ctx context.Context, text string, p Params) (out string) {
	if t.backend == nil {
		return NotLoaded
	}
	defer t.recoverInto(&out, "")

	if err := p.Validate(); err != nil {
		return summarizePrefix + err.Error()
	}

	summary, err := t.summarizeText(ctx, text, p)
	if err != nil {
		t.log.Warn("summarize failed", "error", err)
		return summarizePrefix + err.Error()
	}
	return summary
}

func (t *Tool) recoverInto(out *string, path string) {
	if r := recover(); r != nil {
		t.log.Error("summarize panic", "path", path, "panic", r)
		*out = summarizePrefix + fmt.Sprint(r)
	}
}

func (t *Tool) summarizeText(ctx context.Context, text string, p Params) (string, error) {
	chunks := chunker.Split(text, p.ChunkSize)
	opts := summarize.Options{MaxLength: p.MaxLength, MinLength: p.MinLength}

	summaries := make([]string, 0, len(chunks))
	for _, c := range chunks {
		s, err := t.backend.Summarize(ctx, c.Text, opts)
		if err != nil {
			return "", fmt.Errorf("chunk %d of %d: %w", c.Index+1, len(chunks), err)
		}
		summaries = append(summaries, s)
	}
	t.log.Debug("summarized", "chunks", len(chunks), "chars", len(text))
	return strings.Join(summaries, " "), nil
}

// Run returns the raw extracted text of path.
func (t *Tool) Run(path string) string {
	if path == "" {
		return NoPath
	}
	return t.ExtractText(path)
}

// RunAsync summarizes path with the default parameters. It blocks until the
// summary is ready.
func (t *Tool) RunAsync(ctx context.Context, path string) string {
	return t.Summarize(ctx, path, t.defaults)
}

// IsErrorResult reports whether s is a failure message from the tool.
func IsErrorResult(s string) bool {
	return s == NotLoaded || s == NoPath ||
		strings.HasPrefix(s, readPrefix) || strings.HasPrefix(s, summarizePrefix)
}

func readError(path string, err error) string {
	return fmt.Sprintf("%s%s file: %v", readPrefix, parser.FormatLabel(path), err)
}
