package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/pdfsum/internal/parser"
	"github.com/dgallion1/pdfsum/internal/summarize"
	"github.com/dgallion1/pdfsum/internal/tool"
)

type Config struct {
	Port string

	// Auth
	PdfsumAPIKey string

	// Summarization backend
	SummaryBackend   string
	SummaryModel     string
	HFToken          string
	HFBaseURL        string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	BackendTimeout   time.Duration
	LLMStatsWindow   time.Duration

	// Summary defaults
	DefaultMaxLength int
	DefaultMinLength int
	DefaultChunkSize int

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		PdfsumAPIKey: os.Getenv("PDFSUM_API_KEY"),

		SummaryBackend:   strings.ToLower(envOr("SUMMARY_BACKEND", summarize.BackendHuggingFace)),
		SummaryModel:     envOr("SUMMARY_MODEL", summarize.DefaultModel),
		HFToken:          os.Getenv("HF_API_TOKEN"),
		HFBaseURL:        os.Getenv("HF_BASE_URL"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		BackendTimeout:   envDuration("BACKEND_TIMEOUT", 120*time.Second),
		LLMStatsWindow:   envDuration("LLM_STATS_WINDOW", 1*time.Hour),

		DefaultMaxLength: envInt("DEFAULT_MAX_LENGTH", 200),
		DefaultMinLength: envInt("DEFAULT_MIN_LENGTH", 50),
		DefaultChunkSize: envInt("DEFAULT_CHUNK_SIZE", 1000),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", false),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.DefaultChunkSize <= 0 {
		cfg.DefaultChunkSize = 1000
	}
	if cfg.BackendTimeout <= 0 {
		cfg.BackendTimeout = 120 * time.Second
	}
	if cfg.LLMStatsWindow <= 0 {
		cfg.LLMStatsWindow = 1 * time.Hour
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks everything the HTTP server needs.
func (c Config) Validate() error {
	if c.PdfsumAPIKey == "" {
		return fmt.Errorf("PDFSUM_API_KEY is required")
	}
	return c.ValidateSummary()
}

// ValidateSummary checks the settings shared by every entry point. Missing
// backend credentials are not an error here: the tool starts without a
// backend and reports it on each summarize call.
func (c Config) ValidateSummary() error {
	switch c.SummaryBackend {
	case summarize.BackendHuggingFace, summarize.BackendAnthropic, summarize.BackendOpenAI:
	default:
		return fmt.Errorf("SUMMARY_BACKEND must be one of huggingface, anthropic, openai; got %q", c.SummaryBackend)
	}
	if err := c.Defaults().Validate(); err != nil {
		return fmt.Errorf("summary defaults: %w", err)
	}
	return nil
}

// Backend returns the credentials and endpoints for summarize.NewBackend.
func (c Config) Backend() summarize.Config {
	return summarize.Config{
		HFToken:          c.HFToken,
		HFBaseURL:        c.HFBaseURL,
		AnthropicAPIKey:  c.AnthropicAPIKey,
		AnthropicBaseURL: c.AnthropicBaseURL,
		OpenAIAPIKey:     c.OpenAIAPIKey,
		OpenAIBaseURL:    c.OpenAIBaseURL,
		Timeout:          c.BackendTimeout,
	}
}

// BackendFactory builds the configured backend for a model id. When stats
// is non-nil every backend call is recorded in it.
func (c Config) BackendFactory(stats *summarize.CallStats) tool.BackendFactory {
	return func(model string) (summarize.Backend, error) {
		b, err := summarize.NewBackend(c.SummaryBackend, model, c.Backend())
		if err != nil {
			return nil, err
		}
		if stats == nil {
			return b, nil
		}
		return summarize.NewInstrumented(b, stats), nil
	}
}

// Defaults returns the summary parameters used when a caller gives none.
func (c Config) Defaults() tool.Params {
	return tool.Params{
		MaxLength: c.DefaultMaxLength,
		MinLength: c.DefaultMinLength,
		ChunkSize: c.DefaultChunkSize,
	}
}

func (c Config) Parser() parser.Options {
	return parser.Options{PDFFallbackPdftotext: c.PDFFallbackPdftotext}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
