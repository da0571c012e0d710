package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Backend produces an abstractive summary of one piece of text. Decoding is
// deterministic: identical input yields identical output.
type Backend interface {
	Summarize(ctx context.Context, text string, opts Options) (string, error)
	Model() string
	Close()
}

// Options bounds the length of a generated summary, in model tokens.
type Options struct {
	MaxLength int
	MinLength int
}

const (
	BackendHuggingFace = "huggingface"
	BackendAnthropic   = "anthropic"
	BackendOpenAI      = "openai"

	// DefaultModel is a general-purpose abstractive summarization model.
	DefaultModel = "facebook/bart-large-cnn"
)

// Config carries credentials and endpoints for every backend kind.
type Config struct {
	HFToken   string
	HFBaseURL string

	AnthropicAPIKey  string
	AnthropicBaseURL string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	Timeout time.Duration
}

var ErrUnknownBackend = errors.New("unknown summarization backend")

// NewBackend constructs the named backend for model. It fails when the name
// is unknown or the backend's credentials are missing.
func NewBackend(name, model string, cfg Config) (Backend, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case BackendHuggingFace, "":
		if model == "" {
			model = DefaultModel
		}
		return NewHuggingFaceBackend(cfg.HFBaseURL, cfg.HFToken, model, timeout), nil
	case BackendAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, errors.New("ANTHROPIC_API_KEY is required for the anthropic backend")
		}
		return NewClaudeBackend(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, model, timeout), nil
	case BackendOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required for the openai backend")
		}
		return NewOpenAIBackend(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, model, timeout), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// APIError is a non-success HTTP response from a summarization API.
type APIError struct {
	Backend    string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api status %d: %s", e.Backend, e.StatusCode, truncate(e.Message, 200))
}

// truncate caps s at n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
