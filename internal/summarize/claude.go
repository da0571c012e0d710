package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultClaudeModel      = "claude-sonnet-4-5-20250929"
)

// ClaudeBackend summarizes through the Anthropic Messages API.
type ClaudeBackend struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClaudeBackend(baseURL, apiKey, model string, timeout time.Duration) *ClaudeBackend {
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	if model == "" || model == DefaultModel {
		model = defaultClaudeModel
	}
	return &ClaudeBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Summarize asks Claude for a summary at temperature 0. MaxLength caps the
// response tokens; MinLength is conveyed through the prompt only.
func (c *ClaudeBackend) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	reqBody := anthropicRequest{
		Model:       c.model,
		MaxTokens:   responseTokens(opts),
		Temperature: 0,
		System:      SystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: BuildChunkPrompt(text, opts)},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("claude api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Backend: BackendAnthropic, StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("claude error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	var sb strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from claude")
	}
	return strings.TrimSpace(sb.String()), nil
}

func (c *ClaudeBackend) Model() string {
	return c.model
}

// Close releases resources.
func (c *ClaudeBackend) Close() {
	c.httpClient.CloseIdleConnections()
}
