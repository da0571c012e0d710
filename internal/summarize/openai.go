package summarize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIBackend summarizes through the OpenAI chat completions API.
type OpenAIBackend struct {
	client     *openai.Client
	httpClient *http.Client
	model      string
}

func NewOpenAIBackend(baseURL, apiKey, model string, timeout time.Duration) *OpenAIBackend {
	if model == "" || model == DefaultModel {
		model = defaultOpenAIModel
	}
	httpClient := &http.Client{Timeout: timeout}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = httpClient

	return &OpenAIBackend{
		client:     openai.NewClientWithConfig(cfg),
		httpClient: httpClient,
		model:      model,
	}
}

// Summarize requests a single greedy completion. A zero temperature is
// dropped by the client's omitempty tag, so the smallest positive float
// stands in for it.
func (o *OpenAIBackend) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	seed := 0
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildChunkPrompt(text, opts)},
		},
		MaxCompletionTokens: responseTokens(opts),
		Temperature:         math.SmallestNonzeroFloat32,
		N:                   1,
		Seed:                &seed,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &APIError{Backend: BackendOpenAI, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &APIError{Backend: BackendOpenAI, StatusCode: reqErr.HTTPStatusCode, Message: string(reqErr.Body)}
		}
		return "", fmt.Errorf("openai api: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (o *OpenAIBackend) Model() string {
	return o.model
}

// Close releases resources.
func (o *OpenAIBackend) Close() {
	o.httpClient.CloseIdleConnections()
}
