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

const defaultHFBaseURL = "https://router.huggingface.co/hf-inference"

// HuggingFaceBackend calls a hosted summarization pipeline through the
// HuggingFace Inference API.
type HuggingFaceBackend struct {
	baseURL    string
	token      string
	model      string
	httpClient *http.Client
}

func NewHuggingFaceBackend(baseURL, token, model string, timeout time.Duration) *HuggingFaceBackend {
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}
	return &HuggingFaceBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type hfParameters struct {
	MaxLength int  `json:"max_length,omitempty"`
	MinLength int  `json:"min_length,omitempty"`
	DoSample  bool `json:"do_sample"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    struct {
		WaitForModel bool `json:"wait_for_model"`
	} `json:"options"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// Summarize runs the model over text with sampling disabled and returns the
// first summary the pipeline produces.
func (h *HuggingFaceBackend) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	reqBody := hfRequest{
		Inputs: text,
		Parameters: hfParameters{
			MaxLength: opts.MaxLength,
			MinLength: opts.MinLength,
			DoSample:  false,
		},
	}
	reqBody.Options.WaitForModel = true

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/models/"+h.model, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("huggingface api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		var apiErr hfError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return "", &APIError{Backend: BackendHuggingFace, StatusCode: resp.StatusCode, Message: msg}
	}

	var summaries []hfSummary
	if err := json.Unmarshal(respBody, &summaries); err != nil {
		return "", fmt.Errorf("decode response: %w (raw: %s)", err, truncate(string(respBody), 200))
	}
	if len(summaries) == 0 {
		return "", fmt.Errorf("empty response from huggingface")
	}
	return summaries[0].SummaryText, nil
}

func (h *HuggingFaceBackend) Model() string {
	return h.model
}

// Close releases resources.
func (h *HuggingFaceBackend) Close() {
	h.httpClient.CloseIdleConnections()
}
