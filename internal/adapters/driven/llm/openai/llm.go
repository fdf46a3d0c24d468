// Package openai provides the metadata analyzer for OpenAI-compatible
// chat-completions endpoints (DashScope compatible mode, OpenAI, vLLM).
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/ramener/internal/core/domain"
	"github.com/custodia-labs/ramener/internal/core/ports/driven"
	"github.com/custodia-labs/ramener/internal/logger"
)

// Ensure MetadataClient implements the interfaces.
var (
	_ driven.MetadataAnalyzer = (*MetadataClient)(nil)
	_ driven.PromptStoreAware = (*MetadataClient)(nil)
)

// Request tuning.
const (
	analysisTemperature = 0.1
	responseFormatJSON  = "json_object"
)

// Config holds configuration for the metadata client.
type Config struct {
	// APIKey is the bearer token (required).
	APIKey string

	// BaseURL is the API root (default: DashScope compatible mode).
	BaseURL string

	// Model is used for metadata extraction.
	Model string

	// OCRModel is used for page transcription (default: Model).
	OCRModel string

	// Timeout bounds each request (default: 30s).
	Timeout time.Duration

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// MetadataClient sends excerpts and page images to /chat/completions.
type MetadataClient struct {
	client      *http.Client
	endpoint    string
	baseURL     string
	apiKey      string
	model       string
	ocrModel    string
	promptStore driven.PromptStore
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatCompletionMsg `json:"messages"`
	Temperature    float64             `json:"temperature,omitempty"`
	ResponseFormat *responseFormat     `json:"response_format,omitempty"`
}

// chatCompletionMsg carries either a string or a list of content parts.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// chatCompletionResponse is the /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewMetadataClient creates a client. It fails with domain.ErrMissingAPIKey
// when no key is configured.
func NewMetadataClient(cfg Config) (*MetadataClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set RAMENER_API_KEY, RAMENER_API_KEY_FILE, pass --api-key, "+
			"or run 'ramener settings wizard'", domain.ErrMissingAPIKey)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultModel
	}
	if cfg.OCRModel == "" {
		cfg.OCRModel = cfg.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	return &MetadataClient{
		client:   client,
		baseURL:  baseURL,
		endpoint: baseURL + "/chat/completions",
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		ocrModel: cfg.OCRModel,
	}, nil
}

// Analyze asks the model for the document metadata of a sanitized excerpt.
func (c *MetadataClient) Analyze(ctx context.Context, excerpt string) (*domain.DocumentMetadata, error) {
	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatCompletionMsg{
			{Role: "system", Content: c.loadPrompt(driven.PromptMetadataSystem)},
			{Role: "user", Content: BuildUserPrompt(c.loadPrompt(driven.PromptMetadataUser), excerpt)},
		},
		Temperature:    analysisTemperature,
		ResponseFormat: &responseFormat{Type: responseFormatJSON},
	}

	content, err := c.chatCompletion(ctx, reqBody, true)
	if err != nil {
		return nil, err
	}

	meta, err := ParseMetadata(content)
	if err != nil {
		return nil, err
	}
	logger.Debug("Parsed metadata: %s", meta)
	return meta, nil
}

// Transcribe sends all page images in one request and returns the raw reply.
func (c *MetadataClient) Transcribe(ctx context.Context, images [][]byte) (string, error) {
	parts := make([]contentPart, 0, len(images)+1)
	parts = append(parts, contentPart{Type: "text", Text: c.loadPrompt(driven.PromptOCRTranscribe)})
	for _, img := range images {
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)},
		})
	}

	reqBody := chatCompletionRequest{
		Model:    c.ocrModel,
		Messages: []chatCompletionMsg{{Role: "user", Content: parts}},
	}
	return c.chatCompletion(ctx, reqBody, false)
}

// chatCompletion posts one request. Transport failures and non-2xx replies
// are domain.ErrRequestFailed; malformed envelopes are domain.ErrResponseInvalid.
func (c *MetadataClient) chatCompletion(ctx context.Context, reqBody chatCompletionRequest, logPayload bool) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	if logPayload {
		logger.Debug("Sending payload: %s", jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", domain.ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: send request: %w", domain.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrRequestFailed, err)
	}
	logger.Debug("POST %s model=%s status=%d request_bytes=%d response_bytes=%d elapsed=%s",
		c.endpoint, reqBody.Model, resp.StatusCode, len(jsonBody), len(body), time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domain.NewHTTPError(resp.StatusCode, body)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrResponseInvalid, err)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("%w: unexpected API response: %s", domain.ErrResponseInvalid, truncate(body, 400))
	}
	return *chatResp.Choices[0].Message.Content, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (c *MetadataClient) loadPrompt(name string) string {
	fallback := DefaultPrompts()[name]
	if c.promptStore == nil {
		return fallback
	}
	prompt, err := c.promptStore.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the client uses the built-in prompts.
func (c *MetadataClient) SetPromptStore(store driven.PromptStore) {
	c.promptStore = store
}

// ModelName returns the metadata model.
func (c *MetadataClient) ModelName() string {
	return c.model
}

// Ping validates the endpoint and key by checking the /models endpoint.
func (c *MetadataClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: create ping request: %w", domain.ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ping: %w", domain.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return domain.NewHTTPError(resp.StatusCode, body)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
