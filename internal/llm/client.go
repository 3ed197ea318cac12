package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Gon161/RAG-multi-documento/internal/domain"
)

// ChatMessage is one message in a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config holds the OpenAI-compatible provider settings.
type Config struct {
	BaseURL        string
	APIKey         string
	ChatModel      string
	EmbeddingModel string
}

// Client talks to an OpenAI-compatible chat and embeddings API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a client for the given provider.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// HasAPIKey reports whether a provider key is configured.
func (c *Client) HasAPIKey() bool { return c.cfg.APIKey != "" }

// ChatModel returns the configured chat model name.
func (c *Client) ChatModel() string { return c.cfg.ChatModel }

// Complete performs a non-streaming chat completion.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage, temperature float64) (string, error) {
	reqBody := map[string]interface{}{
		"model":       c.cfg.ChatModel,
		"messages":    messages,
		"temperature": temperature,
		"stream":      false,
	}

	raw, err := c.postJSON(ctx, "/chat/completions", reqBody)
	if err != nil {
		return "", &domain.UpstreamServiceError{Service: "chat completion", Err: err}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &domain.UpstreamServiceError{Service: "chat completion", Err: fmt.Errorf("parse response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &domain.UpstreamServiceError{Service: "chat completion", Err: fmt.Errorf("empty choices")}
	}
	return parsed.Choices[0].Message.Content, nil
}

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, &domain.UpstreamServiceError{Service: "embeddings", Err: fmt.Errorf("empty embedding in response")}
	}
	return vectors[0], nil
}

// EmbedBatch returns embeddings for multiple texts in one request.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := map[string]interface{}{
		"model": c.cfg.EmbeddingModel,
		"input": texts,
	}

	raw, err := c.postJSON(ctx, "/embeddings", reqBody)
	if err != nil {
		return nil, &domain.UpstreamServiceError{Service: "embeddings", Err: err}
	}

	var parsed struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &domain.UpstreamServiceError{Service: "embeddings", Err: fmt.Errorf("parse response: %w", err)}
	}
	if len(parsed.Data) != len(texts) {
		return nil, &domain.UpstreamServiceError{Service: "embeddings", Err: fmt.Errorf("got %d embeddings for %d inputs", len(parsed.Data), len(texts))}
	}

	vectors := make([][]float64, len(parsed.Data))
	for i := range parsed.Data {
		vectors[i] = parsed.Data[i].Embedding
	}
	return vectors, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
