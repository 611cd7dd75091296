package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Defaults for the chat-completions client.
const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "gpt-4o-mini"
	defaultMaxTokens   = 150
	defaultTemperature = 0.2
	defaultHTTPTimeout = 30 * time.Second
)

// ErrMalformedResponse indicates the service answered with something other
// than the {stage, labels} contract.
var ErrMalformedResponse = errors.New("malformed classifier response")

// ChatConfig configures the network-backed classifier client.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// ChatClient calls an OpenAI-compatible chat-completions endpoint and
// extracts the {stage, labels} JSON object from the reply.
type ChatClient struct {
	cfg        ChatConfig
	httpClient *http.Client
}

// NewChatClient creates a network-backed classifier client.
func NewChatClient(cfg ChatConfig) (*ChatClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("classifier API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	return &ChatClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify sends the message to the chat endpoint and parses the reply.
func (c *ChatClient) Classify(ctx context.Context, message string) (*RawResult, error) {
	requestBody := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": message},
		},
		"response_format": map[string]string{"type": "json_object"},
		"temperature":     c.cfg.Temperature,
		"max_tokens":      c.cfg.MaxTokens,
	}

	body, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier service returned %d: %s", resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: no completion choices", ErrMalformedResponse)
	}

	return parseResultJSON(parsed.Choices[0].Message.Content)
}

// parseResultJSON enforces the narrow contract: a JSON object with exactly
// the keys "stage" (integer) and "labels" (string array). Any other shape
// is a gateway error.
func parseResultJSON(content string) (*RawResult, error) {
	var shape struct {
		Stage  *int      `json:"stage"`
		Labels *[]string `json:"labels"`
	}

	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&shape); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if shape.Stage == nil || shape.Labels == nil {
		return nil, fmt.Errorf("%w: missing stage or labels", ErrMalformedResponse)
	}

	return &RawResult{Stage: *shape.Stage, Labels: *shape.Labels}, nil
}
