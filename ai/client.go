// Package ai talks to an OpenAI-compatible chat completions endpoint.
// Callers treat every response as a suggestion; see pkg/fallback.
package ai

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

	"planora.app/configs"
)

var (
	// ErrDisabled is returned when no API key is configured.
	ErrDisabled = errors.New("ai: client disabled")
	// ErrEmptyResponse is returned when the model produced no choices.
	ErrEmptyResponse = errors.New("ai: empty response")
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 1 << 20

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Completer is the narrow surface the enrichment service needs.
type Completer interface {
	Enabled() bool
	Complete(ctx context.Context, system, prompt string) (string, error)
	CompleteJSON(ctx context.Context, system, prompt string, out any) error
}

type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewClient(cfg configs.AIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Complete sends a system and a user message and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	return c.do(ctx, system, prompt, nil)
}

// CompleteJSON asks for a JSON object and decodes it into out.
func (c *Client) CompleteJSON(ctx context.Context, system, prompt string, out any) error {
	content, err := c.do(ctx, system, prompt, &responseFormat{Type: "json_object"})
	if err != nil {
		return err
	}
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("ai: decoding model output: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, system, prompt string, format *responseFormat) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	temperature := 0.2
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature:    &temperature,
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("ai: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("ai: reading response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("ai: unexpected status %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("ai: status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("ai: unexpected status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return parsed.Choices[0].Message.Content, nil
}

var _ Completer = (*Client)(nil)
