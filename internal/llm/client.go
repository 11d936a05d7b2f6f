// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm is a minimal client for a local OpenAI-compatible
// chat-completion endpoint (vLLM, llama.cpp, LM Studio and friends all
// speak this dialect). Only the single call the pipeline needs is
// implemented.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/arxiv-assistant/internal/httputil"
	"github.com/pdiddy/arxiv-assistant/pkg/types"
)

// dummyAPIKey is sent when no key is configured; local servers ignore it.
const dummyAPIKey = "EMPTY"

// Message is one chat message in the completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the chat-completions endpoint of one configured server.
type Client struct {
	http    *http.Client
	baseURL string
	model   string
	apiKey  string
}

// NewClient builds a client for the endpoint described by cfg. The base
// URL is http://<host>:<port>/v1.
func NewClient(httpClient *http.Client, cfg types.LLMConfig) *Client {
	key := cfg.APIKey
	if key == "" {
		key = dummyAPIKey
	}
	return &Client{
		http:    httpClient,
		baseURL: fmt.Sprintf("http://%s:%d/v1", cfg.Host, cfg.Port),
		model:   cfg.Model,
		apiKey:  key,
	}
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ChatCompletion sends messages to the model and returns the trimmed
// completion text. 429 responses are retried with backoff.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return "", fmt.Errorf("LLM request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("LLM endpoint returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var cr completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("parsing completion response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("LLM endpoint error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// StripReasoning removes a reasoning-model preamble: everything up to and
// including the last "</think>" marker is dropped. Text without the
// marker is returned unchanged.
func StripReasoning(s string) string {
	const marker = "</think>"
	if idx := strings.LastIndex(s, marker); idx >= 0 {
		return strings.TrimSpace(s[idx+len(marker):])
	}
	return s
}
