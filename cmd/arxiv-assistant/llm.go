// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-assistant/internal/llm"
	"github.com/pdiddy/arxiv-assistant/pkg/types"
)

const (
	defaultLLMTimeout = 120 * time.Second
	defaultLLMModel   = "Qwen/Qwen3-32B"
	defaultLLMHost    = "localhost"
	defaultLLMPort    = 8000
)

// addLLMFlags registers the endpoint flags shared by every stage that
// talks to the LLM.
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", defaultLLMModel, "model identifier for completion requests")
	cmd.Flags().String("llm-host", defaultLLMHost, "LLM endpoint host")
	cmd.Flags().Int("llm-port", defaultLLMPort, "LLM endpoint port")
	cmd.Flags().String("api-key", "", "LLM API key (default: .secrets/openai-api-key, or a dummy key)")
	cmd.Flags().Duration("llm-timeout", 0, "LLM request timeout (default 120s)")
}

// llmConfigFromFlags builds the endpoint config, filling the API key from
// the loaded secrets when the flag is unset.
func llmConfigFromFlags(cmd *cobra.Command) types.LLMConfig {
	model, _ := cmd.Flags().GetString("model")
	host, _ := cmd.Flags().GetString("llm-host")
	port, _ := cmd.Flags().GetInt("llm-port")
	apiKey, _ := cmd.Flags().GetString("api-key")
	timeout, _ := cmd.Flags().GetDuration("llm-timeout")
	if timeout == 0 {
		timeout = defaultLLMTimeout
	}

	return types.LLMConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Model:  model,
		Host:   host,
		Port:   port,
		APIKey: secretDefault("openai-api-key", apiKey),
	}
}

// llmClientFromFlags builds the completion client for one command run.
func llmClientFromFlags(cmd *cobra.Command) (*llm.Client, types.LLMConfig) {
	cfg := llmConfigFromFlags(cmd)
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return llm.NewClient(httpClient, cfg), cfg
}
