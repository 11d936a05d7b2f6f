package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-assistant/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SortField selects the arXiv API sort column.
type SortField string

const (
	SortRelevance       SortField = "relevance"
	SortLastUpdatedDate SortField = "lastUpdatedDate"
	SortSubmittedDate   SortField = "submittedDate"
)

// SortOrder selects the arXiv API sort direction.
type SortOrder string

const (
	SortAscending  SortOrder = "ascending"
	SortDescending SortOrder = "descending"
)

// CrawlConfig holds settings for the crawl stage.
type CrawlConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxTotal is the target number of unique papers to accumulate.
	MaxTotal int `json:"max_total" yaml:"max_total"`

	// PageSize is the number of results requested per API page (default 50).
	PageSize int `json:"page_size" yaml:"page_size"`

	// Delay is the politeness pause between consecutive page fetches
	// (default 1s). It is never applied after the terminal fetch.
	Delay time.Duration `json:"delay" yaml:"delay"`

	// SortBy and SortOrder control result ordering at the provider.
	SortBy    SortField `json:"sort_by" yaml:"sort_by"`
	SortOrder SortOrder `json:"sort_order" yaml:"sort_order"`
}

// LLMConfig holds connection settings for the local OpenAI-compatible
// endpoint used by the translate and chat stages.
type LLMConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the model identifier passed in the completion request
	// (e.g. "Qwen/Qwen3-32B").
	Model string `json:"model" yaml:"model"`

	// Host and Port locate the endpoint; the base URL is
	// http://<host>:<port>/v1.
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`

	// APIKey authenticates against the endpoint. Local servers usually
	// accept any value; a dummy key is sent when empty.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// TranslateConfig holds settings for the translate stage.
type TranslateConfig struct {
	LLMConfig `yaml:",inline"`

	// Concurrency is the number of abstracts translated in parallel
	// (default 5).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// ChatConfig holds settings shared by the console and web chat stages.
type ChatConfig struct {
	LLMConfig `yaml:",inline"`

	// MaxLoadPapers caps how many papers are combined into a single prompt.
	// Above the cap the web chat answers a question once per paper instead
	// (default 10).
	MaxLoadPapers int `json:"max_load_papers" yaml:"max_load_papers"`

	// HistoryLimit caps how many prior exchanges the console chat replays
	// into each request (default 10).
	HistoryLimit int `json:"history_limit" yaml:"history_limit"`
}

// WebConfig holds settings for the web chat server.
type WebConfig struct {
	ChatConfig `yaml:",inline"`

	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`
}
