// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-assistant/internal/arxiv"
	"github.com/pdiddy/arxiv-assistant/pkg/types"
)

// RunManifest is the on-disk record of one crawl: the filter that produced
// it, the effective crawl settings, and the outcome counters. It carries
// the query parameters only, never the results; those live in the JSON or
// CSV output file next to it.
type RunManifest struct {
	Filter  FilterParams `yaml:"filter"`
	Query   string       `yaml:"query"`
	Config  RunConfig    `yaml:"config"`
	Summary RunSummary   `yaml:"summary"`
}

// FilterParams stores the search criteria in a serializable form.
type FilterParams struct {
	Categories            []string `yaml:"categories,omitempty"`
	KeywordsAll           []string `yaml:"keywords_all,omitempty"`
	KeywordsAny           []string `yaml:"keywords_any,omitempty"`
	KeywordsNot           []string `yaml:"keywords_not,omitempty"`
	TitleKeywords         []string `yaml:"title_keywords,omitempty"`
	AbstractKeywords      []string `yaml:"abstract_keywords,omitempty"`
	TitleAbstractKeywords []string `yaml:"title_abstract_keywords,omitempty"`
	Author                string   `yaml:"author,omitempty"`
	StartDate             string   `yaml:"start_date,omitempty"`
	EndDate               string   `yaml:"end_date,omitempty"`
	DateField             string   `yaml:"date_field,omitempty"`
}

// RunConfig stores the crawl settings that produced the outcome.
type RunConfig struct {
	MaxTotal  int    `yaml:"max_total"`
	PageSize  int    `yaml:"page_size"`
	SortBy    string `yaml:"sort_by"`
	SortOrder string `yaml:"sort_order"`
}

// RunSummary stores the outcome counters and a timestamp.
type RunSummary struct {
	Total      int       `yaml:"total"`
	Pages      int       `yaml:"pages"`
	Duplicates int       `yaml:"duplicates_removed"`
	Shortfall  int       `yaml:"shortfall"`
	StopReason string    `yaml:"stop_reason"`
	Timestamp  time.Time `yaml:"timestamp"`
}

// WriteManifest saves the crawl record to a YAML file.
func WriteManifest(path string, filter arxiv.Filter, query string, cfg types.CrawlConfig, res arxiv.Result) error {
	m := RunManifest{
		Filter: FilterParams{
			Categories:            filter.Categories,
			KeywordsAll:           filter.KeywordsAll,
			KeywordsAny:           filter.KeywordsAny,
			KeywordsNot:           filter.KeywordsNot,
			TitleKeywords:         filter.TitleKeywords,
			AbstractKeywords:      filter.AbstractKeywords,
			TitleAbstractKeywords: filter.TitleAbstractKeywords,
			Author:                filter.Author,
			StartDate:             filter.StartDate,
			EndDate:               filter.EndDate,
			DateField:             string(filter.DateField),
		},
		Query: query,
		Config: RunConfig{
			MaxTotal:  cfg.MaxTotal,
			PageSize:  cfg.PageSize,
			SortBy:    string(cfg.SortBy),
			SortOrder: string(cfg.SortOrder),
		},
		Summary: RunSummary{
			Total:      len(res.Papers),
			Pages:      res.Pages,
			Duplicates: res.Duplicates,
			Shortfall:  res.Shortfall(cfg.MaxTotal),
			StopReason: string(res.Reason),
			Timestamp:  time.Now(),
		},
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling run manifest: %w", err)
	}
	return writeFile(path, data)
}

// ReadManifest loads a previously saved crawl record.
func ReadManifest(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run manifest %s: %w", path, err)
	}
	var m RunManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing run manifest %s: %w", path, err)
	}
	return &m, nil
}

// ToFilter converts stored FilterParams back into an arxiv.Filter.
func (p FilterParams) ToFilter() arxiv.Filter {
	return arxiv.Filter{
		Categories:            p.Categories,
		KeywordsAll:           p.KeywordsAll,
		KeywordsAny:           p.KeywordsAny,
		KeywordsNot:           p.KeywordsNot,
		TitleKeywords:         p.TitleKeywords,
		AbstractKeywords:      p.AbstractKeywords,
		TitleAbstractKeywords: p.TitleAbstractKeywords,
		Author:                p.Author,
		StartDate:             p.StartDate,
		EndDate:               p.EndDate,
		DateField:             arxiv.DateType(p.DateField),
	}
}
