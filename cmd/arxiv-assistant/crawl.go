// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-assistant/internal/arxiv"
	"github.com/pdiddy/arxiv-assistant/internal/sink"
	"github.com/pdiddy/arxiv-assistant/internal/translate"
	"github.com/pdiddy/arxiv-assistant/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "arxiv-assistant/0.1"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl paper metadata from the arXiv search API",
	Long: `Crawl composes a boolean search query from the filter flags, pages through
the arXiv search API, and writes the deduplicated results to a JSON or CSV
file. At least one search criterion is required.

Crawling stops when the target number of unique papers is reached or after
three consecutive empty pages.`,
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().StringSlice("category", nil, "arXiv category (repeatable, e.g. cs.AI)")
	crawlCmd.Flags().StringSlice("keyword", nil, "required keyword across all fields (repeatable)")
	crawlCmd.Flags().StringSlice("keyword-any", nil, "keyword alternative; any one suffices (repeatable)")
	crawlCmd.Flags().StringSlice("keyword-not", nil, "keyword to exclude (repeatable)")
	crawlCmd.Flags().StringSlice("title", nil, "required keyword in the title (repeatable)")
	crawlCmd.Flags().StringSlice("abstract", nil, "required keyword in the abstract (repeatable)")
	crawlCmd.Flags().StringSlice("title-abstract", nil, "required keyword in the title or abstract (repeatable)")
	crawlCmd.Flags().String("author", "", "filter by author name")
	crawlCmd.Flags().String("from", "", "date range start (YYYYMMDD; requires --to)")
	crawlCmd.Flags().String("to", "", "date range end (YYYYMMDD; requires --from)")
	crawlCmd.Flags().String("date-field", "submitted", "date range field: submitted or updated")

	crawlCmd.Flags().String("sort-by", "submittedDate", "sort field: relevance, lastUpdatedDate, or submittedDate")
	crawlCmd.Flags().String("sort-order", "descending", "sort direction: ascending or descending")
	crawlCmd.Flags().Int("max-results", 100, "target number of unique papers")
	crawlCmd.Flags().Int("page-size", 50, "results requested per API page (capped at 2000)")
	crawlCmd.Flags().Duration("delay", 0, "pause between page fetches (default 1s)")
	crawlCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	crawlCmd.Flags().String("output", "arxiv_papers.json", "output file (.json or .csv)")
	crawlCmd.Flags().String("manifest", "", "also write a YAML run manifest to this path")
	crawlCmd.Flags().Bool("show-query", false, "print the composed query and exit without crawling")
	crawlCmd.Flags().Bool("show-abstracts", false, "print each paper's title and abstract after the crawl")
	crawlCmd.Flags().Bool("then-translate", false, "translate the abstracts in the output file after crawling")
	crawlCmd.Flags().Int("concurrency", 0, "parallel translation requests for --then-translate (default 5)")
	addLLMFlags(crawlCmd)

	rootCmd.AddCommand(crawlCmd)
}

func filterFromFlags(cmd *cobra.Command) (arxiv.Filter, error) {
	categories, _ := cmd.Flags().GetStringSlice("category")
	keywords, _ := cmd.Flags().GetStringSlice("keyword")
	keywordsAny, _ := cmd.Flags().GetStringSlice("keyword-any")
	keywordsNot, _ := cmd.Flags().GetStringSlice("keyword-not")
	title, _ := cmd.Flags().GetStringSlice("title")
	abstract, _ := cmd.Flags().GetStringSlice("abstract")
	titleAbstract, _ := cmd.Flags().GetStringSlice("title-abstract")
	author, _ := cmd.Flags().GetString("author")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	dateField, _ := cmd.Flags().GetString("date-field")

	if (from == "") != (to == "") {
		return arxiv.Filter{}, fmt.Errorf("--from and --to must be given together")
	}

	var field arxiv.DateType
	switch dateField {
	case "submitted":
		field = arxiv.DateSubmitted
	case "updated":
		field = arxiv.DateLastUpdated
	default:
		return arxiv.Filter{}, fmt.Errorf("invalid --date-field %q: want submitted or updated", dateField)
	}

	return arxiv.Filter{
		Categories:            categories,
		KeywordsAll:           keywords,
		KeywordsAny:           keywordsAny,
		KeywordsNot:           keywordsNot,
		TitleKeywords:         title,
		AbstractKeywords:      abstract,
		TitleAbstractKeywords: titleAbstract,
		Author:                author,
		StartDate:             from,
		EndDate:               to,
		DateField:             field,
	}, nil
}

func crawlConfigFromFlags(cmd *cobra.Command) (types.CrawlConfig, error) {
	sortBy, _ := cmd.Flags().GetString("sort-by")
	sortOrder, _ := cmd.Flags().GetString("sort-order")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	delay, _ := cmd.Flags().GetDuration("delay")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	switch types.SortField(sortBy) {
	case types.SortRelevance, types.SortLastUpdatedDate, types.SortSubmittedDate:
	default:
		return types.CrawlConfig{}, fmt.Errorf("invalid --sort-by %q: want relevance, lastUpdatedDate, or submittedDate", sortBy)
	}
	switch types.SortOrder(sortOrder) {
	case types.SortAscending, types.SortDescending:
	default:
		return types.CrawlConfig{}, fmt.Errorf("invalid --sort-order %q: want ascending or descending", sortOrder)
	}

	if delay == 0 {
		delay = defaultDelay
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return types.CrawlConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		MaxTotal:  maxResults,
		PageSize:  pageSize,
		Delay:     delay,
		SortBy:    types.SortField(sortBy),
		SortOrder: types.SortOrder(sortOrder),
	}, nil
}

func runCrawl(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	if filter.IsEmpty() {
		return fmt.Errorf("provide at least one search criterion (category, keyword, title, abstract, author, or a complete date range)")
	}

	cfg, err := crawlConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	query := arxiv.BuildQuery(filter)
	if show, _ := cmd.Flags().GetBool("show-query"); show {
		fmt.Println(query)
		return nil
	}
	fmt.Fprintf(os.Stderr, "query: %s\n", query)

	client := arxiv.NewClient(&http.Client{Timeout: cfg.Timeout}, cfg)
	res := client.Crawl(cmd.Context(), query, os.Stdout)

	output, _ := cmd.Flags().GetString("output")
	if err := sink.WritePapers(res.Papers, output); err != nil {
		return err
	}
	fmt.Printf("Saved %d papers to %s\n", len(res.Papers), output)

	if manifest, _ := cmd.Flags().GetString("manifest"); manifest != "" {
		if err := sink.WriteManifest(manifest, filter, query, cfg, res); err != nil {
			return err
		}
		fmt.Printf("Saved run manifest to %s\n", manifest)
	}

	if show, _ := cmd.Flags().GetBool("show-abstracts"); show {
		for i, p := range res.Papers {
			fmt.Printf("\n[%d] %s (%s)\n%s\n", i+1, p.Title, p.ArxivID, p.Abstract)
		}
	}

	if chain, _ := cmd.Flags().GetBool("then-translate"); chain {
		if !strings.HasSuffix(output, ".json") {
			return fmt.Errorf("--then-translate needs a .json output file, got %s", output)
		}
		llmClient, _ := llmClientFromFlags(cmd)
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		tr := translate.New(llmClient, concurrency)
		if _, err := tr.TranslateFile(cmd.Context(), output, os.Stdout); err != nil {
			return err
		}
	}
	return nil
}
