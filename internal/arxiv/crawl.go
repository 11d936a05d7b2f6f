// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/arxiv-assistant/pkg/types"
)

const (
	defaultMaxTotal = 100
	defaultPageSize = 50

	// maxEmptyPages is how many consecutive pages may come back without a
	// single record before the crawl gives up on the provider.
	maxEmptyPages = 3
)

// StopReason says why a crawl terminated.
type StopReason string

const (
	// StopTargetReached: the accumulated count reached the requested total.
	StopTargetReached StopReason = "target_reached"

	// StopRepeatedEmpty: maxEmptyPages consecutive pages yielded nothing.
	StopRepeatedEmpty StopReason = "repeated_empty"
)

// Result is the outcome of one crawl: the deduplicated papers in arrival
// order plus counters for reporting. A shortfall against the requested
// total is informational, not an error.
type Result struct {
	Papers     []types.PaperRecord
	Reason     StopReason
	Pages      int
	Duplicates int
}

// Shortfall reports how many papers short of the target the crawl ended,
// or 0 when the target was met.
func (r Result) Shortfall(target int) int {
	if len(r.Papers) >= target {
		return 0
	}
	return target - len(r.Papers)
}

// Crawl drives FetchPage across pages until the target total is met or a
// stopping heuristic fires. The result set never contains two records with
// the same arXiv ID; the first occurrence wins.
//
// Pagination is strictly sequential: the next offset depends on how many
// records the provider actually returned, which can be fewer than
// requested. A short page mid-stream does not stop the crawl (the dataset
// has gaps); only repeated fully-empty pages do. Fetch failures degrade to
// empty pages with a warning on w. A page that completes the target is
// kept whole, so the final count may exceed the target by at most one
// page.
func (c *Client) Crawl(ctx context.Context, query string, w io.Writer) Result {
	target := c.cfg.MaxTotal
	if target <= 0 {
		target = defaultMaxTotal
	}
	pageSize := c.cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var res Result
	seen := make(map[string]bool)
	offset := 0
	emptyStreak := 0

	for len(res.Papers) < target {
		// Politeness pause between fetches, never before the first one.
		if res.Pages > 0 && c.cfg.Delay > 0 {
			time.Sleep(c.cfg.Delay)
		}

		papers, err := c.FetchPage(ctx, query, offset, pageSize)
		if err != nil {
			fmt.Fprintf(w, "warning: page at offset %d failed: %v\n", offset, err)
			papers = nil
		}
		res.Pages++

		if len(papers) == 0 {
			emptyStreak++
			fmt.Fprintf(w, "page %d: empty (streak %d/%d)\n", res.Pages, emptyStreak, maxEmptyPages)
			if emptyStreak >= maxEmptyPages {
				res.Reason = StopRepeatedEmpty
				break
			}
			offset += pageSize
			continue
		}
		emptyStreak = 0

		newCount := 0
		for _, p := range papers {
			if p.ArxivID == "" {
				continue
			}
			if seen[p.ArxivID] {
				res.Duplicates++
				continue
			}
			seen[p.ArxivID] = true
			res.Papers = append(res.Papers, p)
			newCount++
		}
		fmt.Fprintf(w, "page %d: %d returned, %d new (total %d)\n",
			res.Pages, len(papers), newCount, len(res.Papers))

		// Advance by what the provider actually returned, not by what was
		// requested.
		offset += len(papers)
	}

	if res.Reason == "" {
		res.Reason = StopTargetReached
	}

	fmt.Fprintf(w, "\nCrawl finished: %d unique papers in %d pages (%d duplicates removed)\n",
		len(res.Papers), res.Pages, res.Duplicates)
	if short := res.Shortfall(target); short > 0 {
		fmt.Fprintf(w, "Note: %d fewer than the requested %d; the provider may not have more matches\n",
			short, target)
	}
	return res
}
