// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/arxiv-assistant/pkg/types"
)

// apiBase is the arXiv search endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

// maxPageSize is the hard per-request ceiling the API documents. The
// requested page size is clamped before the request is sent.
const maxPageSize = 2000

// Client fetches result pages from the arXiv API. The configuration is
// fixed at construction; Client carries no mutable state.
type Client struct {
	http *http.Client
	cfg  types.CrawlConfig
}

// NewClient returns a Client using httpClient for transport.
func NewClient(httpClient *http.Client, cfg types.CrawlConfig) *Client {
	return &Client{http: httpClient, cfg: cfg}
}

// FetchPage issues one paginated request and parses the Atom response into
// paper records. start is the zero-based result offset. FetchPage does not
// retry; the caller treats any error the same as an empty page.
func (c *Client) FetchPage(ctx context.Context, query string, start, pageSize int) ([]types.PaperRecord, error) {
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	params := url.Values{
		"search_query": {query},
		"start":        {strconv.Itoa(start)},
		"max_results":  {strconv.Itoa(pageSize)},
		"sortBy":       {string(c.cfg.SortBy)},
		"sortOrder":    {string(c.cfg.SortOrder)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	papers := make([]types.PaperRecord, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		papers = append(papers, entry.toRecord())
	}
	return papers, nil
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	TotalResults int         `xml:"totalResults"`
	Entries      []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Updated    string         `xml:"updated"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
	Links      []atomLink     `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
}

// toRecord maps one feed entry to a PaperRecord.
func (e atomEntry) toRecord() types.PaperRecord {
	p := types.PaperRecord{
		ArxivID:   extractID(e.ID),
		Title:     strings.TrimSpace(e.Title),
		Abstract:  strings.TrimSpace(e.Summary),
		Published: e.Published,
		Updated:   e.Updated,
	}

	for _, a := range e.Authors {
		p.Authors = append(p.Authors, a.Name)
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}
	for _, l := range e.Links {
		switch {
		case l.Title == "pdf":
			p.PDFURL = l.Href
		case l.Rel == "alternate":
			p.PageURL = l.Href
		}
	}
	return p
}

// extractID pulls the arXiv ID from the entry's <id> URL by keeping the
// final path segment (e.g. "http://arxiv.org/abs/2301.07041v1" becomes
// "2301.07041v1").
func extractID(idURL string) string {
	if idx := strings.LastIndex(idURL, "/"); idx >= 0 {
		return idURL[idx+1:]
	}
	return idURL
}
