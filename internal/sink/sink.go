// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink persists crawled paper lists to flat files. JSON keeps the
// full record shape; CSV flattens list-valued fields into delimited
// strings. The translate and chat stages read the JSON form back.
package sink

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/arxiv-assistant/pkg/types"
)

// listSep joins authors and categories in the CSV form.
const listSep = "; "

// WritePapers saves papers to path, choosing the format by extension
// (.json or .csv).
func WritePapers(papers []types.PaperRecord, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return WriteJSON(papers, path)
	case ".csv":
		return WriteCSV(papers, path)
	default:
		return fmt.Errorf("unsupported output format %q: use .json or .csv", filepath.Ext(path))
	}
}

// WriteJSON saves papers as an indented UTF-8 JSON array. HTML escaping is
// disabled so non-ASCII abstracts and translations survive verbatim.
func WriteJSON(papers []types.PaperRecord, path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(papers); err != nil {
		return fmt.Errorf("encoding papers: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

// ReadJSON loads a previously saved paper list.
func ReadJSON(path string) ([]types.PaperRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var papers []types.PaperRecord
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return papers, nil
}

// csvHeader fixes the CSV column order.
var csvHeader = []string{
	"arxiv_id", "title", "abstract", "authors",
	"published", "updated", "categories", "pdf_url", "page_url",
}

// WriteCSV saves papers as a flat table. Authors and categories are joined
// with "; " into single cells.
func WriteCSV(papers []types.PaperRecord, path string) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, p := range papers {
		row := []string{
			p.ArxivID,
			p.Title,
			p.Abstract,
			strings.Join(p.Authors, listSep),
			p.Published,
			p.Updated,
			strings.Join(p.Categories, listSep),
			p.PDFURL,
			p.PageURL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", p.ArxivID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

// writeFile creates the parent directory if needed and writes data.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
