// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv crawls the arXiv search API: it composes boolean queries
// from structured filters, fetches result pages, and accumulates a
// deduplicated paper list.
package arxiv

import (
	"strings"
)

// DateType selects which timestamp a date-range filter applies to.
type DateType string

const (
	DateSubmitted   DateType = "submittedDate"
	DateLastUpdated DateType = "lastUpdatedDate"
)

// Filter holds the structured search criteria. Every field is optional,
// but the caller must reject an all-empty filter before fetching; an
// unconstrained query against the provider is not a safe operation.
type Filter struct {
	// Categories restricts results to arXiv categories (e.g. "cs.AI").
	Categories []string

	// KeywordsAll are required keywords: each becomes its own AND clause.
	KeywordsAll []string

	// KeywordsAny is a single OR group; any one term suffices.
	KeywordsAny []string

	// KeywordsNot excludes papers matching any of these terms. The group
	// is bound to the whole accumulated expression, not to one clause.
	KeywordsNot []string

	// TitleKeywords and AbstractKeywords are required keywords scoped to
	// a single field.
	TitleKeywords    []string
	AbstractKeywords []string

	// TitleAbstractKeywords are required keywords matched in either the
	// title or the abstract.
	TitleAbstractKeywords []string

	// Author filters by author name.
	Author string

	// StartDate and EndDate bound the date range in YYYYMMDD form. The
	// range is only emitted when both ends are present.
	StartDate string
	EndDate   string

	// DateField selects which timestamp the range applies to
	// (default submittedDate).
	DateField DateType
}

// IsEmpty reports whether the filter contains no searchable criteria.
func (f Filter) IsEmpty() bool {
	return len(f.Categories) == 0 &&
		len(f.KeywordsAll) == 0 &&
		len(f.KeywordsAny) == 0 &&
		len(f.TitleKeywords) == 0 &&
		len(f.AbstractKeywords) == 0 &&
		len(f.TitleAbstractKeywords) == 0 &&
		f.Author == "" &&
		!(f.StartDate != "" && f.EndDate != "")
}

// BuildQuery translates the filter into the arXiv query language. All
// clauses are joined with AND; the NOT group, if any, is appended last
// with the ANDNOT connector so it binds against the whole expression.
// An empty filter yields an empty string.
func BuildQuery(f Filter) string {
	var parts []string

	if len(f.Categories) > 0 {
		cats := make([]string, 0, len(f.Categories))
		for _, c := range f.Categories {
			cats = append(cats, "cat:"+c)
		}
		catQuery := strings.Join(cats, " OR ")
		if len(f.Categories) > 1 {
			catQuery = "(" + catQuery + ")"
		}
		parts = append(parts, catQuery)
	}

	for _, kw := range f.KeywordsAll {
		parts = append(parts, fieldTerm("all", kw))
	}

	if len(f.KeywordsAny) > 0 {
		anyParts := make([]string, 0, len(f.KeywordsAny))
		for _, kw := range f.KeywordsAny {
			anyParts = append(anyParts, fieldTerm("all", kw))
		}
		anyQuery := strings.Join(anyParts, " OR ")
		if len(f.KeywordsAny) > 1 {
			anyQuery = "(" + anyQuery + ")"
		}
		parts = append(parts, anyQuery)
	}

	for _, kw := range f.TitleKeywords {
		parts = append(parts, fieldTerm("ti", kw))
	}

	for _, kw := range f.AbstractKeywords {
		parts = append(parts, fieldTerm("abs", kw))
	}

	for _, kw := range f.TitleAbstractKeywords {
		parts = append(parts, "("+fieldTerm("ti", kw)+" OR "+fieldTerm("abs", kw)+")")
	}

	if f.Author != "" {
		parts = append(parts, fieldTerm("au", f.Author))
	}

	if f.StartDate != "" && f.EndDate != "" {
		field := f.DateField
		if field == "" {
			field = DateSubmitted
		}
		parts = append(parts, string(field)+":["+f.StartDate+" TO "+f.EndDate+"]")
	}

	query := strings.Join(parts, " AND ")

	// The NOT group must be the final operation so it excludes against
	// everything accumulated above.
	if len(f.KeywordsNot) > 0 {
		notParts := make([]string, 0, len(f.KeywordsNot))
		for _, kw := range f.KeywordsNot {
			notParts = append(notParts, fieldTerm("all", kw))
		}
		notQuery := strings.Join(notParts, " OR ")
		if len(f.KeywordsNot) > 1 {
			notQuery = "(" + notQuery + ")"
		}
		query = query + " ANDNOT " + notQuery
	}

	return query
}

// fieldTerm renders one field-scoped term. Multi-word terms are quoted;
// single words are left bare. No further escaping is applied.
func fieldTerm(field, term string) string {
	if strings.Contains(term, " ") {
		return field + `:"` + term + `"`
	}
	return field + ":" + term
}
