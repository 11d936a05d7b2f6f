// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"strings"
	"testing"
)

func TestFilterIsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty", Filter{}, true},
		{"categories", Filter{Categories: []string{"cs.AI"}}, false},
		{"and keywords", Filter{KeywordsAll: []string{"transformer"}}, false},
		{"or keywords", Filter{KeywordsAny: []string{"bert"}}, false},
		{"title keywords", Filter{TitleKeywords: []string{"attention"}}, false},
		{"abstract keywords", Filter{AbstractKeywords: []string{"attention"}}, false},
		{"title-abstract keywords", Filter{TitleAbstractKeywords: []string{"gpt"}}, false},
		{"author", Filter{Author: "Hinton"}, false},
		{"full date range", Filter{StartDate: "20240101", EndDate: "20241231"}, false},
		{"half-open date range is empty", Filter{StartDate: "20240101"}, true},
		{"not keywords alone are empty", Filter{KeywordsNot: []string{"survey"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{
			name:   "empty filter",
			filter: Filter{},
			want:   "",
		},
		{
			name:   "single category",
			filter: Filter{Categories: []string{"cs.AI"}},
			want:   "cat:cs.AI",
		},
		{
			name:   "multiple categories wrapped in parens",
			filter: Filter{Categories: []string{"cs.AI", "cs.LG"}},
			want:   "(cat:cs.AI OR cat:cs.LG)",
		},
		{
			name:   "each AND keyword is its own clause",
			filter: Filter{KeywordsAll: []string{"transformer", "attention mechanism"}},
			want:   `all:transformer AND all:"attention mechanism"`,
		},
		{
			name:   "OR keywords form one group",
			filter: Filter{KeywordsAny: []string{"bert", "gpt"}},
			want:   "(all:bert OR all:gpt)",
		},
		{
			name:   "single OR keyword has no parens",
			filter: Filter{KeywordsAny: []string{"bert"}},
			want:   "all:bert",
		},
		{
			name:   "title and abstract scoping",
			filter: Filter{TitleKeywords: []string{"attention"}, AbstractKeywords: []string{"transformer"}},
			want:   "ti:attention AND abs:transformer",
		},
		{
			name:   "title-abstract keyword expands per term",
			filter: Filter{TitleAbstractKeywords: []string{"bert", "large model"}},
			want:   `(ti:bert OR abs:bert) AND (ti:"large model" OR abs:"large model")`,
		},
		{
			name:   "author with space is quoted",
			filter: Filter{Author: "Geoffrey Hinton"},
			want:   `au:"Geoffrey Hinton"`,
		},
		{
			name:   "date range with default field",
			filter: Filter{Categories: []string{"cs.AI"}, StartDate: "20240101", EndDate: "20241231"},
			want:   "cat:cs.AI AND submittedDate:[20240101 TO 20241231]",
		},
		{
			name: "date range with last-updated field",
			filter: Filter{
				Categories: []string{"cs.AI"},
				StartDate:  "20240101",
				EndDate:    "20241231",
				DateField:  DateLastUpdated,
			},
			want: "cat:cs.AI AND lastUpdatedDate:[20240101 TO 20241231]",
		},
		{
			name:   "half-open date range is dropped",
			filter: Filter{Categories: []string{"cs.AI"}, StartDate: "20240101"},
			want:   "cat:cs.AI",
		},
		{
			name:   "NOT group appended last",
			filter: Filter{KeywordsAll: []string{"agents"}, KeywordsNot: []string{"survey", "review"}},
			want:   "all:agents ANDNOT (all:survey OR all:review)",
		},
		{
			name:   "single NOT keyword has no parens",
			filter: Filter{KeywordsAll: []string{"agents"}, KeywordsNot: []string{"survey"}},
			want:   "all:agents ANDNOT all:survey",
		},
		{
			name: "combined filter",
			filter: Filter{
				Categories:    []string{"cs.AI", "cs.LG"},
				KeywordsAll:   []string{"tool use"},
				TitleKeywords: []string{"agent"},
				Author:        "Smith",
				StartDate:     "20250101",
				EndDate:       "20250801",
				KeywordsNot:   []string{"survey"},
			},
			want: `(cat:cs.AI OR cat:cs.LG) AND all:"tool use" AND ti:agent AND au:Smith` +
				" AND submittedDate:[20250101 TO 20250801] ANDNOT all:survey",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.filter); got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

// A filter with exactly one populated field must not introduce any
// connector tokens.
func TestBuildQuerySingleFieldHasNoConnectors(t *testing.T) {
	filters := map[string]Filter{
		"category": {Categories: []string{"cs.AI"}},
		"keyword":  {KeywordsAll: []string{"transformer"}},
		"title":    {TitleKeywords: []string{"attention"}},
		"author":   {Author: "Hinton"},
		"dates":    {StartDate: "20240101", EndDate: "20241231"},
	}
	for name, f := range filters {
		t.Run(name, func(t *testing.T) {
			got := BuildQuery(f)
			if strings.Contains(got, " AND ") || strings.Contains(got, "ANDNOT") {
				t.Errorf("BuildQuery() = %q, want no connectors", got)
			}
		})
	}
}

// The NOT connector must partition the query into exactly two halves, with
// every positive clause before it.
func TestBuildQueryNotBindsWholeExpression(t *testing.T) {
	f := Filter{
		Categories:  []string{"cs.AI"},
		KeywordsAll: []string{"agents"},
		Author:      "Smith",
		KeywordsNot: []string{"survey", "review"},
	}
	got := BuildQuery(f)

	halves := strings.Split(got, " ANDNOT ")
	if len(halves) != 2 {
		t.Fatalf("query %q split on ANDNOT into %d parts, want 2", got, len(halves))
	}
	for _, clause := range []string{"cat:cs.AI", "all:agents", "au:Smith"} {
		if !strings.Contains(halves[0], clause) {
			t.Errorf("positive half %q missing clause %q", halves[0], clause)
		}
	}
	if halves[1] != "(all:survey OR all:review)" {
		t.Errorf("NOT half = %q, want %q", halves[1], "(all:survey OR all:review)")
	}
}

func TestFieldTermQuoting(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"transformer", "all:transformer"},
		{"attention mechanism", `all:"attention mechanism"`},
		{"deep reinforcement learning", `all:"deep reinforcement learning"`},
	}
	for _, tt := range tests {
		if got := fieldTerm("all", tt.term); got != tt.want {
			t.Errorf("fieldTerm(all, %q) = %q, want %q", tt.term, got, tt.want)
		}
	}
}
