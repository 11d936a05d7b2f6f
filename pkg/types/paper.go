// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the arxiv-assistant
// pipeline: the paper record produced by the crawler and the per-stage
// configuration structs consumed by the CLI.
package types

// PaperRecord represents one publication retrieved from the arXiv API.
// The crawler creates it during feed parsing and never mutates it afterwards;
// the translate stage fills in TranslatedAbstract, and the chat stages append
// Conversation entries before persisting the record back to disk.
type PaperRecord struct {
	// ArxivID is the stable identifier extracted from the entry's id URL
	// (e.g. "2301.07041v1").
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// Title is the paper title, whitespace-trimmed.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract, whitespace-trimmed.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the author names in document order. Names may repeat
	// across papers.
	Authors []string `json:"authors" yaml:"authors"`

	// Categories lists the arXiv category terms (e.g. "cs.AI").
	Categories []string `json:"categories" yaml:"categories"`

	// Published and Updated are the provider-formatted timestamp strings,
	// kept verbatim; nothing downstream reparses them.
	Published string `json:"published" yaml:"published"`
	Updated   string `json:"updated" yaml:"updated"`

	// PDFURL is the direct PDF link, if the feed carried one.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// PageURL is the abstract landing page link, if the feed carried one.
	PageURL string `json:"page_url,omitempty" yaml:"page_url,omitempty"`

	// TranslatedAbstract is the machine translation of Abstract, filled in
	// by the translate stage. On translation failure it holds the original
	// abstract.
	TranslatedAbstract string `json:"abstract_cn,omitempty" yaml:"abstract_cn,omitempty"`

	// Conversation holds the chat exchanges recorded against this paper by
	// the web chat stage.
	Conversation []Exchange `json:"conversation,omitempty" yaml:"conversation,omitempty"`
}

// Exchange is one question/answer pair recorded against a paper.
type Exchange struct {
	Question string `json:"question" yaml:"question"`
	Response string `json:"response" yaml:"response"`
}

// BestAbstract returns the translated abstract when present, falling back
// to the original. Chat context building prefers the translation.
func (p *PaperRecord) BestAbstract() string {
	if p.TranslatedAbstract != "" {
		return p.TranslatedAbstract
	}
	return p.Abstract
}
