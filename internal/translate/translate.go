// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate machine-translates paper abstracts through the local
// LLM endpoint and writes the translations back into the paper records.
package translate

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/arxiv-assistant/internal/llm"
	"github.com/pdiddy/arxiv-assistant/internal/sink"
	"github.com/pdiddy/arxiv-assistant/pkg/types"
)

const defaultConcurrency = 5

// systemPrompt instructs the model to produce a bare academic translation.
const systemPrompt = `你是一个专业的学术论文翻译专家。请将用户提供的英文摘要翻译成中文。

翻译要求：
1. 保持学术术语的准确性
2. 语言流畅自然，符合中文表达习惯
3. 保持原文的逻辑结构和技术细节
4. 只输出翻译结果，不要包含任何解释或额外内容

请直接输出翻译后的中文内容。`

// Summary holds the outcome of one translation run.
type Summary struct {
	Translated int
	Skipped    int
	Failed     int
}

// Translator fans abstract translations out across a bounded worker pool.
type Translator struct {
	client      *llm.Client
	concurrency int
}

// New returns a Translator using client; concurrency <= 0 falls back to
// the default of 5.
func New(client *llm.Client, concurrency int) *Translator {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Translator{client: client, concurrency: concurrency}
}

// TranslateAbstract translates one abstract. On failure the original text
// comes back, so downstream consumers always have something to show.
func (t *Translator) TranslateAbstract(ctx context.Context, abstract string) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: abstract},
	}
	out, err := t.client.ChatCompletion(ctx, messages, 0.3, 2048)
	if err != nil {
		return abstract, err
	}
	return llm.StripReasoning(out), nil
}

// TranslateAll fills in TranslatedAbstract for every paper with a
// non-empty abstract, at most t.concurrency requests in flight. Results
// are attached to papers by index, so completion order does not matter.
// Individual failures fall back to the original abstract and the run
// continues.
func (t *Translator) TranslateAll(ctx context.Context, papers []types.PaperRecord, w io.Writer) Summary {
	var mu sync.Mutex
	var sum Summary

	for i := range papers {
		if papers[i].Abstract == "" {
			sum.Skipped++
		}
	}
	total := len(papers) - sum.Skipped

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	for i := range papers {
		if papers[i].Abstract == "" {
			continue
		}

		g.Go(func() error {
			translated, err := t.TranslateAbstract(ctx, papers[i].Abstract)
			papers[i].TranslatedAbstract = translated

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sum.Failed++
				fmt.Fprintf(w, "warning: translating %s failed: %v\n", papers[i].ArxivID, err)
			} else {
				sum.Translated++
			}
			done := sum.Translated + sum.Failed
			fmt.Fprintf(w, "translated %d/%d\n", done, total)
			return nil
		})
	}

	g.Wait()
	return sum
}

// TranslateFile reads a crawled JSON file, translates its abstracts, and
// writes the augmented records back to the same path.
func (t *Translator) TranslateFile(ctx context.Context, path string, w io.Writer) (Summary, error) {
	papers, err := sink.ReadJSON(path)
	if err != nil {
		return Summary{}, err
	}
	fmt.Fprintf(w, "loaded %d papers from %s\n", len(papers), path)

	sum := t.TranslateAll(ctx, papers, w)

	if err := sink.WriteJSON(papers, path); err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "\nTranslation finished: %d translated, %d skipped, %d failed\n",
		sum.Translated, sum.Skipped, sum.Failed)
	return sum, nil
}
