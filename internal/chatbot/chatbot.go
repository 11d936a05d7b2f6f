// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chatbot answers questions about a crawled paper set by packing
// paper metadata and abstracts into LLM prompt context. It backs both the
// console REPL and the web chat server.
package chatbot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/arxiv-assistant/internal/llm"
	"github.com/pdiddy/arxiv-assistant/pkg/types"
)

const (
	defaultHistoryLimit = 10

	answerTemperature = 0.7
	answerMaxTokens   = 2048
	// Combined prompts pack many abstracts, so the answer budget is wider.
	combinedMaxTokens = 4096
)

// systemPrompt frames the assistant role. Answers must stay grounded in
// the provided abstracts.
const systemPrompt = `你是一个专业的学术论文分析助手。你的任务是基于提供的ArXiv论文摘要来回答用户的问题。

请遵循以下原则：
1. 仅基于提供的论文摘要内容回答问题
2. 如果问题无法从提供的摘要中找到答案，请明确说明
3. 回答时可以引用具体的论文标题和作者，并提供ArXiv ID以便查找
4. 保持专业、准确、有条理的回答风格
5. 支持中英文问答`

// paperContext renders one paper's metadata block. The translated
// abstract wins over the original when present.
func paperContext(b *strings.Builder, p *types.PaperRecord) {
	fmt.Fprintf(b, "标题: %s\n", p.Title)
	fmt.Fprintf(b, "ArXiv ID: %s\n", p.ArxivID)
	fmt.Fprintf(b, "作者: %s\n", strings.Join(p.Authors, ", "))
	fmt.Fprintf(b, "分类: %s\n", strings.Join(p.Categories, ", "))
	fmt.Fprintf(b, "发布时间: %s\n", p.Published)
	fmt.Fprintf(b, "摘要: %s\n", p.BestAbstract())
}

// ContextAll packs every paper into one prompt block.
func ContextAll(papers []*types.PaperRecord) string {
	var b strings.Builder
	b.WriteString("以下是相关的学术论文摘要信息，请基于这些内容回答用户的问题：\n\n")
	for i, p := range papers {
		fmt.Fprintf(&b, "=== 论文 %d ===\n", i+1)
		paperContext(&b, p)
		b.WriteString("\n")
	}
	return b.String()
}

// ContextSingle packs one paper, optionally replaying its recorded
// conversation so follow-up questions stay coherent.
func ContextSingle(p *types.PaperRecord, includeHistory bool) string {
	var b strings.Builder
	b.WriteString("以下是相关的学术论文信息：\n\n")
	paperContext(&b, p)

	if includeHistory && len(p.Conversation) > 0 {
		b.WriteString("\n--- 历史对话 ---\n")
		for _, ex := range p.Conversation {
			fmt.Fprintf(&b, "用户: %s\n", ex.Question)
			fmt.Fprintf(&b, "助手: %s\n", ex.Response)
		}
		b.WriteString("--- 历史对话结束 ---\n")
	}
	return b.String()
}

// AskAllPapers answers a question against the combined context of papers.
func AskAllPapers(ctx context.Context, client *llm.Client, papers []*types.PaperRecord, question string) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: ContextAll(papers)},
		{Role: "user", Content: question},
	}
	return client.ChatCompletion(ctx, messages, answerTemperature, combinedMaxTokens)
}

// AskSinglePaper answers a question against one paper, including its
// recorded conversation.
func AskSinglePaper(ctx context.Context, client *llm.Client, p *types.PaperRecord, question string) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: ContextSingle(p, true)},
		{Role: "user", Content: question},
	}
	return client.ChatCompletion(ctx, messages, answerTemperature, answerMaxTokens)
}

// Bot is the stateful console chatbot: it sends the paper context once,
// on the first turn, and replays a capped rolling history afterwards.
type Bot struct {
	client       *llm.Client
	papers       []types.PaperRecord
	history      []llm.Message
	historyLimit int
}

// NewBot builds a console bot over papers.
func NewBot(client *llm.Client, papers []types.PaperRecord, historyLimit int) *Bot {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Bot{client: client, papers: papers, historyLimit: historyLimit}
}

// Ask sends one question and records the exchange in the rolling history.
func (b *Bot) Ask(ctx context.Context, question string) (string, error) {
	messages := []llm.Message{{Role: "system", Content: systemPrompt}}

	// The paper context goes out once; later turns rely on the history.
	if len(b.history) == 0 {
		refs := make([]*types.PaperRecord, len(b.papers))
		for i := range b.papers {
			refs[i] = &b.papers[i]
		}
		messages = append(messages, llm.Message{Role: "system", Content: ContextAll(refs)})
	}

	messages = append(messages, b.recentHistory()...)
	messages = append(messages, llm.Message{Role: "user", Content: question})

	answer, err := b.client.ChatCompletion(ctx, messages, answerTemperature, answerMaxTokens)
	if err != nil {
		return "", err
	}

	b.history = append(b.history,
		llm.Message{Role: "user", Content: question},
		llm.Message{Role: "assistant", Content: answer},
	)
	return answer, nil
}

// recentHistory returns the last historyLimit exchanges.
func (b *Bot) recentHistory() []llm.Message {
	max := b.historyLimit * 2
	if len(b.history) <= max {
		return b.history
	}
	return b.history[len(b.history)-max:]
}

// RunConsole reads questions from in until EOF or a quit command and
// writes answers to out.
func (b *Bot) RunConsole(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Loaded %d papers. Ask anything about them; type 'quit' to leave.\n", len(b.papers))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		switch strings.ToLower(question) {
		case "quit", "exit", "q":
			fmt.Fprintln(out, "Bye.")
			return nil
		}

		answer, err := b.Ask(ctx, question)
		if err != nil {
			fmt.Fprintf(out, "warning: request failed: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "\nAssistant: %s\n", answer)
	}
	return scanner.Err()
}
