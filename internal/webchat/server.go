// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package webchat serves a small browser chat over a crawled paper file.
// Questions are answered from paper abstracts via the LLM endpoint, and
// every exchange is persisted back into the paper file so a session can
// be picked up later.
package webchat

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/arxiv-assistant/internal/chatbot"
	"github.com/pdiddy/arxiv-assistant/internal/llm"
	"github.com/pdiddy/arxiv-assistant/internal/sink"
	"github.com/pdiddy/arxiv-assistant/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultMaxLoadPapers = 10

// Server owns the paper set for one chat session. The papers slice and
// the skip set are guarded by mu; gin runs handlers concurrently.
type Server struct {
	client *llm.Client
	cfg    types.WebConfig
	path   string

	mu      sync.Mutex
	papers  []types.PaperRecord
	skipped map[string]bool
}

// NewServer loads the paper file at path and prepares a server for it.
func NewServer(client *llm.Client, cfg types.WebConfig, path string) (*Server, error) {
	papers, err := sink.ReadJSON(path)
	if err != nil {
		return nil, err
	}
	if cfg.MaxLoadPapers <= 0 {
		cfg.MaxLoadPapers = defaultMaxLoadPapers
	}
	return &Server{
		client:  client,
		cfg:     cfg,
		path:    path,
		papers:  papers,
		skipped: make(map[string]bool),
	}, nil
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.GET("/", s.handleIndex)
	r.GET("/papers", s.handlePapers)
	r.POST("/chat", s.handleChat)
	r.POST("/skip", s.handleSkip)
	return r
}

// Run serves until the listener fails.
func (s *Server) Run(w io.Writer) error {
	fmt.Fprintf(w, "web chat listening on %s (%d papers)\n", s.cfg.Addr, len(s.papers))
	return s.Router().Run(s.cfg.Addr)
}

func (s *Server) handleIndex(c *gin.Context) {
	s.mu.Lock()
	count := len(s.papers)
	s.mu.Unlock()
	c.HTML(http.StatusOK, "chat.html", gin.H{
		"PaperCount": count,
		"Model":      s.cfg.Model,
	})
}

// paperSummary is the /papers listing shape.
type paperSummary struct {
	ArxivID   string `json:"arxiv_id"`
	Title     string `json:"title"`
	Skipped   bool   `json:"skipped"`
	Exchanges int    `json:"exchanges"`
}

func (s *Server) handlePapers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]paperSummary, 0, len(s.papers))
	for i := range s.papers {
		p := &s.papers[i]
		out = append(out, paperSummary{
			ArxivID:   p.ArxivID,
			Title:     p.Title,
			Skipped:   s.skipped[p.ArxivID],
			Exchanges: len(p.Conversation),
		})
	}
	c.JSON(http.StatusOK, out)
}

type chatRequest struct {
	Question string `json:"question"`
}

// ChatResult is one answer block: either a combined answer over all
// active papers or a per-paper answer when the set is too large for one
// prompt.
type ChatResult struct {
	Type       string `json:"type"` // "all_papers", "single_paper", or "error"
	PaperID    string `json:"paper_id,omitempty"`
	PaperTitle string `json:"paper_title,omitempty"`
	PaperCount int    `json:"paper_count,omitempty"`
	Response   string `json:"response"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	results := s.answer(c.Request.Context(), req.Question)

	if err := s.persist(); err != nil {
		// The answer still stands; losing the conversation log is not
		// worth failing the request over.
		results = append(results, ChatResult{Type: "error", Response: fmt.Sprintf("saving conversation failed: %v", err)})
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// answer routes the question through one combined prompt when the active
// set fits, or one prompt per paper when it does not.
func (s *Server) answer(ctx context.Context, question string) []ChatResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []*types.PaperRecord
	for i := range s.papers {
		if !s.skipped[s.papers[i].ArxivID] {
			active = append(active, &s.papers[i])
		}
	}

	var results []ChatResult
	if len(active) <= s.cfg.MaxLoadPapers {
		answer, err := chatbot.AskAllPapers(ctx, s.client, active, question)
		if err != nil {
			return []ChatResult{{Type: "error", Response: err.Error(), PaperCount: len(active)}}
		}
		results = append(results, ChatResult{
			Type:       "all_papers",
			PaperCount: len(active),
			Response:   answer,
		})
		for _, p := range active {
			p.Conversation = append(p.Conversation, types.Exchange{Question: question, Response: answer})
		}
		return results
	}

	for _, p := range active {
		answer, err := chatbot.AskSinglePaper(ctx, s.client, p, question)
		if err != nil {
			results = append(results, ChatResult{
				Type:       "error",
				PaperID:    p.ArxivID,
				PaperTitle: p.Title,
				Response:   err.Error(),
			})
			continue
		}
		results = append(results, ChatResult{
			Type:       "single_paper",
			PaperID:    p.ArxivID,
			PaperTitle: p.Title,
			Response:   answer,
		})
		p.Conversation = append(p.Conversation, types.Exchange{Question: question, Response: answer})
	}
	return results
}

type skipRequest struct {
	PaperIDs []string `json:"paper_ids"`
	Skip     *bool    `json:"skip"` // defaults to true
}

func (s *Server) handleSkip(c *gin.Context) {
	var req skipRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.PaperIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paper_ids is required"})
		return
	}
	skip := req.Skip == nil || *req.Skip

	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]bool, len(s.papers))
	for i := range s.papers {
		known[s.papers[i].ArxivID] = true
	}

	changed := make([]string, 0, len(req.PaperIDs))
	for _, id := range req.PaperIDs {
		if !known[id] {
			continue
		}
		if skip {
			s.skipped[id] = true
		} else {
			delete(s.skipped, id)
		}
		changed = append(changed, id)
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed, "skip": skip, "active": s.activeCountLocked()})
}

func (s *Server) activeCountLocked() int {
	return len(s.papers) - len(s.skipped)
}

// persist writes the papers, with their conversation logs, back to disk.
func (s *Server) persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sink.WriteJSON(s.papers, s.path)
}
