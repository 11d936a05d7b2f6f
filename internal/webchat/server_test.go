// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package webchat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/pdiddy/arxiv-assistant/internal/llm"
	"github.com/pdiddy/arxiv-assistant/internal/sink"
	"github.com/pdiddy/arxiv-assistant/pkg/types"
)

// stubLLM counts completion requests and records the context message of
// each one.
type stubLLM struct {
	mu       sync.Mutex
	contexts []string
	reply    string
}

func (s *stubLLM) client(t *testing.T) *llm.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []llm.Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		s.mu.Lock()
		s.contexts = append(s.contexts, body.Messages[1].Content)
		s.mu.Unlock()
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%s}}]}`, strconv.Quote(s.reply))
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, _ := strconv.Atoi(u.Port())
	return llm.NewClient(srv.Client(), types.LLMConfig{
		Model: "test-model",
		Host:  u.Hostname(),
		Port:  port,
	})
}

func webPapers() []types.PaperRecord {
	return []types.PaperRecord{
		{ArxivID: "2506.01111v1", Title: "Paper One", Abstract: "first abstract"},
		{ArxivID: "2506.02222v1", Title: "Paper Two", Abstract: "second abstract"},
		{ArxivID: "2506.03333v1", Title: "Paper Three", Abstract: "third abstract"},
	}
}

func testServer(t *testing.T, stub *stubLLM, maxLoad int) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "papers.json")
	if err := sink.WriteJSON(webPapers(), path); err != nil {
		t.Fatal(err)
	}

	cfg := types.WebConfig{Addr: ":0"}
	cfg.Model = "test-model"
	cfg.MaxLoadPapers = maxLoad
	srv, err := NewServer(stub.client(t), cfg, path)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv, path
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatCombinesSmallPaperSets(t *testing.T) {
	stub := &stubLLM{reply: "a combined answer"}
	srv, path := testServer(t, stub, 10)
	router := srv.Router()

	w := postJSON(t, router, "/chat", map[string]string{"question": "what do these study?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Results []ChatResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Type != "all_papers" {
		t.Fatalf("results = %+v, want one all_papers answer", resp.Results)
	}
	if resp.Results[0].PaperCount != 3 {
		t.Errorf("PaperCount = %d, want 3", resp.Results[0].PaperCount)
	}

	stub.mu.Lock()
	if len(stub.contexts) != 1 || !strings.Contains(stub.contexts[0], "=== 论文 3 ===") {
		t.Errorf("combined prompt should pack all three papers: %d requests", len(stub.contexts))
	}
	stub.mu.Unlock()

	// The exchange is persisted on every active paper.
	saved, err := sink.ReadJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range saved {
		if len(p.Conversation) != 1 || p.Conversation[0].Response != "a combined answer" {
			t.Errorf("paper %s conversation = %+v, want the recorded exchange", p.ArxivID, p.Conversation)
		}
	}
}

func TestChatFansOutLargePaperSets(t *testing.T) {
	stub := &stubLLM{reply: "per-paper answer"}
	srv, _ := testServer(t, stub, 2)

	w := postJSON(t, srv.Router(), "/chat", map[string]string{"question": "details?"})

	var resp struct {
		Results []ChatResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("results = %d, want one per paper", len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.Type != "single_paper" || r.PaperID == "" {
			t.Errorf("result = %+v, want single_paper with an id", r)
		}
	}
}

func TestChatRejectsEmptyQuestion(t *testing.T) {
	srv, _ := testServer(t, &stubLLM{reply: "x"}, 10)

	w := postJSON(t, srv.Router(), "/chat", map[string]string{"question": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSkipExcludesPapersFromContext(t *testing.T) {
	stub := &stubLLM{reply: "answer"}
	srv, _ := testServer(t, stub, 10)
	router := srv.Router()

	w := postJSON(t, router, "/skip", map[string]any{"paper_ids": []string{"2506.02222v1"}})
	if w.Code != http.StatusOK {
		t.Fatalf("skip status = %d, want 200", w.Code)
	}

	postJSON(t, router, "/chat", map[string]string{"question": "q"})

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if len(stub.contexts) != 1 {
		t.Fatalf("requests = %d, want 1", len(stub.contexts))
	}
	if strings.Contains(stub.contexts[0], "Paper Two") {
		t.Error("skipped paper still present in prompt context")
	}
	if !strings.Contains(stub.contexts[0], "Paper One") || !strings.Contains(stub.contexts[0], "Paper Three") {
		t.Error("active papers missing from prompt context")
	}
}

func TestSkipUnknownIDIgnored(t *testing.T) {
	srv, _ := testServer(t, &stubLLM{reply: "x"}, 10)

	w := postJSON(t, srv.Router(), "/skip", map[string]any{"paper_ids": []string{"nope"}})
	var resp struct {
		Changed []string `json:"changed"`
		Active  int      `json:"active"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Changed) != 0 || resp.Active != 3 {
		t.Errorf("changed = %v active = %d, want no change", resp.Changed, resp.Active)
	}
}

func TestPapersListing(t *testing.T) {
	srv, _ := testServer(t, &stubLLM{reply: "x"}, 10)
	router := srv.Router()

	postJSON(t, router, "/skip", map[string]any{"paper_ids": []string{"2506.01111v1"}})

	req := httptest.NewRequest(http.MethodGet, "/papers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var papers []paperSummary
	if err := json.Unmarshal(w.Body.Bytes(), &papers); err != nil {
		t.Fatal(err)
	}
	if len(papers) != 3 {
		t.Fatalf("papers = %d, want 3", len(papers))
	}
	if !papers[0].Skipped || papers[1].Skipped {
		t.Errorf("skip flags wrong: %+v", papers)
	}
}

func TestIndexRenders(t *testing.T) {
	srv, _ := testServer(t, &stubLLM{reply: "x"}, 10)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "3 papers loaded") {
		t.Errorf("index page missing paper count: %q", w.Body.String()[:120])
	}
}
