// ABOUTME: Test doubles for the LLM client plus a shared in-memory storage helper
// ABOUTME: keywordEmbedder produces deterministic vectors from keyword counts
package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/harper/proposal-forge/internal/llm"
	"github.com/harper/proposal-forge/internal/storage/sqlite"
)

var errFake = errors.New("fake API failure")

// keywordEmbedder maps text to keyword occurrence counts
type keywordEmbedder struct {
	keywords []string
	fail     bool

	mu    sync.Mutex
	calls int
}

func newKeywordEmbedder() *keywordEmbedder {
	return &keywordEmbedder{keywords: []string{"react", "dashboard", "flutter", "mobile", "python", "scraper", "api", "chart"}}
}

func (e *keywordEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float64, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.fail {
		return nil, errFake
	}
	lower := strings.ToLower(text)
	vec := make([]float64, len(e.keywords))
	for i, k := range e.keywords {
		vec[i] = float64(strings.Count(lower, k))
	}
	return vec, nil
}

func (e *keywordEmbedder) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// fakeCompleter answers with respond and records every request
type fakeCompleter struct {
	respond func(req llm.ChatRequest) (string, error)

	mu       sync.Mutex
	requests []llm.ChatRequest
}

func (c *fakeCompleter) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	if c.respond == nil {
		return "ok", nil
	}
	return c.respond(req)
}

func (c *fakeCompleter) recorded() []llm.ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]llm.ChatRequest(nil), c.requests...)
}

// scriptedCompleter answers analysis and proposal prompts with canned text
func scriptedCompleter() *fakeCompleter {
	return &fakeCompleter{respond: func(req llm.ChatRequest) (string, error) {
		switch {
		case req.JSON:
			return `{"tags":["dashboard"],"technologies":["React"],"project_type":"web_app","complexity_level":"advanced"}`, nil
		case strings.Contains(req.System, "professional summary"):
			return "A concise summary.", nil
		default:
			return "𝐇𝐢 𝐭𝐡𝐞𝐫𝐞,\n\nI can **definitely** help.\n\n𝐁𝐞𝐬𝐭 𝐑𝐞𝐠𝐚𝐫𝐝𝐬,\nSam", nil
		}
	}}
}

func newTestStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testSettings() Settings {
	s := DefaultSettings()
	s.DefaultUserID = "user123"
	return s
}

const longDescription = "We need an experienced developer to build a React dashboard with charts for our sales team."
