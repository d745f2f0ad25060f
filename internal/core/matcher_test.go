// ABOUTME: Tests for Matcher portfolio ranking
// ABOUTME: Verifies thresholding, skipped-vector counting, and embedding failures

package core

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/ranking"
	"github.com/harper/proposal-forge/internal/storage/sqlite"
)

func seedPortfolio(t *testing.T, store *sqlite.Storage, userID string) {
	t.Helper()
	projects := []*models.PortfolioProject{
		{ID: "react", Name: "React Admin", Embedding: []float64{1, 1, 0, 0, 0, 0, 0, 1}, GithubURL: "https://github.com/x/admin"},
		{ID: "flutter", Name: "Flutter Shop", Embedding: []float64{0, 0, 1, 1, 0, 0, 0, 0}, AppStoreURL: "https://apps.example/shop"},
		{ID: "legacy", Name: "Legacy", Embedding: []float64{1, 1}},
		{ID: "pending", Name: "Pending"},
	}
	for _, p := range projects {
		p.UserID = userID
		p.Description = "description"
		if err := store.Portfolio().Save(p); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
}

func TestMatcher_FindSimilar(t *testing.T) {
	store := newTestStorage(t)
	seedPortfolio(t, store, "alice")
	matcher := NewMatcher(newKeywordEmbedder(), store.Portfolio(), logging.Discard())

	tests := []struct {
		name      string
		topK      int
		threshold float64
		wantIDs   []string
	}{
		{"default threshold", 2, 0.6, []string{"react"}},
		{"no cutoff", 3, -1, []string{"react", "flutter"}},
		{"top one", 1, -1, []string{"react"}},
		{"zero top k means one", 0, -1, []string{"react"}},
		{"nothing clears", 3, 1.01, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matcher.FindSimilar(context.Background(), "alice", longDescription, tt.topK, tt.threshold)
			if err != nil {
				t.Fatalf("FindSimilar() error = %v", err)
			}
			if got.Skipped != 1 {
				t.Errorf("Skipped = %d, want 1", got.Skipped)
			}
			if len(got.Matches) != len(tt.wantIDs) {
				t.Fatalf("len(Matches) = %d, want %d", len(got.Matches), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got.Matches[i].Project.ID != id {
					t.Errorf("Matches[%d] = %s, want %s", i, got.Matches[i].Project.ID, id)
				}
			}
		})
	}
}

func TestMatcher_Scores(t *testing.T) {
	store := newTestStorage(t)
	seedPortfolio(t, store, "alice")
	matcher := NewMatcher(newKeywordEmbedder(), store.Portfolio(), logging.Discard())

	got, err := matcher.FindSimilar(context.Background(), "alice", longDescription, 3, -1)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}
	if math.Abs(got.Matches[0].Score-1) > 1e-9 {
		t.Errorf("React score = %v, want 1", got.Matches[0].Score)
	}
	if got.Matches[1].Score != 0 {
		t.Errorf("Flutter score = %v, want 0", got.Matches[1].Score)
	}
}

func TestMatcher_EmptyPortfolioSkipsEmbedding(t *testing.T) {
	store := newTestStorage(t)
	embedder := newKeywordEmbedder()
	matcher := NewMatcher(embedder, store.Portfolio(), logging.Discard())

	got, err := matcher.FindSimilar(context.Background(), "nobody", longDescription, 2, 0.6)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}
	if got.Matches == nil || len(got.Matches) != 0 {
		t.Errorf("Matches = %v, want empty", got.Matches)
	}
	if embedder.callCount() != 0 {
		t.Error("no embedding call should be made without candidates")
	}
}

func TestMatcher_EmbeddingFailure(t *testing.T) {
	store := newTestStorage(t)
	seedPortfolio(t, store, "alice")
	embedder := newKeywordEmbedder()
	embedder.fail = true
	matcher := NewMatcher(embedder, store.Portfolio(), logging.Discard())

	_, err := matcher.FindSimilar(context.Background(), "alice", longDescription, 2, 0.6)
	if !errors.Is(err, ErrEmbeddingUnavailable) {
		t.Errorf("FindSimilar() error = %v, want ErrEmbeddingUnavailable", err)
	}
	if !errors.Is(err, errFake) {
		t.Errorf("FindSimilar() error = %v, want the provider error kept", err)
	}
}

// nanEmbedder returns a vector the ranker rejects
type nanEmbedder struct{}

func (nanEmbedder) GenerateEmbedding(context.Context, string) ([]float64, error) {
	return []float64{math.NaN(), 1, 0, 0, 0, 0, 0, 0}, nil
}

func TestMatcher_InvalidQueryEmbedding(t *testing.T) {
	store := newTestStorage(t)
	seedPortfolio(t, store, "alice")
	matcher := NewMatcher(nanEmbedder{}, store.Portfolio(), logging.Discard())

	_, err := matcher.FindSimilar(context.Background(), "alice", longDescription, 2, 0.6)
	if !errors.Is(err, ranking.ErrInvalidInput) {
		t.Errorf("FindSimilar() error = %v, want ranking.ErrInvalidInput", err)
	}
	if !errors.Is(err, ErrEmbeddingUnavailable) {
		t.Errorf("FindSimilar() error = %v, want ErrEmbeddingUnavailable", err)
	}
}

func TestMatcher_OtherUsersIgnored(t *testing.T) {
	store := newTestStorage(t)
	seedPortfolio(t, store, "bob")
	matcher := NewMatcher(newKeywordEmbedder(), store.Portfolio(), logging.Discard())

	got, err := matcher.FindSimilar(context.Background(), "alice", longDescription, 3, -1)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}
	if len(got.Matches) != 0 {
		t.Errorf("alice should not see bob's projects, got %d", len(got.Matches))
	}
}
