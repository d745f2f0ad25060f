// ABOUTME: Tests for PortfolioService create, update, similarity, and reindex
// ABOUTME: Analysis runs against scripted fakes so results are deterministic
package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/harper/proposal-forge/internal/models"
)

const dashboardDescription = "An internal React dashboard with live sales charts, role-based access, and CSV export."

func TestPortfolioCreate(t *testing.T) {
	svc := newTestServices(t, scriptedCompleter(), newKeywordEmbedder())

	p, err := svc.Portfolio.Create(context.Background(), CreateProjectRequest{
		Name:        "  Sales Dashboard ",
		Description: dashboardDescription,
		GithubURL:   "https://github.com/x/sales",
		IsFeatured:  true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Name != "Sales Dashboard" || p.UserID != "user123" {
		t.Errorf("Name/UserID = %q/%q", p.Name, p.UserID)
	}
	if p.ProjectType != models.ProjectWebApp || p.AISummary != "A concise summary." {
		t.Errorf("analysis not applied: %+v", p)
	}
	if !p.HasEmbedding() {
		t.Error("new project should have an embedding")
	}

	stored, err := svc.Portfolio.Get(p.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(stored.Embedding) != len(p.Embedding) || !stored.IsFeatured {
		t.Errorf("stored project = %+v", stored)
	}
}

func TestPortfolioCreate_Validation(t *testing.T) {
	svc := newTestServices(t, scriptedCompleter(), newKeywordEmbedder())

	tests := []struct {
		name      string
		req       CreateProjectRequest
		wantField string
	}{
		{"missing name", CreateProjectRequest{Description: dashboardDescription}, "name"},
		{"missing description", CreateProjectRequest{Name: "x"}, "description"},
		{"short description", CreateProjectRequest{Name: "x", Description: "tiny"}, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Portfolio.Create(context.Background(), tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestPortfolioUpdate(t *testing.T) {
	completer := scriptedCompleter()
	svc := newTestServices(t, completer, newKeywordEmbedder())
	ctx := context.Background()

	p, err := svc.Portfolio.Create(ctx, CreateProjectRequest{Name: "Dash", Description: dashboardDescription})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	afterCreate := len(completer.recorded())

	featured := true
	live := "https://dash.example"
	updated, err := svc.Portfolio.Update(ctx, p.ID, UpdateProjectRequest{IsFeatured: &featured, LiveURL: &live})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.IsFeatured || updated.LiveURL != live {
		t.Errorf("Update() = %+v", updated)
	}
	if len(completer.recorded()) != afterCreate {
		t.Error("link-only update should not re-analyze")
	}

	desc := "A Python scraper that collects pricing data from dozens of retail sites every night."
	updated, err = svc.Portfolio.Update(ctx, p.ID, UpdateProjectRequest{Description: &desc})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(completer.recorded()) != afterCreate+2 {
		t.Errorf("description change should re-analyze, calls = %d", len(completer.recorded())-afterCreate)
	}
	if updated.Embedding[4] != 1 {
		t.Errorf("embedding not recomputed: %v", updated.Embedding)
	}

	short := "short"
	if _, err := svc.Portfolio.Update(ctx, p.ID, UpdateProjectRequest{Description: &short}); !errors.Is(err, ErrValidation) {
		t.Errorf("Update(short) error = %v, want ErrValidation", err)
	}
	if _, err := svc.Portfolio.Update(ctx, "missing", UpdateProjectRequest{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestPortfolioSimilar(t *testing.T) {
	svc := newTestServices(t, scriptedCompleter(), newKeywordEmbedder())
	seedPortfolio(t, svc.Proposals.store, "user123")

	got, err := svc.Portfolio.Similar(context.Background(), "", longDescription, 0)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	// threshold -1 keeps the zero-score Flutter project
	if len(got.Matches) != 2 {
		t.Errorf("len(Matches) = %d, want 2", len(got.Matches))
	}

	if _, err := svc.Portfolio.Similar(context.Background(), "", " ", 3); !errors.Is(err, ErrValidation) {
		t.Errorf("Similar(blank) error = %v, want ErrValidation", err)
	}
}

func TestPortfolioSimilar_EmbeddingOutage(t *testing.T) {
	embedder := newKeywordEmbedder()
	svc := newTestServices(t, scriptedCompleter(), embedder)
	seedPortfolio(t, svc.Proposals.store, "user123")
	embedder.fail = true

	got, err := svc.Portfolio.Similar(context.Background(), "", longDescription, 3)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if len(got.Matches) != 0 {
		t.Errorf("Matches = %d, want empty on outage", len(got.Matches))
	}
}

func TestPortfolioReindex(t *testing.T) {
	svc := newTestServices(t, scriptedCompleter(), newKeywordEmbedder())
	seedPortfolio(t, svc.Proposals.store, "user123")

	var (
		mu    sync.Mutex
		calls []int
	)
	result, err := svc.Portfolio.Reindex(context.Background(), "", func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, done)
		if total != 4 {
			t.Errorf("total = %d, want 4", total)
		}
	})
	if err != nil {
		t.Fatalf("Reindex() error = %v", err)
	}
	if result.Total != 4 || result.Updated != 4 || result.Failed != 0 {
		t.Errorf("Reindex() = %+v", result)
	}
	if len(calls) != 4 || calls[3] != 4 {
		t.Errorf("progress calls = %v", calls)
	}

	// the legacy 2-dim vector is replaced, so nothing is skipped any more
	outcome, err := svc.Portfolio.Similar(context.Background(), "", longDescription, 5)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if outcome.Skipped != 0 {
		t.Errorf("Skipped = %d after reindex, want 0", outcome.Skipped)
	}
}

func TestPortfolioReindex_CountsFailures(t *testing.T) {
	embedder := newKeywordEmbedder()
	svc := newTestServices(t, scriptedCompleter(), embedder)
	seedPortfolio(t, svc.Proposals.store, "user123")
	embedder.fail = true

	result, err := svc.Portfolio.Reindex(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Reindex() error = %v", err)
	}
	if result.Failed != 4 || result.Updated != 0 {
		t.Errorf("Reindex() = %+v, want 4 failures", result)
	}
}

func TestPortfolioDelete(t *testing.T) {
	svc := newTestServices(t, scriptedCompleter(), newKeywordEmbedder())
	seedPortfolio(t, svc.Proposals.store, "user123")

	if err := svc.Portfolio.Delete("react"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Portfolio.Delete("react"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}

	page, err := svc.Portfolio.List("", models.ProjectFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 3 {
		t.Errorf("Total = %d, want 3", page.Total)
	}
}
