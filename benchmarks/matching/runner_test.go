// ABOUTME: Tests for the matching benchmark runner
// ABOUTME: Uses a keyword-count embedder so rankings are deterministic

package matching

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/proposal-forge/internal/logging"
)

// keywordEmbedder maps text onto one axis per keyword
type keywordEmbedder struct {
	keywords []string
	short    string // texts containing this get a vector of the wrong size
	fail     string // texts containing this fail to embed
}

func (e keywordEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float64, error) {
	lower := strings.ToLower(text)
	if e.fail != "" && strings.Contains(lower, e.fail) {
		return nil, errors.New("embedding service down")
	}
	if e.short != "" && strings.Contains(lower, e.short) {
		return []float64{1}, nil
	}
	vec := make([]float64, len(e.keywords))
	for i, kw := range e.keywords {
		vec[i] = float64(strings.Count(lower, kw))
	}
	return vec, nil
}

func testScenario() Scenario {
	return Scenario{
		ID:   "test",
		Name: "Keyword scenario",
		Projects: []Document{
			{ID: "app", Text: "flutter mobile app"},
			{ID: "dash", Text: "react dashboard"},
			{ID: "model", Text: "python model"},
		},
		Jobs: []Job{
			{ID: "j-mobile", Text: "need a mobile flutter dev", Relevant: []string{"app"}},
			{ID: "j-dash", Text: "react dashboard with python api", Relevant: []string{"dash", "model"}},
		},
	}
}

func newTestRunner(e keywordEmbedder, topK int) *Runner {
	return NewRunner(e, topK, 0, logging.Discard())
}

var keywords = []string{"flutter", "mobile", "react", "dashboard", "python"}

func TestRunner_Run(t *testing.T) {
	runner := newTestRunner(keywordEmbedder{keywords: keywords}, 2)

	res, err := runner.Run(context.Background(), testScenario())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(res.Jobs) != 2 {
		t.Fatalf("len(Jobs) = %d, want 2", len(res.Jobs))
	}
	mobile := res.Jobs[0]
	if len(mobile.Ranked) == 0 || mobile.Ranked[0] != "app" {
		t.Errorf("mobile ranking = %v, want app first", mobile.Ranked)
	}
	if !almostEqual(mobile.Scores["app"], 1) {
		t.Errorf("app score = %v, want 1", mobile.Scores["app"])
	}

	dash := res.Jobs[1]
	if dash.Ranked[0] != "dash" {
		t.Errorf("dashboard ranking = %v, want dash first", dash.Ranked)
	}
	if !almostEqual(dash.Recall, 1) {
		t.Errorf("dashboard recall = %v, want 1", dash.Recall)
	}

	if !almostEqual(res.MRR, 1) || res.Status != "PASS" {
		t.Errorf("MRR = %v status = %s, want 1 PASS", res.MRR, res.Status)
	}
}

func TestRunner_CountsSkipped(t *testing.T) {
	runner := newTestRunner(keywordEmbedder{keywords: keywords, short: "python model"}, 3)

	res, err := runner.Run(context.Background(), testScenario())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// the model project is skipped once per job
	if res.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", res.Skipped)
	}
	for _, jr := range res.Jobs {
		for _, id := range jr.Ranked {
			if id == "model" {
				t.Errorf("job %s ranked the skipped project", jr.JobID)
			}
		}
	}
}

func TestRunner_EmbeddingFailure(t *testing.T) {
	runner := newTestRunner(keywordEmbedder{keywords: keywords, fail: "react"}, 2)

	if _, err := runner.Run(context.Background(), testScenario()); err == nil {
		t.Fatal("Run() should fail when a project cannot be embedded")
	}
	if _, err := runner.RunAll(context.Background(), []Scenario{testScenario()}); err == nil {
		t.Fatal("RunAll() should propagate scenario errors")
	}
}

func TestRunner_FailingScenario(t *testing.T) {
	s := testScenario()
	s.Jobs = []Job{{ID: "wrong", Text: "flutter mobile", Relevant: []string{"model"}}}

	res, err := newTestRunner(keywordEmbedder{keywords: keywords}, 1).Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Status != "FAIL" {
		t.Errorf("Status = %s, want FAIL", res.Status)
	}
}

func TestDefaultScenarios_WellFormed(t *testing.T) {
	for _, s := range DefaultScenarios() {
		t.Run(s.ID, func(t *testing.T) {
			ids := make(map[string]bool)
			for _, p := range s.Projects {
				if ids[p.ID] {
					t.Errorf("duplicate project ID %s", p.ID)
				}
				ids[p.ID] = true
			}
			for _, j := range s.Jobs {
				if len(j.Relevant) == 0 {
					t.Errorf("job %s has no relevant projects", j.ID)
				}
				for _, id := range j.Relevant {
					if !ids[id] {
						t.Errorf("job %s references unknown project %s", j.ID, id)
					}
				}
			}
		})
	}

	if _, ok := ScenarioByID("mixed"); !ok {
		t.Error("ScenarioByID(mixed) not found")
	}
	if _, ok := ScenarioByID("nope"); ok {
		t.Error("ScenarioByID(nope) should not be found")
	}
}

func TestExportResults(t *testing.T) {
	results := []ScenarioResult{
		{ScenarioID: "a", Status: "PASS"},
		{ScenarioID: "b", Status: "FAIL"},
	}
	summary := Summarize(results)
	if summary.Passed != 1 || summary.Failed != 1 || summary.Total != 2 {
		t.Errorf("Summarize() = %+v", summary)
	}

	path := filepath.Join(t.TempDir(), "results.json")
	if err := ExportResults(summary, path); err != nil {
		t.Fatalf("ExportResults() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var back Summary
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("results are not JSON: %v", err)
	}
	if len(back.Results) != 2 {
		t.Errorf("len(Results) = %d, want 2", len(back.Results))
	}
}
