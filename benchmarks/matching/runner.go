// ABOUTME: Benchmark runner that embeds scenario texts and ranks projects per job
// ABOUTME: Scores each ranking against ground truth and exports results as JSON

package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/ranking"
	"golang.org/x/sync/errgroup"
)

// PassMRR is the mean reciprocal rank a scenario needs to pass
const PassMRR = 0.75

const embedWorkers = 4

// Runner executes matching scenarios against an embedder
type Runner struct {
	embedder  core.Embedder
	topK      int
	threshold float64
	logger    *log.Logger
}

// JobResult is the ranking produced for one job post
type JobResult struct {
	JobID          string             `json:"job_id"`
	Ranked         []string           `json:"ranked"`
	Scores         map[string]float64 `json:"scores"`
	Relevant       []string           `json:"relevant"`
	Precision      float64            `json:"precision_at_k"`
	Recall         float64            `json:"recall_at_k"`
	ReciprocalRank float64            `json:"reciprocal_rank"`
	Skipped        int                `json:"skipped"`
}

// ScenarioResult aggregates job results for a scenario
type ScenarioResult struct {
	ScenarioID    string      `json:"scenario_id"`
	ScenarioName  string      `json:"scenario_name"`
	K             int         `json:"k"`
	MeanPrecision float64     `json:"mean_precision_at_k"`
	MeanRecall    float64     `json:"mean_recall_at_k"`
	MRR           float64     `json:"mrr"`
	Skipped       int         `json:"skipped"`
	Status        string      `json:"status"`
	Jobs          []JobResult `json:"jobs"`
}

// NewRunner creates a runner that keeps the top k projects scoring at least threshold
func NewRunner(embedder core.Embedder, topK int, threshold float64, logger *log.Logger) *Runner {
	if topK < 1 {
		topK = 1
	}
	return &Runner{
		embedder:  embedder,
		topK:      topK,
		threshold: threshold,
		logger:    logging.Component(logger, "benchmark"),
	}
}

// RunAll runs every scenario in order
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) ([]ScenarioResult, error) {
	results := make([]ScenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		res, err := r.Run(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Run embeds the scenario's projects once, then ranks them for each job
func (r *Runner) Run(ctx context.Context, s Scenario) (ScenarioResult, error) {
	start := time.Now()
	candidates, err := r.embedProjects(ctx, s.Projects)
	if err != nil {
		return ScenarioResult{}, err
	}

	result := ScenarioResult{
		ScenarioID:   s.ID,
		ScenarioName: s.Name,
		K:            r.topK,
		Jobs:         make([]JobResult, 0, len(s.Jobs)),
	}
	var precisions, recalls, rrs []float64

	for _, job := range s.Jobs {
		query, err := r.embedder.GenerateEmbedding(ctx, job.Text)
		if err != nil {
			return ScenarioResult{}, fmt.Errorf("embedding job %s: %w", job.ID, err)
		}
		ranked, err := ranking.Rank(query, candidates, r.topK, r.threshold)
		if err != nil {
			return ScenarioResult{}, fmt.Errorf("ranking job %s: %w", job.ID, err)
		}

		jr := JobResult{
			JobID:    job.ID,
			Ranked:   make([]string, 0, len(ranked.Matches)),
			Scores:   make(map[string]float64, len(ranked.Matches)),
			Relevant: job.Relevant,
			Skipped:  ranked.Skipped,
		}
		for _, m := range ranked.Matches {
			jr.Ranked = append(jr.Ranked, m.ID)
			jr.Scores[m.ID] = m.Score
		}
		jr.Precision = PrecisionAtK(jr.Ranked, job.Relevant, r.topK)
		jr.Recall = RecallAtK(jr.Ranked, job.Relevant, r.topK)
		jr.ReciprocalRank = ReciprocalRank(jr.Ranked, job.Relevant)

		precisions = append(precisions, jr.Precision)
		recalls = append(recalls, jr.Recall)
		rrs = append(rrs, jr.ReciprocalRank)
		result.Skipped += jr.Skipped
		result.Jobs = append(result.Jobs, jr)

		r.logger.Debug("job ranked", "scenario", s.ID, "job", job.ID, "ranked", jr.Ranked, "rr", jr.ReciprocalRank)
	}

	result.MeanPrecision = mean(precisions)
	result.MeanRecall = mean(recalls)
	result.MRR = mean(rrs)
	result.Status = "FAIL"
	if result.MRR >= PassMRR {
		result.Status = "PASS"
	}

	r.logger.Info("scenario complete", "scenario", s.ID, "mrr", result.MRR, "status", result.Status, "duration", time.Since(start))
	return result, nil
}

func (r *Runner) embedProjects(ctx context.Context, docs []Document) ([]ranking.Candidate[string], error) {
	candidates := make([]ranking.Candidate[string], len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedWorkers)
	for i, doc := range docs {
		g.Go(func() error {
			vec, err := r.embedder.GenerateEmbedding(gctx, doc.Text)
			if err != nil {
				return fmt.Errorf("embedding project %s: %w", doc.ID, err)
			}
			candidates[i] = ranking.Candidate[string]{ID: doc.ID, Vector: vec, Metadata: doc.ID}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return candidates, nil
}

// Summary is the exported benchmark report
type Summary struct {
	Timestamp string           `json:"timestamp"`
	Total     int              `json:"total_scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Results   []ScenarioResult `json:"results"`
}

// Summarize counts passes and failures
func Summarize(results []ScenarioResult) Summary {
	s := Summary{
		Timestamp: time.Now().Format(time.RFC3339),
		Total:     len(results),
		Results:   results,
	}
	for _, r := range results {
		if r.Status == "PASS" {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// ExportResults writes the summary to outputPath as indented JSON
func ExportResults(summary Summary, outputPath string) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
