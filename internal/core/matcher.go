// ABOUTME: Matcher finds the portfolio projects most similar to a job description
// ABOUTME: Embeds the job text and ranks stored project vectors by cosine similarity
package core

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/ranking"
	"github.com/harper/proposal-forge/internal/storage/sqlite"
)

// Matcher ranks a user's embedded projects against job descriptions
type Matcher struct {
	embedder Embedder
	projects *sqlite.PortfolioStore
	logger   *log.Logger
}

// MatchOutcome is the ranked result plus the number of projects whose
// stored vectors could not be compared with the job vector
type MatchOutcome struct {
	Matches []models.SimilarProject `json:"matches"`
	Skipped int                     `json:"skipped"`
}

// NewMatcher creates a new Matcher
func NewMatcher(embedder Embedder, projects *sqlite.PortfolioStore, logger *log.Logger) *Matcher {
	return &Matcher{
		embedder: embedder,
		projects: projects,
		logger:   logging.Component(logger, "matcher"),
	}
}

// FindSimilar returns at most topK of the user's projects scoring at least threshold
func (m *Matcher) FindSimilar(ctx context.Context, userID, jobDescription string, topK int, threshold float64) (*MatchOutcome, error) {
	projects, err := m.projects.ListEmbedded(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	if len(projects) == 0 {
		return &MatchOutcome{Matches: []models.SimilarProject{}}, nil
	}

	query, err := m.embedder.GenerateEmbedding(ctx, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}

	candidates := make([]ranking.Candidate[*models.PortfolioProject], 0, len(projects))
	for _, p := range projects {
		candidates = append(candidates, ranking.Candidate[*models.PortfolioProject]{
			ID:       p.ID,
			Vector:   p.Embedding,
			Metadata: p,
		})
	}

	result, err := ranking.Rank(query, candidates, topK, threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: unusable query embedding: %w", ErrEmbeddingUnavailable, err)
	}
	if result.Skipped > 0 {
		m.logger.Warn("skipped projects with incompatible embeddings",
			"user", userID, "skipped", result.Skipped, "dimensions", len(query))
	}

	out := &MatchOutcome{
		Matches: make([]models.SimilarProject, 0, len(result.Matches)),
		Skipped: result.Skipped,
	}
	for _, match := range result.Matches {
		out.Matches = append(out.Matches, models.SimilarProject{Project: match.Metadata, Score: match.Score})
	}
	m.logger.Debug("ranked portfolio", "user", userID, "candidates", len(candidates), "matches", len(out.Matches))
	return out, nil
}
