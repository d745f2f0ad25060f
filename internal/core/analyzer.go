// ABOUTME: PortfolioAnalyzer derives tags, type, complexity, summary, and embedding for a project
// ABOUTME: Runs the metadata, summary, and embedding calls concurrently with errgroup
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/proposal-forge/internal/llm"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/models"
	"golang.org/x/sync/errgroup"
)

const metadataPrompt = `You are a technical project analyst. Analyze the given project and return a JSON object with exactly these keys:

{
  "tags": ["tag1", "tag2"],
  "technologies": ["tech1", "tech2"],
  "project_type": "web_app|mobile_app|api|data_science|machine_learning|desktop_app|game|blockchain|other",
  "complexity_level": "beginner|intermediate|advanced|expert"
}

Guidelines:
- tags: 5-8 relevant keywords (for example "e-commerce", "real-time", "authentication")
- technologies: frameworks, languages, and services mentioned or clearly implied
- project_type: the single best category
- complexity_level: based on the technical scope described

Return ONLY the JSON object.`

const summaryPrompt = `Write a concise, professional summary of this project in 2-3 sentences.
Cover what it does, the key technical highlights, and the main technologies.
Keep it under 100 words and suitable for a portfolio.`

// PortfolioAnalyzer enriches portfolio projects using the LLM
type PortfolioAnalyzer struct {
	completer Completer
	embedder  Embedder
	logger    *log.Logger
}

// NewPortfolioAnalyzer creates a new PortfolioAnalyzer
func NewPortfolioAnalyzer(completer Completer, embedder Embedder, logger *log.Logger) *PortfolioAnalyzer {
	return &PortfolioAnalyzer{
		completer: completer,
		embedder:  embedder,
		logger:    logging.Component(logger, "analyzer"),
	}
}

// Analyze runs the three analysis calls in parallel. Only a metadata API
// failure fails the analysis; the summary and embedding degrade instead.
func (a *PortfolioAnalyzer) Analyze(ctx context.Context, name, description string) (*models.ProjectAnalysis, error) {
	var (
		analysis  *models.ProjectAnalysis
		summary   string
		embedding []float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		meta, err := a.extractMetadata(gctx, name, description)
		if err != nil {
			return err
		}
		analysis = meta
		return nil
	})
	g.Go(func() error {
		summary = a.summarize(gctx, name, description)
		return nil
	})
	g.Go(func() error {
		embedding = a.embedProject(gctx, name, description)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to analyze project %q: %w", name, err)
	}

	analysis.Summary = summary
	analysis.Embedding = embedding
	a.logger.Debug("analyzed project", "name", name, "type", analysis.ProjectType, "dimensions", len(embedding))
	return analysis, nil
}

// Embed computes the matching vector for a project
func (a *PortfolioAnalyzer) Embed(ctx context.Context, name, description string) ([]float64, error) {
	return a.embedder.GenerateEmbedding(ctx, projectText(name, description))
}

func (a *PortfolioAnalyzer) extractMetadata(ctx context.Context, name, description string) (*models.ProjectAnalysis, error) {
	raw, err := a.completer.Complete(ctx, llm.ChatRequest{
		System:      metadataPrompt,
		User:        fmt.Sprintf("Project Name: %s\n\nProject Description: %s", name, description),
		MaxTokens:   300,
		Temperature: 0.3,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("metadata extraction failed: %w", err)
	}
	return parseMetadata(raw, a.logger), nil
}

// parseMetadata never fails: unparseable output yields the default analysis
func parseMetadata(raw string, logger *log.Logger) *models.ProjectAnalysis {
	var payload struct {
		Tags            []string `json:"tags"`
		Technologies    []string `json:"technologies"`
		ProjectType     string   `json:"project_type"`
		ComplexityLevel string   `json:"complexity_level"`
	}

	out := models.DefaultAnalysis()
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		logger.Warn("metadata response was not valid JSON, using defaults", "err", err)
		return out
	}

	out.Tags = cleanList(payload.Tags)
	out.Technologies = cleanList(payload.Technologies)
	out.ProjectType = models.NormalizeProjectType(payload.ProjectType)
	out.ComplexityLevel = models.NormalizeComplexity(payload.ComplexityLevel)
	return out
}

func (a *PortfolioAnalyzer) summarize(ctx context.Context, name, description string) string {
	summary, err := a.completer.Complete(ctx, llm.ChatRequest{
		System:      summaryPrompt,
		User:        fmt.Sprintf("Project: %s\n\nDescription: %s", name, description),
		MaxTokens:   150,
		Temperature: 0.5,
	})
	if err != nil {
		a.logger.Warn("summary generation failed, using fallback", "name", name, "err", err)
		return fallbackSummary(name)
	}
	return summary
}

func (a *PortfolioAnalyzer) embedProject(ctx context.Context, name, description string) []float64 {
	vec, err := a.Embed(ctx, name, description)
	if err != nil {
		a.logger.Warn("embedding failed, project will not be matched", "name", name, "err", err)
		return []float64{}
	}
	return vec
}

func fallbackSummary(name string) string {
	return fmt.Sprintf("A %s project with comprehensive functionality.", name)
}

func projectText(name, description string) string {
	return name + ": " + description
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
