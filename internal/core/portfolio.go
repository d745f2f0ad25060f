// ABOUTME: PortfolioService manages portfolio projects and their AI analysis
// ABOUTME: Handles create/update with re-analysis, similarity search, and bounded-parallel reindexing
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/storage/sqlite"
	"github.com/harper/proposal-forge/internal/util"
	"golang.org/x/sync/errgroup"
)

// reindexWorkers bounds concurrent embedding calls during Reindex
const reindexWorkers = 4

// PortfolioService manages a user's portfolio
type PortfolioService struct {
	store    *sqlite.Storage
	analyzer *PortfolioAnalyzer
	matcher  *Matcher
	settings Settings
	logger   *log.Logger
}

// CreateProjectRequest describes a new portfolio project
type CreateProjectRequest struct {
	UserID      string
	Name        string
	Description string
	GithubURL   string
	LiveURL     string
	AppStoreURL string
	Images      []string
	IsFeatured  bool
}

// UpdateProjectRequest is a partial update; nil fields are left unchanged
type UpdateProjectRequest struct {
	Name        *string
	Description *string
	GithubURL   *string
	LiveURL     *string
	AppStoreURL *string
	Images      []string
	IsFeatured  *bool
}

// ReindexResult reports how a reindex went
type ReindexResult struct {
	Total   int `json:"total"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(store *sqlite.Storage, analyzer *PortfolioAnalyzer, matcher *Matcher, settings Settings, logger *log.Logger) *PortfolioService {
	return &PortfolioService{
		store:    store,
		analyzer: analyzer,
		matcher:  matcher,
		settings: settings,
		logger:   logging.Component(logger, "portfolio"),
	}
}

// Create analyzes and stores a new project
func (s *PortfolioService) Create(ctx context.Context, req CreateProjectRequest) (*models.PortfolioProject, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if err := s.validate(name, description); err != nil {
		return nil, err
	}

	analysis, err := s.analyzer.Analyze(ctx, name, description)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project := &models.PortfolioProject{
		ID:          uuid.New().String(),
		UserID:      s.settings.userOrDefault(req.UserID),
		Name:        name,
		Description: description,
		GithubURL:   strings.TrimSpace(req.GithubURL),
		LiveURL:     strings.TrimSpace(req.LiveURL),
		AppStoreURL: strings.TrimSpace(req.AppStoreURL),
		Images:      nonNil(req.Images),
		IsFeatured:  req.IsFeatured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	project.ApplyAnalysis(analysis)

	if err := s.store.Portfolio().Save(project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	s.logger.Info("created project", "id", project.ID, "name", project.Name, "type", project.ProjectType)
	return project, nil
}

// Update applies a partial update, re-analyzing when the name or description changes
func (s *PortfolioService) Update(ctx context.Context, id string, req UpdateProjectRequest) (*models.PortfolioProject, error) {
	project, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	reanalyze := false
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != project.Name {
			project.Name = name
			reanalyze = true
		}
	}
	if req.Description != nil {
		if description := strings.TrimSpace(*req.Description); description != project.Description {
			project.Description = description
			reanalyze = true
		}
	}
	if err := s.validate(project.Name, project.Description); err != nil {
		return nil, err
	}

	if req.GithubURL != nil {
		project.GithubURL = strings.TrimSpace(*req.GithubURL)
	}
	if req.LiveURL != nil {
		project.LiveURL = strings.TrimSpace(*req.LiveURL)
	}
	if req.AppStoreURL != nil {
		project.AppStoreURL = strings.TrimSpace(*req.AppStoreURL)
	}
	if req.Images != nil {
		project.Images = req.Images
	}
	if req.IsFeatured != nil {
		project.IsFeatured = *req.IsFeatured
	}

	if reanalyze {
		analysis, err := s.analyzer.Analyze(ctx, project.Name, project.Description)
		if err != nil {
			return nil, err
		}
		project.ApplyAnalysis(analysis)
	}

	project.UpdatedAt = time.Now().UTC()
	if err := s.store.Portfolio().Save(project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	s.logger.Info("updated project", "id", id, "reanalyzed", reanalyze)
	return project, nil
}

// Get returns a project by ID
func (s *PortfolioService) Get(id string) (*models.PortfolioProject, error) {
	p, err := s.store.Portfolio().GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("project", id)
	}
	return p, nil
}

// List returns a filtered page of the user's projects, newest first
func (s *PortfolioService) List(userID string, filter models.ProjectFilter, page, pageSize int) (models.Page[*models.PortfolioProject], error) {
	return s.store.Portfolio().ListByUser(s.settings.userOrDefault(userID), filter, page, pageSize)
}

// Delete removes a project
func (s *PortfolioService) Delete(id string) error {
	deleted, err := s.store.Portfolio().Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("project", id)
	}
	return nil
}

// Similar ranks every embedded project against the job description with no
// score cutoff. An embedding outage yields an empty result rather than an error.
func (s *PortfolioService) Similar(ctx context.Context, userID, jobDescription string, topK int) (*MatchOutcome, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return nil, invalid("job_description", "is required")
	}
	if topK <= 0 {
		topK = s.settings.SimilarTopK
	}

	outcome, err := s.matcher.FindSimilar(ctx, s.settings.userOrDefault(userID), jobDescription, topK, -1)
	if errors.Is(err, ErrEmbeddingUnavailable) {
		s.logger.Warn("similarity search unavailable", "err", err)
		return &MatchOutcome{Matches: []models.SimilarProject{}}, nil
	}
	return outcome, err
}

// Reindex recomputes every project embedding for the user. Individual
// failures are counted and logged; progress is reported after each project.
func (s *PortfolioService) Reindex(ctx context.Context, userID string, progress func(done, total int)) (*ReindexResult, error) {
	projects, err := s.store.Portfolio().ListByUserAll(s.settings.userOrDefault(userID))
	if err != nil {
		return nil, err
	}

	result := &ReindexResult{Total: len(projects)}
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reindexWorkers)
	for _, p := range projects {
		g.Go(func() error {
			vec, embedErr := s.analyzer.Embed(gctx, p.Name, p.Description)
			if embedErr == nil {
				p.Embedding = vec
				p.UpdatedAt = time.Now().UTC()
				embedErr = s.store.Portfolio().Save(p)
			}

			mu.Lock()
			defer mu.Unlock()
			done++
			if embedErr != nil {
				result.Failed++
				s.logger.Warn("reindex failed for project", "id", p.ID, "err", embedErr)
			} else {
				result.Updated++
			}
			if progress != nil {
				progress(done, result.Total)
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	s.logger.Info("reindexed portfolio", "total", result.Total, "updated", result.Updated, "failed", result.Failed)
	return result, nil
}

func (s *PortfolioService) validate(name, description string) error {
	if name == "" {
		return invalid("name", "is required")
	}
	if description == "" {
		return invalid("description", "is required")
	}
	if util.RuneLen(description) < s.settings.MinDescriptionLength {
		return invalid("description", "must be at least %d characters long", s.settings.MinDescriptionLength)
	}
	return nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
