// ABOUTME: ProposalService generates, stores, and queries proposals
// ABOUTME: Matching is best effort; composition failures are the only hard failure in generation
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/storage/sqlite"
	"github.com/harper/proposal-forge/internal/util"
)

// ProposalService is the entry point for proposal generation
type ProposalService struct {
	store    *sqlite.Storage
	matcher  *Matcher
	composer *ProposalComposer
	settings Settings
	logger   *log.Logger
}

// GenerateRequest asks for a proposal matched against the user's portfolio
type GenerateRequest struct {
	UserID         string
	JobDescription string
}

// CustomGenerateRequest asks for a proposal citing hand-picked projects
type CustomGenerateRequest struct {
	UserID               string
	JobDescription       string
	ClientName           string
	SelectedProjectIDs   []string
	IncludeGithub        bool
	IncludeStackOverflow bool
	IncludeWebsite       bool
}

// GenerateResult is a stored proposal plus the portfolio work it cites
type GenerateResult struct {
	Proposal *models.Proposal
	Included []models.SimilarProject
	Skipped  int
}

// NewProposalService creates a new ProposalService
func NewProposalService(store *sqlite.Storage, matcher *Matcher, composer *ProposalComposer, settings Settings, logger *log.Logger) *ProposalService {
	return &ProposalService{
		store:    store,
		matcher:  matcher,
		composer: composer,
		settings: settings,
		logger:   logging.Component(logger, "proposals"),
	}
}

// Generate writes and stores a proposal for a job description
func (s *ProposalService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	description, err := s.validateDescription(req.JobDescription)
	if err != nil {
		return nil, err
	}
	userID := s.settings.userOrDefault(req.UserID)

	outcome, err := s.matcher.FindSimilar(ctx, userID, description, s.settings.MatchTopK, s.settings.MatchThreshold)
	if err != nil {
		s.logger.Warn("portfolio matching failed, generating without portfolio", "user", userID, "err", err)
		outcome = &MatchOutcome{Matches: []models.SimilarProject{}}
	}

	profile := s.profile()
	text, err := s.composer.Compose(ctx, description, outcome.Matches, profile)
	if err != nil {
		return nil, err
	}

	included := make([]models.IncludedProject, 0, len(outcome.Matches))
	for _, m := range outcome.Matches {
		included = append(included, models.IncludedProject{ID: m.Project.ID, Name: m.Project.Name, Score: m.Score})
	}

	proposal, err := s.save(userID, description, text, included)
	if err != nil {
		return nil, err
	}
	s.logger.Info("generated proposal", "id", proposal.ID, "user", userID, "projects", len(included))

	return &GenerateResult{Proposal: proposal, Included: outcome.Matches, Skipped: outcome.Skipped}, nil
}

// GenerateCustom writes a proposal citing the selected projects. IDs that do
// not exist or belong to another user are ignored.
func (s *ProposalService) GenerateCustom(ctx context.Context, req CustomGenerateRequest) (*GenerateResult, error) {
	description, err := s.validateDescription(req.JobDescription)
	if err != nil {
		return nil, err
	}
	userID := s.settings.userOrDefault(req.UserID)

	projects := make([]*models.PortfolioProject, 0, len(req.SelectedProjectIDs))
	seen := make(map[string]bool, len(req.SelectedProjectIDs))
	for _, id := range req.SelectedProjectIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		p, err := s.store.Portfolio().GetByID(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load project %s: %w", id, err)
		}
		if p == nil || p.UserID != userID {
			s.logger.Debug("ignoring selected project", "id", id, "user", userID)
			continue
		}
		projects = append(projects, p)
	}

	text, err := s.composer.ComposeCustom(ctx, CustomRequest{
		JobDescription:       description,
		ClientName:           req.ClientName,
		Projects:             projects,
		IncludeGithub:        req.IncludeGithub,
		IncludeStackOverflow: req.IncludeStackOverflow,
		IncludeWebsite:       req.IncludeWebsite,
	}, s.profile())
	if err != nil {
		return nil, err
	}

	included := make([]models.IncludedProject, 0, len(projects))
	selected := make([]models.SimilarProject, 0, len(projects))
	for _, p := range projects {
		included = append(included, models.IncludedProject{ID: p.ID, Name: p.Name})
		selected = append(selected, models.SimilarProject{Project: p})
	}

	proposal, err := s.save(userID, description, text, included)
	if err != nil {
		return nil, err
	}
	s.logger.Info("generated custom proposal", "id", proposal.ID, "user", userID, "projects", len(included))

	return &GenerateResult{Proposal: proposal, Included: selected}, nil
}

// Get returns a proposal by ID
func (s *ProposalService) Get(id string) (*models.Proposal, error) {
	p, err := s.store.Proposals().GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, notFound("proposal", id)
	}
	return p, nil
}

// List returns a page of the user's proposals, newest first
func (s *ProposalService) List(userID string, page, pageSize int) (models.Page[*models.Proposal], error) {
	return s.store.Proposals().ListByUser(s.settings.userOrDefault(userID), page, pageSize)
}

// Search matches query against title, description, and proposal text
func (s *ProposalService) Search(userID, query string, page, pageSize int) (models.Page[*models.Proposal], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.Page[*models.Proposal]{}, invalid("query", "is required")
	}
	return s.store.Proposals().Search(s.settings.userOrDefault(userID), query, page, pageSize)
}

// Stats summarizes the user's proposal history
func (s *ProposalService) Stats(userID string) (*models.ProposalStats, error) {
	return s.store.Proposals().Stats(s.settings.userOrDefault(userID), time.Now())
}

// Delete removes a proposal and its tracking records
func (s *ProposalService) Delete(id string) error {
	deleted, err := s.store.Proposals().Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("proposal", id)
	}
	return nil
}

func (s *ProposalService) validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", invalid("job_description", "is required")
	}
	if util.RuneLen(description) < s.settings.MinDescriptionLength {
		return "", invalid("job_description", "must be at least %d characters long", s.settings.MinDescriptionLength)
	}
	return description, nil
}

func (s *ProposalService) profile() *models.FreelancerProfile {
	profile, err := s.store.Profile().Get()
	if err != nil {
		s.logger.Warn("failed to load profile, using default sign-off", "err", err)
		return nil
	}
	return profile
}

func (s *ProposalService) save(userID, description, text string, included []models.IncludedProject) (*models.Proposal, error) {
	meta := ExtractJobMetadata(description)
	now := time.Now().UTC()
	proposal := &models.Proposal{
		ID:                uuid.New().String(),
		UserID:            userID,
		JobTitle:          meta.Title,
		JobDescription:    description,
		GeneratedProposal: text,
		BudgetRange:       meta.BudgetRange,
		ProjectDuration:   meta.ProjectDuration,
		IncludedProjects:  included,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.Proposals().Save(proposal); err != nil {
		return nil, fmt.Errorf("failed to save proposal: %w", err)
	}
	return proposal, nil
}
