// ABOUTME: TrackingService records what happened to submitted proposals
// ABOUTME: ProfileService manages the freelancer identity used in sign-offs
package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/storage/sqlite"
)

// TrackingService manages proposal tracking records
type TrackingService struct {
	store    *sqlite.Storage
	settings Settings
	logger   *log.Logger
}

// CreateTrackingRequest starts tracking a submitted proposal
type CreateTrackingRequest struct {
	UserID       string
	ProposalID   string
	ProposalLink string
	Connected    int
	PostedAgo    string
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(store *sqlite.Storage, settings Settings, logger *log.Logger) *TrackingService {
	return &TrackingService{
		store:    store,
		settings: settings,
		logger:   logging.Component(logger, "tracking"),
	}
}

// Create stores a tracking record for an existing proposal. The user
// defaults to the proposal's owner.
func (s *TrackingService) Create(req CreateTrackingRequest) (*models.ProposalTracking, error) {
	proposalID := strings.TrimSpace(req.ProposalID)
	if proposalID == "" {
		return nil, invalid("proposal_id", "is required")
	}
	if req.Connected < 0 {
		return nil, invalid("connected", "must not be negative")
	}

	proposal, err := s.store.Proposals().GetByID(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, invalid("proposal_id", "does not match any proposal")
	}

	userID := req.UserID
	if userID == "" {
		userID = proposal.UserID
	}

	now := time.Now().UTC()
	t := &models.ProposalTracking{
		ID:           uuid.New().String(),
		ProposalID:   proposalID,
		UserID:       userID,
		ProposalLink: strings.TrimSpace(req.ProposalLink),
		Connected:    req.Connected,
		PostedAgo:    strings.TrimSpace(req.PostedAgo),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Tracking().Save(t); err != nil {
		return nil, fmt.Errorf("failed to save tracking record: %w", err)
	}
	s.logger.Info("tracking proposal", "id", t.ID, "proposal", proposalID)
	return t, nil
}

// Get returns a tracking record by ID
func (s *TrackingService) Get(id string) (*models.ProposalTracking, error) {
	t, err := s.store.Tracking().GetByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("tracking record", id)
	}
	return t, nil
}

// List returns a page of the user's tracking records, newest first
func (s *TrackingService) List(userID string, page, pageSize int) (models.Page[*models.ProposalTracking], error) {
	return s.store.Tracking().ListByUser(s.settings.userOrDefault(userID), page, pageSize)
}

// UpdateStatus flips the viewed and/or hired flags
func (s *TrackingService) UpdateStatus(id string, viewed, hired *bool) (*models.ProposalTracking, error) {
	if viewed == nil && hired == nil {
		return nil, invalid("status", "needs is_viewed or is_hired")
	}
	t, err := s.store.Tracking().UpdateStatus(id, viewed, hired)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("tracking record", id)
	}
	return t, nil
}

// Delete removes a tracking record
func (s *TrackingService) Delete(id string) error {
	deleted, err := s.store.Tracking().Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("tracking record", id)
	}
	return nil
}

// Stats aggregates outcomes for the user
func (s *TrackingService) Stats(userID string) (*models.TrackingStats, error) {
	return s.store.Tracking().Stats(s.settings.userOrDefault(userID))
}

// ProfileService reads and updates the freelancer profile
type ProfileService struct {
	store *sqlite.Storage
}

// NewProfileService creates a new ProfileService
func NewProfileService(store *sqlite.Storage) *ProfileService {
	return &ProfileService{store: store}
}

// Get returns the saved profile, or an empty one
func (s *ProfileService) Get() (*models.FreelancerProfile, error) {
	p, err := s.store.Profile().Get()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &models.FreelancerProfile{}, nil
	}
	return p, nil
}

// Save merges the non-empty fields of update into the stored profile
func (s *ProfileService) Save(update models.FreelancerProfile) (*models.FreelancerProfile, error) {
	current, err := s.Get()
	if err != nil {
		return nil, err
	}
	current.Merge(update)
	if current.Name == "" {
		return nil, invalid("name", "is required")
	}
	if err := s.store.Profile().Save(current); err != nil {
		return nil, err
	}
	return current, nil
}
