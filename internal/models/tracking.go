// ABOUTME: ProposalTracking records what happened after a proposal was submitted
// ABOUTME: Tracks connects spent, views, and hires for outcome statistics
package models

import "time"

// ProposalTracking follows a submitted proposal on the freelance platform
type ProposalTracking struct {
	ID           string    `json:"id" yaml:"id"`
	ProposalID   string    `json:"proposal_id" yaml:"proposal_id"`
	UserID       string    `json:"user_id" yaml:"user_id"`
	ProposalLink string    `json:"proposal_link,omitempty" yaml:"proposal_link,omitempty"`
	Connected    int       `json:"connected" yaml:"connected"`
	PostedAgo    string    `json:"posted_ago,omitempty" yaml:"posted_ago,omitempty"`
	IsViewed     bool      `json:"is_viewed" yaml:"is_viewed"`
	IsHired      bool      `json:"is_hired" yaml:"is_hired"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// TrackingStats aggregates tracking outcomes for a user
type TrackingStats struct {
	Total         int     `json:"total"`
	Viewed        int     `json:"viewed"`
	Hired         int     `json:"hired"`
	ConnectsSpent int     `json:"connects_spent"`
	ViewRate      float64 `json:"view_rate"`
	HireRate      float64 `json:"hire_rate"`
}

// ComputeRates fills ViewRate and HireRate from the counts
func (s *TrackingStats) ComputeRates() {
	if s.Total == 0 {
		s.ViewRate, s.HireRate = 0, 0
		return
	}
	s.ViewRate = float64(s.Viewed) / float64(s.Total)
	s.HireRate = float64(s.Hired) / float64(s.Total)
}
