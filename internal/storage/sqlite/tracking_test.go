// ABOUTME: Tests for proposal tracking storage operations
// ABOUTME: Verifies CRUD, status updates, cascade deletes, and statistics
package sqlite

import (
	"testing"
	"time"

	"github.com/harper/proposal-forge/internal/models"
)

func TestTrackingCRUD(t *testing.T) {
	s := newTestStorage(t)
	saveProposal(t, s.Proposals(), "prop_1", "alice", "Job", time.Now())

	tr := &models.ProposalTracking{
		ID:           "trk_1",
		ProposalID:   "prop_1",
		UserID:       "alice",
		ProposalLink: "https://www.upwork.com/jobs/1",
		Connected:    16,
		PostedAgo:    "2 hours ago",
	}
	if err := s.Tracking().Save(tr); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Tracking().GetByID("trk_1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil || got.Connected != 16 || got.PostedAgo != "2 hours ago" {
		t.Fatalf("GetByID() = %+v", got)
	}
	if got.IsViewed || got.IsHired {
		t.Error("new tracking record should not be viewed or hired")
	}

	viewed := true
	updated, err := s.Tracking().UpdateStatus("trk_1", &viewed, nil)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if !updated.IsViewed || updated.IsHired {
		t.Errorf("after update viewed/hired = %v/%v, want true/false", updated.IsViewed, updated.IsHired)
	}

	missing, err := s.Tracking().UpdateStatus("nope", &viewed, nil)
	if err != nil || missing != nil {
		t.Errorf("UpdateStatus(missing) = %v, %v; want nil, nil", missing, err)
	}

	page, err := s.Tracking().ListByUser("alice", 1, 10)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if page.Total != 1 {
		t.Errorf("Total = %d, want 1", page.Total)
	}

	deleted, err := s.Tracking().Delete("trk_1")
	if err != nil || !deleted {
		t.Errorf("Delete() = %v, %v", deleted, err)
	}
}

func TestTrackingRequiresProposal(t *testing.T) {
	s := newTestStorage(t)
	err := s.Tracking().Save(&models.ProposalTracking{ID: "t", ProposalID: "ghost", UserID: "alice"})
	if err == nil {
		t.Error("Save() should fail when the proposal does not exist")
	}
}

func TestTrackingCascadeDelete(t *testing.T) {
	s := newTestStorage(t)
	saveProposal(t, s.Proposals(), "prop_1", "alice", "Job", time.Now())
	if err := s.Tracking().Save(&models.ProposalTracking{ID: "t1", ProposalID: "prop_1", UserID: "alice"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := s.Proposals().Delete("prop_1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, err := s.Tracking().GetByID("t1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got != nil {
		t.Error("tracking record should be removed with its proposal")
	}
}

func TestTrackingStats(t *testing.T) {
	s := newTestStorage(t)
	saveProposal(t, s.Proposals(), "prop_1", "alice", "Job", time.Now())

	records := []*models.ProposalTracking{
		{ID: "t1", ProposalID: "prop_1", UserID: "alice", Connected: 10, IsViewed: true, IsHired: true},
		{ID: "t2", ProposalID: "prop_1", UserID: "alice", Connected: 6, IsViewed: true},
		{ID: "t3", ProposalID: "prop_1", UserID: "alice", Connected: 4},
		{ID: "t4", ProposalID: "prop_1", UserID: "alice"},
	}
	for _, r := range records {
		if err := s.Tracking().Save(r); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	stats, err := s.Tracking().Stats("alice")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 4 || stats.Viewed != 2 || stats.Hired != 1 || stats.ConnectsSpent != 20 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.ViewRate != 0.5 || stats.HireRate != 0.25 {
		t.Errorf("rates = %v/%v, want 0.5/0.25", stats.ViewRate, stats.HireRate)
	}

	empty, err := s.Tracking().Stats("nobody")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if empty.Total != 0 || empty.ViewRate != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}
