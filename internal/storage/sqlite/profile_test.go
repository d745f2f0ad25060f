// ABOUTME: Tests for freelancer profile storage
// ABOUTME: Verifies singleton upsert and empty-table behavior
package sqlite

import (
	"testing"

	"github.com/harper/proposal-forge/internal/models"
)

func TestProfileCRUD(t *testing.T) {
	store := newTestStorage(t).Profile()

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Fatal("Get() should return nil before a profile is saved")
	}

	profile := &models.FreelancerProfile{
		Name:      "Sam Rivera",
		Title:     "Full-Stack Developer",
		GithubURL: "https://github.com/samrivera",
	}
	if err := store.Save(profile); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err = store.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Sam Rivera" || got.Title != "Full-Stack Developer" {
		t.Errorf("Get() = %+v", got)
	}
	if got.Signature != "" {
		t.Errorf("Signature = %q, want empty", got.Signature)
	}

	got.Signature = "Cheers"
	got.UpdatedAt = got.UpdatedAt.Add(1)
	if err := store.Save(got); err != nil {
		t.Fatalf("Save() update error = %v", err)
	}

	again, err := store.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.Signature != "Cheers" || again.GithubURL != "https://github.com/samrivera" {
		t.Errorf("after update = %+v", again)
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM freelancer_profile`).Scan(&count); err != nil {
		t.Fatalf("count error = %v", err)
	}
	if count != 1 {
		t.Errorf("profile rows = %d, want 1", count)
	}
}
