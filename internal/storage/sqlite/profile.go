// ABOUTME: Freelancer profile storage operations for SQLite
// ABOUTME: Implements the singleton profile row with upsert semantics
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/harper/proposal-forge/internal/models"
)

// ProfileStore handles freelancer profile persistence
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a new ProfileStore
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get retrieves the profile, returning nil if none has been saved
func (s *ProfileStore) Get() (*models.FreelancerProfile, error) {
	var (
		p                              models.FreelancerProfile
		name, title, signature         sql.NullString
		github, stackOverflow, website sql.NullString
	)

	err := s.db.QueryRow(`
		SELECT name, title, signature, github_url, stackoverflow_url, website_url, updated_at
		FROM freelancer_profile
		WHERE id = 1
	`).Scan(&name, &title, &signature, &github, &stackOverflow, &website, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.Name = name.String
	p.Title = title.String
	p.Signature = signature.String
	p.GithubURL = github.String
	p.StackOverflowURL = stackOverflow.String
	p.WebsiteURL = website.String
	return &p, nil
}

// Save saves or updates the profile (upsert)
func (s *ProfileStore) Save(p *models.FreelancerProfile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now()
	}
	_, err := s.db.Exec(`
		INSERT INTO freelancer_profile (id, name, title, signature, github_url, stackoverflow_url, website_url, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			title = excluded.title,
			signature = excluded.signature,
			github_url = excluded.github_url,
			stackoverflow_url = excluded.stackoverflow_url,
			website_url = excluded.website_url,
			updated_at = excluded.updated_at
	`, nullString(p.Name), nullString(p.Title), nullString(p.Signature),
		nullString(p.GithubURL), nullString(p.StackOverflowURL), nullString(p.WebsiteURL),
		p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
