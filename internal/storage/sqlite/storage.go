// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: Single entry point for proposals, portfolio, tracking, profile, and document persistence
package sqlite

import (
	"fmt"
)

// Storage manages all persistent proposal data using SQLite
type Storage struct {
	db        *DB
	proposals *ProposalStore
	portfolio *PortfolioStore
	tracking  *TrackingStore
	profile   *ProfileStore
	documents *DocumentStore
}

// NewStorage initializes storage with a database at dbPath
func NewStorage(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:        db,
		proposals: NewProposalStore(db),
		portfolio: NewPortfolioStore(db),
		tracking:  NewTrackingStore(db),
		profile:   NewProfileStore(db),
		documents: NewDocumentStore(db),
	}
}

// Proposals returns the proposal store
func (s *Storage) Proposals() *ProposalStore { return s.proposals }

// Portfolio returns the portfolio store
func (s *Storage) Portfolio() *PortfolioStore { return s.portfolio }

// Tracking returns the tracking store
func (s *Storage) Tracking() *TrackingStore { return s.tracking }

// Profile returns the profile store
func (s *Storage) Profile() *ProfileStore { return s.profile }

// Documents returns the document store
func (s *Storage) Documents() *DocumentStore { return s.documents }

// DB returns the underlying database
func (s *Storage) DB() *DB { return s.db }

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}
