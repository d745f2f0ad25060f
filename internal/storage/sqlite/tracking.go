// ABOUTME: Proposal tracking storage operations for SQLite
// ABOUTME: Records submission outcomes and aggregates view and hire rates
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/harper/proposal-forge/internal/models"
)

const trackingColumns = `id, proposal_id, user_id, proposal_link, connected, posted_ago,
	is_viewed, is_hired, created_at, updated_at`

// TrackingStore handles proposal tracking persistence
type TrackingStore struct {
	db *DB
}

// NewTrackingStore creates a new TrackingStore
func NewTrackingStore(db *DB) *TrackingStore {
	return &TrackingStore{db: db}
}

// Save inserts or replaces a tracking record
func (s *TrackingStore) Save(t *models.ProposalTracking) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}

	_, err := s.db.Exec(`
		INSERT INTO proposal_tracking (`+trackingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			proposal_id = excluded.proposal_id,
			user_id = excluded.user_id,
			proposal_link = excluded.proposal_link,
			connected = excluded.connected,
			posted_ago = excluded.posted_ago,
			is_viewed = excluded.is_viewed,
			is_hired = excluded.is_hired,
			updated_at = excluded.updated_at
	`, t.ID, t.ProposalID, t.UserID, nullString(t.ProposalLink), t.Connected,
		nullString(t.PostedAgo), t.IsViewed, t.IsHired, t.CreatedAt.UTC(), t.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save tracking record: %w", err)
	}
	return nil
}

// GetByID retrieves a tracking record, returning nil if not found
func (s *TrackingStore) GetByID(id string) (*models.ProposalTracking, error) {
	row := s.db.QueryRow(`SELECT `+trackingColumns+` FROM proposal_tracking WHERE id = ?`, id)
	t, err := scanTracking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// ListByUser returns one page of a user's tracking records, newest first
func (s *TrackingStore) ListByUser(userID string, page, size int) (models.Page[*models.ProposalTracking], error) {
	page, size = models.NormalizePage(page, size)

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM proposal_tracking WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return models.Page[*models.ProposalTracking]{}, fmt.Errorf("failed to count tracking records: %w", err)
	}

	rows, err := s.db.Query(`SELECT `+trackingColumns+` FROM proposal_tracking WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`, userID, size, models.Offset(page, size))
	if err != nil {
		return models.Page[*models.ProposalTracking]{}, fmt.Errorf("failed to list tracking records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items, err := scanTrackings(rows)
	if err != nil {
		return models.Page[*models.ProposalTracking]{}, err
	}
	return models.NewPage(items, page, size, total), nil
}

// ListAll returns every tracking record, oldest first (for export)
func (s *TrackingStore) ListAll() ([]*models.ProposalTracking, error) {
	rows, err := s.db.Query(`SELECT ` + trackingColumns + ` FROM proposal_tracking ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanTrackings(rows)
}

// UpdateStatus sets the viewed and/or hired flags; nil leaves a flag unchanged.
// It returns the updated record, or nil if none exists.
func (s *TrackingStore) UpdateStatus(id string, viewed, hired *bool) (*models.ProposalTracking, error) {
	t, err := s.GetByID(id)
	if err != nil || t == nil {
		return nil, err
	}
	if viewed != nil {
		t.IsViewed = *viewed
	}
	if hired != nil {
		t.IsHired = *hired
	}
	t.UpdatedAt = now()
	if err := s.Save(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Stats aggregates a user's tracking records
func (s *TrackingStore) Stats(userID string) (*models.TrackingStats, error) {
	stats := &models.TrackingStats{}
	err := s.db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(is_viewed), 0),
			COALESCE(SUM(is_hired), 0),
			COALESCE(SUM(connected), 0)
		FROM proposal_tracking WHERE user_id = ?
	`, userID).Scan(&stats.Total, &stats.Viewed, &stats.Hired, &stats.ConnectsSpent)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tracking stats: %w", err)
	}
	stats.ComputeRates()
	return stats, nil
}

// Delete removes a tracking record, reporting whether it existed
func (s *TrackingStore) Delete(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM proposal_tracking WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete tracking record: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanTrackings(rows *sql.Rows) ([]*models.ProposalTracking, error) {
	var out []*models.ProposalTracking
	for rows.Next() {
		t, err := scanTracking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTracking(row scanner) (*models.ProposalTracking, error) {
	var (
		t         models.ProposalTracking
		link      sql.NullString
		postedAgo sql.NullString
	)
	err := row.Scan(&t.ID, &t.ProposalID, &t.UserID, &link, &t.Connected, &postedAgo,
		&t.IsViewed, &t.IsHired, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.ProposalLink = link.String
	t.PostedAgo = postedAgo.String
	return &t, nil
}
