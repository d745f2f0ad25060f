// ABOUTME: Proposal storage operations for SQLite
// ABOUTME: CRUD, paginated listing, substring search, and per-user statistics
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/proposal-forge/internal/models"
)

const proposalColumns = `id, user_id, job_title, job_description, generated_proposal,
	budget_range, project_duration, included_projects, created_at, updated_at`

// ProposalStore handles proposal persistence
type ProposalStore struct {
	db *DB
}

// NewProposalStore creates a new ProposalStore
func NewProposalStore(db *DB) *ProposalStore {
	return &ProposalStore{db: db}
}

// Save inserts or replaces a proposal
func (s *ProposalStore) Save(p *models.Proposal) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	included, err := json.Marshal(p.IncludedProjects)
	if err != nil {
		return fmt.Errorf("failed to encode included projects: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO proposals (`+proposalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			job_title = excluded.job_title,
			job_description = excluded.job_description,
			generated_proposal = excluded.generated_proposal,
			budget_range = excluded.budget_range,
			project_duration = excluded.project_duration,
			included_projects = excluded.included_projects,
			updated_at = excluded.updated_at
	`, p.ID, p.UserID, p.JobTitle, p.JobDescription, p.GeneratedProposal,
		nullString(p.BudgetRange), nullString(p.ProjectDuration), string(included),
		p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save proposal: %w", err)
	}
	return nil
}

// GetByID retrieves a proposal, returning nil if not found
func (s *ProposalStore) GetByID(id string) (*models.Proposal, error) {
	row := s.db.QueryRow(`SELECT `+proposalColumns+` FROM proposals WHERE id = ?`, id)
	p, err := scanProposal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListByUser returns one page of a user's proposals, newest first
func (s *ProposalStore) ListByUser(userID string, page, size int) (models.Page[*models.Proposal], error) {
	return s.page(`user_id = ?`, []any{userID}, page, size)
}

// Search matches query against title, description, and proposal text, ignoring case
func (s *ProposalStore) Search(userID, query string, page, size int) (models.Page[*models.Proposal], error) {
	pattern := likePattern(query)
	return s.page(`user_id = ? AND (
		lower(job_title) LIKE ? ESCAPE '\' OR
		lower(job_description) LIKE ? ESCAPE '\' OR
		lower(generated_proposal) LIKE ? ESCAPE '\')`,
		[]any{userID, pattern, pattern, pattern}, page, size)
}

// ListAll returns every proposal, oldest first (for export)
func (s *ProposalStore) ListAll() ([]*models.Proposal, error) {
	rows, err := s.db.Query(`SELECT ` + proposalColumns + ` FROM proposals ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanProposals(rows)
}

// Stats returns totals for a user relative to asOf
func (s *ProposalStore) Stats(userID string, asOf time.Time) (*models.ProposalStats, error) {
	stats := &models.ProposalStats{}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM proposals WHERE user_id = ?`, userID).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("failed to count proposals: %w", err)
	}

	since := asOf.UTC().AddDate(0, 0, -30)
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM proposals WHERE user_id = ? AND created_at >= ?`,
		userID, since).Scan(&stats.Last30Days); err != nil {
		return nil, fmt.Errorf("failed to count recent proposals: %w", err)
	}

	var latest time.Time
	err := s.db.QueryRow(`SELECT created_at FROM proposals WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		userID).Scan(&latest)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("failed to get latest proposal: %w", err)
	default:
		stats.LatestAt = &latest
	}

	return stats, nil
}

// Delete removes a proposal, reporting whether it existed
func (s *ProposalStore) Delete(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM proposals WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete proposal: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *ProposalStore) page(where string, args []any, page, size int) (models.Page[*models.Proposal], error) {
	page, size = models.NormalizePage(page, size)

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM proposals WHERE `+where, args...).Scan(&total); err != nil {
		return models.Page[*models.Proposal]{}, fmt.Errorf("failed to count proposals: %w", err)
	}

	rows, err := s.db.Query(`SELECT `+proposalColumns+` FROM proposals WHERE `+where+`
		ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		append(args, size, models.Offset(page, size))...)
	if err != nil {
		return models.Page[*models.Proposal]{}, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items, err := scanProposals(rows)
	if err != nil {
		return models.Page[*models.Proposal]{}, err
	}
	return models.NewPage(items, page, size, total), nil
}

func scanProposals(rows *sql.Rows) ([]*models.Proposal, error) {
	var out []*models.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProposal(row scanner) (*models.Proposal, error) {
	var (
		p        models.Proposal
		title    sql.NullString
		budget   sql.NullString
		duration sql.NullString
		included sql.NullString
	)

	err := row.Scan(&p.ID, &p.UserID, &title, &p.JobDescription, &p.GeneratedProposal,
		&budget, &duration, &included, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.JobTitle = title.String
	p.BudgetRange = budget.String
	p.ProjectDuration = duration.String
	if included.Valid && included.String != "" && included.String != "null" {
		if err := json.Unmarshal([]byte(included.String), &p.IncludedProjects); err != nil {
			p.IncludedProjects = nil
		}
	}
	return &p, nil
}
