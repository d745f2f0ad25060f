// ABOUTME: Portfolio project storage operations for SQLite
// ABOUTME: Stores embeddings as BLOBs and serves filtered, paginated listings
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/util"
)

const projectColumns = `id, user_id, name, description, tags, ai_summary, technologies,
	project_type, complexity_level, embedding, github_url, live_url, app_store_url,
	images, is_featured, created_at, updated_at`

// PortfolioStore handles portfolio project persistence
type PortfolioStore struct {
	db *DB
}

// NewPortfolioStore creates a new PortfolioStore
func NewPortfolioStore(db *DB) *PortfolioStore {
	return &PortfolioStore{db: db}
}

// Save inserts or replaces a project, including its embedding
func (s *PortfolioStore) Save(p *models.PortfolioProject) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	if p.ProjectType == "" {
		p.ProjectType = models.ProjectOther
	}
	if p.ComplexityLevel == "" {
		p.ComplexityLevel = models.ComplexityIntermediate
	}

	tags, err := encodeStrings(p.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	techs, err := encodeStrings(p.Technologies)
	if err != nil {
		return fmt.Errorf("failed to encode technologies: %w", err)
	}
	images, err := encodeStrings(p.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	var blob []byte
	if len(p.Embedding) > 0 {
		blob = util.EncodeVector(p.Embedding)
	}

	_, err = s.db.Exec(`
		INSERT INTO portfolio_projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			description = excluded.description,
			tags = excluded.tags,
			ai_summary = excluded.ai_summary,
			technologies = excluded.technologies,
			project_type = excluded.project_type,
			complexity_level = excluded.complexity_level,
			embedding = excluded.embedding,
			github_url = excluded.github_url,
			live_url = excluded.live_url,
			app_store_url = excluded.app_store_url,
			images = excluded.images,
			is_featured = excluded.is_featured,
			updated_at = excluded.updated_at
	`, p.ID, p.UserID, p.Name, p.Description, tags, nullString(p.AISummary), techs,
		string(p.ProjectType), string(p.ComplexityLevel), blob,
		nullString(p.GithubURL), nullString(p.LiveURL), nullString(p.AppStoreURL),
		images, p.IsFeatured, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// GetByID retrieves a project, returning nil if not found
func (s *PortfolioStore) GetByID(id string) (*models.PortfolioProject, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM portfolio_projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListByUser returns one page of a user's projects, newest first
func (s *PortfolioStore) ListByUser(userID string, filter models.ProjectFilter, page, size int) (models.Page[*models.PortfolioProject], error) {
	page, size = models.NormalizePage(page, size)

	clauses := []string{"user_id = ?"}
	args := []any{userID}
	if filter.ProjectType != "" {
		clauses = append(clauses, "project_type = ?")
		args = append(args, string(filter.ProjectType))
	}
	if filter.Featured != nil {
		clauses = append(clauses, "is_featured = ?")
		args = append(args, *filter.Featured)
	}
	where := strings.Join(clauses, " AND ")

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM portfolio_projects WHERE `+where, args...).Scan(&total); err != nil {
		return models.Page[*models.PortfolioProject]{}, fmt.Errorf("failed to count projects: %w", err)
	}

	rows, err := s.db.Query(`SELECT `+projectColumns+` FROM portfolio_projects WHERE `+where+`
		ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		append(args, size, models.Offset(page, size))...)
	if err != nil {
		return models.Page[*models.PortfolioProject]{}, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items, err := scanProjects(rows)
	if err != nil {
		return models.Page[*models.PortfolioProject]{}, err
	}
	return models.NewPage(items, page, size, total), nil
}

// ListEmbedded returns every project for a user that has an embedding,
// in creation order so ranking ties resolve oldest first
func (s *PortfolioStore) ListEmbedded(userID string) ([]*models.PortfolioProject, error) {
	rows, err := s.db.Query(`SELECT `+projectColumns+` FROM portfolio_projects
		WHERE user_id = ? AND embedding IS NOT NULL AND length(embedding) > 0
		ORDER BY created_at ASC, rowid ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded projects: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanProjects(rows)
}

// ListByUserAll returns every project for a user regardless of embedding
func (s *PortfolioStore) ListByUserAll(userID string) ([]*models.PortfolioProject, error) {
	rows, err := s.db.Query(`SELECT `+projectColumns+` FROM portfolio_projects
		WHERE user_id = ? ORDER BY created_at ASC, rowid ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanProjects(rows)
}

// ListAll returns every project, oldest first (for export)
func (s *PortfolioStore) ListAll() ([]*models.PortfolioProject, error) {
	rows, err := s.db.Query(`SELECT ` + projectColumns + ` FROM portfolio_projects ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanProjects(rows)
}

// CountByUser returns how many projects a user has
func (s *PortfolioStore) CountByUser(userID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM portfolio_projects WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// Delete removes a project, reporting whether it existed
func (s *PortfolioStore) Delete(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM portfolio_projects WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanProjects(rows *sql.Rows) ([]*models.PortfolioProject, error) {
	var out []*models.PortfolioProject
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProject(row scanner) (*models.PortfolioProject, error) {
	var (
		p          models.PortfolioProject
		tags       sql.NullString
		summary    sql.NullString
		techs      sql.NullString
		ptype      sql.NullString
		complexity sql.NullString
		blob       []byte
		github     sql.NullString
		live       sql.NullString
		appStore   sql.NullString
		images     sql.NullString
	)

	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &tags, &summary, &techs,
		&ptype, &complexity, &blob, &github, &live, &appStore, &images, &p.IsFeatured,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Tags = decodeStrings(tags)
	p.Technologies = decodeStrings(techs)
	p.Images = decodeStrings(images)
	p.AISummary = summary.String
	p.ProjectType = models.NormalizeProjectType(ptype.String)
	p.ComplexityLevel = models.NormalizeComplexity(complexity.String)
	p.GithubURL = github.String
	p.LiveURL = live.String
	p.AppStoreURL = appStore.String

	if len(blob) > 0 {
		// A corrupt blob leaves an empty vector, which ranking skips and counts
		if vec, err := util.DecodeVector(blob); err == nil {
			p.Embedding = vec
		} else {
			p.Embedding = []float64{}
		}
	}
	return &p, nil
}
