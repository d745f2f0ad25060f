// ABOUTME: Document storage operations for SQLite
// ABOUTME: Keeps content, summary, and embedding BLOB per document with paginated listings
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/util"
)

const documentColumns = `id, user_id, name, mime_type, content, summary, embedding, created_at, updated_at`

// DocumentStore handles document persistence
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save inserts or replaces a document. The original creation time is kept on replace.
func (s *DocumentStore) Save(d *models.Document) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now()
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}
	if d.MimeType == "" {
		d.MimeType = models.DefaultMimeType
	}

	var blob []byte
	if len(d.Embedding) > 0 {
		blob = util.EncodeVector(d.Embedding)
	}

	_, err := s.db.Exec(`
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			name = excluded.name,
			mime_type = excluded.mime_type,
			content = excluded.content,
			summary = excluded.summary,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`, d.ID, d.UserID, d.Name, d.MimeType, d.Content, nullString(d.Summary), blob,
		d.CreatedAt.UTC(), d.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// UpdateEmbedding stores a freshly computed vector for a document
func (s *DocumentStore) UpdateEmbedding(id string, embedding []float64) error {
	_, err := s.db.Exec(`UPDATE documents SET embedding = ?, updated_at = ? WHERE id = ?`,
		util.EncodeVector(embedding), now(), id)
	if err != nil {
		return fmt.Errorf("failed to update document embedding: %w", err)
	}
	return nil
}

// GetByID retrieves a document, returning nil if not found
func (s *DocumentStore) GetByID(id string) (*models.Document, error) {
	row := s.db.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

// ListByUser returns one page of a user's documents, newest first
func (s *DocumentStore) ListByUser(userID string, page, size int) (models.Page[*models.Document], error) {
	page, size = models.NormalizePage(page, size)

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM documents WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return models.Page[*models.Document]{}, fmt.Errorf("failed to count documents: %w", err)
	}

	rows, err := s.db.Query(`SELECT `+documentColumns+` FROM documents WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`, userID, size, models.Offset(page, size))
	if err != nil {
		return models.Page[*models.Document]{}, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items, err := scanDocuments(rows)
	if err != nil {
		return models.Page[*models.Document]{}, err
	}
	return models.NewPage(items, page, size, total), nil
}

// ListByUserAll returns every document for a user, oldest first so ranking
// ties resolve in upload order
func (s *DocumentStore) ListByUserAll(userID string) ([]*models.Document, error) {
	rows, err := s.db.Query(`SELECT `+documentColumns+` FROM documents
		WHERE user_id = ? ORDER BY created_at ASC, rowid ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanDocuments(rows)
}

// ListAll returns every document, oldest first (for export)
func (s *DocumentStore) ListAll() ([]*models.Document, error) {
	rows, err := s.db.Query(`SELECT ` + documentColumns + ` FROM documents ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanDocuments(rows)
}

// Delete removes a document, reporting whether it existed
func (s *DocumentStore) Delete(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func scanDocuments(rows *sql.Rows) ([]*models.Document, error) {
	var out []*models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDocument(row scanner) (*models.Document, error) {
	var (
		d        models.Document
		mimeType sql.NullString
		summary  sql.NullString
		blob     []byte
	)
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &mimeType, &d.Content, &summary, &blob, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	d.MimeType = mimeType.String
	if d.MimeType == "" {
		d.MimeType = models.DefaultMimeType
	}
	d.Summary = summary.String
	if len(blob) > 0 {
		// Corrupt vectors are dropped so search re-embeds the document
		if vec, err := util.DecodeVector(blob); err == nil {
			d.Embedding = vec
		}
	}
	return &d, nil
}
