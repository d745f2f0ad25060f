// ABOUTME: DocumentService stores a user's documents and answers questions about them
// ABOUTME: Search backfills missing vectors, ranks documents by similarity, and asks the model with the best matches as context
package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/proposal-forge/internal/llm"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/models"
	"github.com/harper/proposal-forge/internal/ranking"
	"github.com/harper/proposal-forge/internal/storage/sqlite"
	"github.com/harper/proposal-forge/internal/util"
	"golang.org/x/sync/errgroup"
)

const (
	// backfillWorkers bounds concurrent embedding calls for documents missing vectors
	backfillWorkers = 4

	maxEmbedRunes   = 8000
	maxSummaryRunes = 12000
	maxContextRunes = 4000
)

// Result statuses for bulk document creation
const (
	DocumentStored = "success"
	DocumentFailed = "error"
)

const documentSummaryPrompt = `Summarize the following text concisely in two or three sentences.`

const documentSearchPrompt = `You answer questions using the user's documents, which are given as context.
- For specific questions (numbers, dates, names), quote the exact information.
- For broader topics, combine what the documents say.
- If the documents do not contain the answer, say so plainly.
- Always name the document(s) your answer came from.
Keep a professional, helpful tone.`

// DocumentService manages documents and semantic search over them
type DocumentService struct {
	store     *sqlite.Storage
	completer Completer
	embedder  Embedder
	settings  Settings
	logger    *log.Logger
}

// DocumentInput is one document to store. An empty ID gets a generated one.
type DocumentInput struct {
	ID       string
	UserID   string
	Name     string
	MimeType string
	Text     string
}

// DocumentResult reports the outcome for one document of a bulk create
type DocumentResult struct {
	ID       string           `json:"id"`
	Status   string           `json:"status"`
	Error    string           `json:"error,omitempty"`
	Document *models.Document `json:"-"`
}

// SearchRequest is a question about the user's documents. History holds
// earlier turns of the same conversation, oldest first.
type SearchRequest struct {
	UserID  string
	Query   string
	History []models.ChatMessage
	Limit   int
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(store *sqlite.Storage, completer Completer, embedder Embedder, settings Settings, logger *log.Logger) *DocumentService {
	return &DocumentService{
		store:     store,
		completer: completer,
		embedder:  embedder,
		settings:  settings,
		logger:    logging.Component(logger, "documents"),
	}
}

// Add stores one document with its summary and embedding. A failed summary
// falls back to a preview of the text; a failed embedding leaves the vector
// empty until the next search backfills it.
func (s *DocumentService) Add(ctx context.Context, in DocumentInput) (*models.Document, error) {
	name := strings.TrimSpace(in.Name)
	text := strings.TrimSpace(in.Text)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if text == "" {
		return nil, invalid("text", "is required")
	}
	userID := s.settings.userOrDefault(in.UserID)

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.New().String()
	}
	existing, err := s.store.Documents().GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.UserID != userID {
		return nil, invalid("id", "%s is already used by another user", id)
	}

	var (
		summary   string
		embedding []float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary = s.summarize(gctx, name, text)
		return nil
	})
	g.Go(func() error {
		vec, err := s.embedder.GenerateEmbedding(gctx, embedText(text))
		if err != nil {
			s.logger.Warn("embedding failed, document will be embedded at search time", "name", name, "err", err)
			return nil
		}
		embedding = vec
		return nil
	})
	_ = g.Wait()

	now := time.Now().UTC()
	doc := &models.Document{
		ID:        id,
		UserID:    userID,
		Name:      name,
		MimeType:  strings.TrimSpace(in.MimeType),
		Content:   text,
		Summary:   summary,
		Embedding: embedding,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if doc.MimeType == "" {
		doc.MimeType = models.DefaultMimeType
	}
	if existing != nil {
		doc.CreatedAt = existing.CreatedAt
	}

	if err := s.store.Documents().Save(doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	s.logger.Info("stored document", "id", doc.ID, "name", doc.Name, "embedded", doc.HasEmbedding())
	return doc, nil
}

// Create stores a batch of documents. Each document succeeds or fails on its
// own; only an empty batch is an error.
func (s *DocumentService) Create(ctx context.Context, inputs []DocumentInput) ([]DocumentResult, error) {
	if len(inputs) == 0 {
		return nil, invalid("documents", "must contain at least one document")
	}

	results := make([]DocumentResult, 0, len(inputs))
	for _, in := range inputs {
		doc, err := s.Add(ctx, in)
		if err != nil {
			if !errors.Is(err, ErrValidation) {
				s.logger.Error("document creation failed", "id", in.ID, "name", in.Name, "err", err)
			}
			results = append(results, DocumentResult{ID: in.ID, Status: DocumentFailed, Error: err.Error()})
			continue
		}
		results = append(results, DocumentResult{ID: doc.ID, Status: DocumentStored, Document: doc})
	}
	return results, nil
}

// Get returns a document by ID
func (s *DocumentService) Get(id string) (*models.Document, error) {
	d, err := s.store.Documents().GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, notFound("document", id)
	}
	return d, nil
}

// List returns a page of the user's documents, newest first
func (s *DocumentService) List(userID string, page, pageSize int) (models.Page[*models.Document], error) {
	return s.store.Documents().ListByUser(s.settings.userOrDefault(userID), page, pageSize)
}

// Delete removes a document
func (s *DocumentService) Delete(id string) error {
	deleted, err := s.store.Documents().Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("document", id)
	}
	return nil
}

// Search answers a question from the user's most similar documents. The
// returned conversation is the given history plus this question and answer,
// ready to be sent back with the next question.
func (s *DocumentService) Search(ctx context.Context, req SearchRequest) (*models.SearchAnswer, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, invalid("query", "is required")
	}
	history, err := normalizeHistory(req.History)
	if err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.settings.DocumentSearchLimit
	}
	userID := s.settings.userOrDefault(req.UserID)

	docs, err := s.store.Documents().ListByUserAll(userID)
	if err != nil {
		return nil, err
	}
	s.backfill(ctx, docs)

	matches, skipped, err := s.rank(ctx, query, docs, limit)
	if err != nil {
		return nil, err
	}

	turns := make([]llm.Message, 0, len(history))
	for _, m := range history {
		turns = append(turns, llm.Message{Role: m.Role, Content: m.Content})
	}
	answer, err := s.completer.Complete(ctx, llm.ChatRequest{
		System:      documentSearchPrompt,
		History:     turns,
		User:        fmt.Sprintf("Context: %s\n\nQuestion: %s", documentContext(matches), query),
		MaxTokens:   800,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("document search answer failed: %w", err)
	}

	conversation := append(slices.Clone(history),
		models.ChatMessage{Role: models.RoleUser, Content: query},
		models.ChatMessage{Role: models.RoleAssistant, Content: answer},
	)
	s.logger.Info("answered document search", "user", userID, "documents", len(docs), "matches", len(matches))
	return &models.SearchAnswer{
		Answer:              answer,
		Documents:           matches,
		ConversationHistory: conversation,
		Skipped:             skipped,
	}, nil
}

// backfill embeds documents stored without a vector and persists the result
func (s *DocumentService) backfill(ctx context.Context, docs []*models.Document) {
	var missing []*models.Document
	for _, d := range docs {
		if !d.HasEmbedding() {
			missing = append(missing, d)
		}
	}
	if len(missing) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(backfillWorkers)
	for _, d := range missing {
		g.Go(func() error {
			vec, err := s.embedder.GenerateEmbedding(gctx, embedText(d.Content))
			if err != nil {
				s.logger.Warn("could not embed document", "id", d.ID, "err", err)
				return nil
			}
			if err := s.store.Documents().UpdateEmbedding(d.ID, vec); err != nil {
				s.logger.Warn("could not store document embedding", "id", d.ID, "err", err)
			}
			d.Embedding = vec
			return nil
		})
	}
	_ = g.Wait()
	s.logger.Debug("backfilled document embeddings", "count", len(missing))
}

// rank returns the limit documents most similar to query. Documents that
// still have no vector count as skipped.
func (s *DocumentService) rank(ctx context.Context, query string, docs []*models.Document, limit int) ([]models.DocumentMatch, int, error) {
	candidates := make([]ranking.Candidate[*models.Document], 0, len(docs))
	for _, d := range docs {
		if d.HasEmbedding() {
			candidates = append(candidates, ranking.Candidate[*models.Document]{ID: d.ID, Vector: d.Embedding, Metadata: d})
		}
	}
	skipped := len(docs) - len(candidates)
	if len(candidates) == 0 {
		return []models.DocumentMatch{}, skipped, nil
	}

	vec, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, skipped, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	result, err := ranking.Rank(vec, candidates, limit, -1)
	if err != nil {
		return nil, skipped, fmt.Errorf("%w: unusable query embedding: %w", ErrEmbeddingUnavailable, err)
	}
	if result.Skipped > 0 {
		s.logger.Warn("skipped documents with incompatible embeddings", "skipped", result.Skipped, "dimensions", len(vec))
	}

	matches := make([]models.DocumentMatch, 0, len(result.Matches))
	for _, m := range result.Matches {
		matches = append(matches, models.DocumentMatch{Document: m.Metadata, Score: m.Score})
	}
	return matches, skipped + result.Skipped, nil
}

func (s *DocumentService) summarize(ctx context.Context, name, text string) string {
	summary, err := s.completer.Complete(ctx, llm.ChatRequest{
		System:      documentSummaryPrompt,
		User:        util.Truncate(text, maxSummaryRunes),
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		s.logger.Warn("document summary failed, using preview", "name", name, "err", err)
		return util.Preview(text, 200)
	}
	return summary
}

func normalizeHistory(history []models.ChatMessage) ([]models.ChatMessage, error) {
	out := make([]models.ChatMessage, 0, len(history))
	for i, m := range history {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		if role != models.RoleUser && role != models.RoleAssistant {
			return nil, invalid("conversation_history", "entry %d has role %q, want user or assistant", i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return nil, invalid("conversation_history", "entry %d has no content", i)
		}
		out = append(out, models.ChatMessage{Role: role, Content: m.Content})
	}
	return out, nil
}

func documentContext(matches []models.DocumentMatch) string {
	var b strings.Builder
	b.WriteString("Available documents:")
	for i, m := range matches {
		fmt.Fprintf(&b, "\n\nDocument %d: %s\nType: %s\nContent: %s\nSimilarity Score: %.4f",
			i+1, m.Document.Name, m.Document.MimeType, util.Truncate(m.Document.Content, maxContextRunes), m.Score)
	}
	return b.String()
}

func embedText(text string) string {
	return util.Truncate(text, maxEmbedRunes)
}
