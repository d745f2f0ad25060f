// ABOUTME: HTTP handlers for document upload, listing, and question answering
// ABOUTME: Bulk creation reports a per-document status instead of failing the whole batch
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/models"
)

type createDocumentRequest struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Text     string `json:"text"`
}

type searchDocumentsRequest struct {
	Query               string               `json:"query"`
	UserID              string               `json:"user_id"`
	ConversationHistory []models.ChatMessage `json:"conversation_history"`
	Limit               int                  `json:"limit"`
}

// documentRef is the list and search view of a document, without its content
type documentRef struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mime_type"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type documentMatch struct {
	documentRef
	Score float64 `json:"similarity_score"`
}

type documentDetail struct {
	*models.Document
	EmbeddingDimensions int `json:"embedding_dimensions"`
}

func (s *Server) handleCreateDocuments(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !decode(w, r, &raw) {
		return
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		badRequest(w, "request body must be an array of documents")
		return
	}
	var reqs []createDocumentRequest
	if err := json.Unmarshal(raw, &reqs); err != nil {
		badRequest(w, "invalid JSON body: %v", err)
		return
	}

	inputs := make([]core.DocumentInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, core.DocumentInput{
			ID:       req.ID,
			UserID:   req.UserID,
			Name:     req.Name,
			MimeType: req.MimeType,
			Text:     req.Text,
		})
	}
	results, err := s.services.Documents.Create(r.Context(), inputs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Bulk document creation completed",
		"results": results,
	})
}

func (s *Server) handleSearchDocuments(w http.ResponseWriter, r *http.Request) {
	var req searchDocumentsRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" || strings.TrimSpace(req.UserID) == "" {
		badRequest(w, "query and user_id are required")
		return
	}

	answer, err := s.services.Documents.Search(r.Context(), core.SearchRequest{
		UserID:  req.UserID,
		Query:   req.Query,
		History: req.ConversationHistory,
		Limit:   req.Limit,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	matches := make([]documentMatch, 0, len(answer.Documents))
	for _, m := range answer.Documents {
		matches = append(matches, documentMatch{documentRef: ref(m.Document), Score: round(m.Score, 4)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ai_response":          answer.Answer,
		"relevant_documents":   matches,
		"conversation_history": answer.ConversationHistory,
		"skipped":              answer.Skipped,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}

	result, err := s.services.Documents.List(r.URL.Query().Get("user_id"), page, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	refs := make([]documentRef, 0, len(result.Items))
	for _, d := range result.Items {
		refs = append(refs, ref(d))
	}
	writeJSON(w, http.StatusOK, models.Page[documentRef]{
		Items:       refs,
		Page:        result.Page,
		PageSize:    result.PageSize,
		Total:       result.Total,
		TotalPages:  result.TotalPages,
		HasNext:     result.HasNext,
		HasPrevious: result.HasPrevious,
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	d, err := s.services.Documents.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentDetail{Document: d, EmbeddingDimensions: len(d.Embedding)})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Documents.Delete(r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ref(d *models.Document) documentRef {
	return documentRef{
		ID:        d.ID,
		Name:      d.Name,
		MimeType:  d.MimeType,
		Summary:   d.Summary,
		CreatedAt: d.CreatedAt,
	}
}
