// ABOUTME: Document is a user's stored text, searchable by meaning
// ABOUTME: Also holds the conversation and answer types used by document search
package models

import "time"

// DefaultMimeType is assumed when a document does not name its type
const DefaultMimeType = "text/plain"

// Document is a piece of text owned by a user, with its summary and embedding
type Document struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	Name      string    `json:"name" yaml:"name"`
	MimeType  string    `json:"mime_type" yaml:"mime_type"`
	Content   string    `json:"content" yaml:"content"`
	Summary   string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Embedding []float64 `json:"-" yaml:"-"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// HasEmbedding reports whether the document can be ranked without re-embedding
func (d *Document) HasEmbedding() bool {
	return len(d.Embedding) > 0
}

// Chat roles accepted in a search conversation
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a document search conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// DocumentMatch pairs a document with its similarity to a query
type DocumentMatch struct {
	Document *Document `json:"document"`
	Score    float64   `json:"similarity_score"`
}

// SearchAnswer is the model's answer plus the documents it was given
type SearchAnswer struct {
	Answer              string          `json:"ai_response"`
	Documents           []DocumentMatch `json:"relevant_documents"`
	ConversationHistory []ChatMessage   `json:"conversation_history"`
	Skipped             int             `json:"skipped"`
}
