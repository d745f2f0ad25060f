// ABOUTME: Services bundles every domain service over one store and one LLM client
// ABOUTME: Shared by the HTTP server, the MCP server, and the CLI
package core

import (
	"github.com/charmbracelet/log"
	"github.com/harper/proposal-forge/internal/storage/sqlite"
)

// Services is the full domain layer
type Services struct {
	Proposals *ProposalService
	Portfolio *PortfolioService
	Tracking  *TrackingService
	Profile   *ProfileService
	Documents *DocumentService
}

// NewServices wires the services together
func NewServices(store *sqlite.Storage, completer Completer, embedder Embedder, settings Settings, logger *log.Logger) *Services {
	matcher := NewMatcher(embedder, store.Portfolio(), logger)
	analyzer := NewPortfolioAnalyzer(completer, embedder, logger)
	composer := NewProposalComposer(completer, logger)

	return &Services{
		Proposals: NewProposalService(store, matcher, composer, settings, logger),
		Portfolio: NewPortfolioService(store, analyzer, matcher, settings, logger),
		Tracking:  NewTrackingService(store, settings, logger),
		Profile:   NewProfileService(store),
		Documents: NewDocumentService(store, completer, embedder, settings, logger),
	}
}
