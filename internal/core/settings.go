// ABOUTME: Tunables for matching and validation used by the services
// ABOUTME: Built from the loaded config so the core package stays testable without env vars
package core

import (
	"context"

	"github.com/harper/proposal-forge/internal/config"
	"github.com/harper/proposal-forge/internal/llm"
)

// Embedder turns text into a vector
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Completer runs a chat completion
type Completer interface {
	Complete(ctx context.Context, req llm.ChatRequest) (string, error)
}

// Settings controls matching and input validation
type Settings struct {
	DefaultUserID        string
	MinDescriptionLength int
	MatchTopK            int
	MatchThreshold       float64
	SimilarTopK          int
	DocumentSearchLimit  int
}

// DefaultSettings mirrors the config defaults
func DefaultSettings() Settings {
	return SettingsFromConfig(config.Default())
}

// SettingsFromConfig copies the relevant fields out of cfg
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		DefaultUserID:        cfg.DefaultUserID,
		MinDescriptionLength: cfg.MinDescriptionLength,
		MatchTopK:            cfg.MatchTopK,
		MatchThreshold:       cfg.MatchThreshold,
		SimilarTopK:          cfg.SimilarTopK,
		DocumentSearchLimit:  cfg.DocumentSearchLimit,
	}
}

func (s Settings) userOrDefault(userID string) string {
	if userID == "" {
		return s.DefaultUserID
	}
	return userID
}
