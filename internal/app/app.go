// ABOUTME: Application bootstrap shared by the CLI, the HTTP server, and the MCP server
// ABOUTME: Loads config, opens storage and the embedding cache, and wires the domain services
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harper/proposal-forge/internal/config"
	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/embedcache"
	"github.com/harper/proposal-forge/internal/llm"
	"github.com/harper/proposal-forge/internal/logging"
	"github.com/harper/proposal-forge/internal/storage/sqlite"
	"github.com/joho/godotenv"
)

// ErrNoAPIKey is returned by AI features when no OpenAI key is configured
var ErrNoAPIKey = errors.New("OPENAI_API_KEY is not set")

// Options tune how the app is opened
type Options struct {
	// LogOutput defaults to stderr
	LogOutput io.Writer
	// LogLevel overrides the configured level when set
	LogLevel string
}

// App holds the opened resources
type App struct {
	Config   *config.Config
	Store    *sqlite.Storage
	Cache    *embedcache.Cache
	Services *core.Services
	Settings core.Settings
	Logger   *log.Logger
	// AIEnabled reports whether an OpenAI client was configured
	AIEnabled bool
}

// Open loads .env and config, then opens storage and the LLM client
func Open(opts Options) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return OpenWithConfig(cfg, opts)
}

// LoadConfig loads .env into the environment, then the config
func LoadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// OpenWithConfig opens the app for an already loaded config
func OpenWithConfig(cfg *config.Config, opts Options) (*App, error) {
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger := logging.New(out, level)

	store, err := sqlite.NewStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	a := &App{
		Config:   cfg,
		Store:    store,
		Settings: core.SettingsFromConfig(cfg),
		Logger:   logger,
	}

	var completer core.Completer = unavailable{}
	var embedder core.Embedder = unavailable{}
	if cfg.OpenAIKey != "" {
		client, err := llm.NewOpenAIClientWithConfig(llm.ConfigFrom(cfg))
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("initializing OpenAI client: %w", err)
		}
		completer, embedder = client, client
		a.AIEnabled = true

		cache, err := embedcache.Open(cfg.EmbedCachePath, client, client.EmbeddingModel())
		if err != nil {
			logger.Warn("embedding cache unavailable", "path", cfg.EmbedCachePath, "err", err)
		} else {
			a.Cache = cache
			embedder = cache
		}
	} else {
		logger.Debug("OPENAI_API_KEY not set, AI features disabled")
	}

	a.Services = core.NewServices(store, completer, embedder, a.Settings, logger)
	return a, nil
}

// Close releases the cache and the database
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

// unavailable stands in for the LLM client when no key is configured
type unavailable struct{}

func (unavailable) Complete(context.Context, llm.ChatRequest) (string, error) {
	return "", ErrNoAPIKey
}

func (unavailable) GenerateEmbedding(context.Context, string) ([]float64, error) {
	return nil, ErrNoAPIKey
}
