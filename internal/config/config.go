// ABOUTME: Centralized configuration for the proposal generator
// ABOUTME: Loads an optional YAML file, then environment variables, with validation and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the proposal system
type Config struct {
	// Storage settings
	DBPath         string `yaml:"db_path"`
	EmbedCachePath string `yaml:"embed_cache_path"`

	// Server settings
	ListenAddr     string        `yaml:"listen_addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`

	// Charm settings
	CharmHost   string `yaml:"charm_host"`
	CharmDBName string `yaml:"charm_db"`
	AutoSync    bool   `yaml:"auto_sync"`

	// OpenAI settings
	OpenAIKey         string        `yaml:"-"`
	OpenAIBaseURL     string        `yaml:"openai_base_url"`
	ChatModel         string        `yaml:"chat_model"`
	EmbeddingModel    string        `yaml:"embedding_model"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`

	// Matching settings
	MatchTopK            int     `yaml:"match_top_k"`
	MatchThreshold       float64 `yaml:"match_threshold"`
	SimilarTopK          int     `yaml:"similar_top_k"`
	DocumentSearchLimit  int     `yaml:"document_search_limit"`
	VectorDimension      int     `yaml:"vector_dimension"`
	MinDescriptionLength int     `yaml:"min_description_length"`
	DefaultUserID        string  `yaml:"default_user_id"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DBPath:               filepath.Join(dataDir(), "proposals.db"),
		EmbedCachePath:       filepath.Join(cacheDir(), "embeddings.db"),
		ListenAddr:           ":8080",
		RequestTimeout:       90 * time.Second,
		LogLevel:             "info",
		CharmHost:            "cloud.charm.sh",
		CharmDBName:          "proposals",
		AutoSync:             true,
		ChatModel:            "gpt-4o-mini",
		EmbeddingModel:       "text-embedding-3-small",
		Timeout:              30 * time.Second,
		MaxRetries:           3,
		RetryDelay:           2 * time.Second,
		RequestsPerSecond:    2,
		MatchTopK:            2,
		MatchThreshold:       0.6,
		SimilarTopK:          3,
		DocumentSearchLimit:  5,
		VectorDimension:      1536,
		MinDescriptionLength: 50,
		DefaultUserID:        "user123",
	}
}

// Load reads the config file (if any) and then environment variables
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(FilePath()); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	return cfg, cfg.Validate()
}

// FilePath returns the config file location
func FilePath() string {
	if p := os.Getenv("PROPOSALS_CONFIG"); p != "" {
		return p
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "proposals", "config.yaml")
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "proposals", "config.yaml")
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Save writes the config (minus secrets) to path as YAML
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) applyEnv() {
	c.DBPath = getEnv("PROPOSALS_DB", c.DBPath)
	c.EmbedCachePath = getEnv("PROPOSALS_EMBED_CACHE", c.EmbedCachePath)
	c.ListenAddr = getEnv("PROPOSALS_ADDR", c.ListenAddr)
	c.RequestTimeout = getEnvDuration("PROPOSALS_REQUEST_TIMEOUT", c.RequestTimeout)
	c.LogLevel = getEnv("PROPOSALS_LOG_LEVEL", c.LogLevel)
	c.CharmHost = getEnv("CHARM_HOST", c.CharmHost)
	c.CharmDBName = getEnv("CHARM_DB", c.CharmDBName)
	c.AutoSync = getEnvBool("CHARM_AUTO_SYNC", c.AutoSync)
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.ChatModel = getEnv("PROPOSALS_OPENAI_MODEL", c.ChatModel)
	c.EmbeddingModel = getEnv("PROPOSALS_EMBEDDING_MODEL", c.EmbeddingModel)
	c.Timeout = getEnvDuration("OPENAI_TIMEOUT", c.Timeout)
	c.MaxRetries = getEnvInt("OPENAI_MAX_RETRIES", c.MaxRetries)
	c.RetryDelay = getEnvDuration("OPENAI_RETRY_DELAY", c.RetryDelay)
	c.RequestsPerSecond = getEnvFloat("OPENAI_RPS", c.RequestsPerSecond)
	c.MatchTopK = getEnvInt("PROPOSALS_MATCH_TOP_K", c.MatchTopK)
	c.MatchThreshold = getEnvFloat("PROPOSALS_MATCH_THRESHOLD", c.MatchThreshold)
	c.SimilarTopK = getEnvInt("PROPOSALS_SIMILAR_TOP_K", c.SimilarTopK)
	c.DocumentSearchLimit = getEnvInt("PROPOSALS_SEARCH_LIMIT", c.DocumentSearchLimit)
	c.VectorDimension = getEnvInt("VECTOR_DIMENSION", c.VectorDimension)
	c.MinDescriptionLength = getEnvInt("PROPOSALS_MIN_DESCRIPTION", c.MinDescriptionLength)
	c.DefaultUserID = getEnv("PROPOSALS_DEFAULT_USER", c.DefaultUserID)
}

func (c *Config) Validate() error {
	if c.MatchThreshold < -1 || c.MatchThreshold > 1 {
		return fmt.Errorf("PROPOSALS_MATCH_THRESHOLD must be -1 to 1, got %f", c.MatchThreshold)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.MatchTopK < 1 {
		return fmt.Errorf("PROPOSALS_MATCH_TOP_K must be at least 1, got %d", c.MatchTopK)
	}
	if c.SimilarTopK < 1 {
		return fmt.Errorf("PROPOSALS_SIMILAR_TOP_K must be at least 1, got %d", c.SimilarTopK)
	}
	if c.DocumentSearchLimit < 1 {
		return fmt.Errorf("PROPOSALS_SEARCH_LIMIT must be at least 1, got %d", c.DocumentSearchLimit)
	}
	if c.MinDescriptionLength < 0 {
		return fmt.Errorf("PROPOSALS_MIN_DESCRIPTION must not be negative, got %d", c.MinDescriptionLength)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("OPENAI_RPS must not be negative, got %f", c.RequestsPerSecond)
	}
	if c.VectorDimension < 1 {
		return fmt.Errorf("VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	return nil
}

func dataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "proposals")
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "proposals")
}

func cacheDir() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".cache", "proposals")
		}
		cacheHome = filepath.Join(homeDir, ".cache")
	}
	return filepath.Join(cacheHome, "proposals")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
