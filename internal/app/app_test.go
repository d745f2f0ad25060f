// ABOUTME: Tests for application bootstrap without an OpenAI key
// ABOUTME: Uses a temp database so nothing touches the real data directory
package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/proposal-forge/internal/config"
	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "proposals.db")
	cfg.EmbedCachePath = filepath.Join(dir, "embeddings.db")
	cfg.OpenAIKey = ""
	return cfg
}

func TestOpenWithConfig_NoKey(t *testing.T) {
	var logs bytes.Buffer
	a, err := OpenWithConfig(testConfig(t), Options{LogOutput: &logs, LogLevel: "debug"})
	if err != nil {
		t.Fatalf("OpenWithConfig() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	if a.AIEnabled {
		t.Error("AIEnabled = true without an API key")
	}
	if a.Cache != nil {
		t.Error("cache should not open without an embedder")
	}
	if !strings.Contains(logs.String(), "AI features disabled") {
		t.Errorf("expected a debug log about the missing key, got %q", logs.String())
	}

	// storage works without AI
	saved, err := a.Services.Profile.Save(models.FreelancerProfile{Name: "Sam"})
	if err != nil {
		t.Fatalf("Profile.Save() error = %v", err)
	}
	if saved.Name != "Sam" {
		t.Errorf("Name = %q", saved.Name)
	}

	// AI features report the missing key
	_, err = a.Services.Proposals.Generate(context.Background(), core.GenerateRequest{
		JobDescription: strings.Repeat("Build a dashboard for our team. ", 3),
	})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Generate() error = %v, want ErrNoAPIKey", err)
	}
}

func TestOpenWithConfig_WithKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.OpenAIKey = "test-key"

	a, err := OpenWithConfig(cfg, Options{LogOutput: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("OpenWithConfig() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	if !a.AIEnabled {
		t.Error("AIEnabled = false with an API key")
	}
	if a.Cache == nil {
		t.Error("embedding cache should be opened")
	}
}

func TestOpenWithConfig_BadDBPath(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.DBPath, []byte("not a directory"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg.DBPath = filepath.Join(cfg.DBPath, "nested", "proposals.db")

	if _, err := OpenWithConfig(cfg, Options{LogOutput: &bytes.Buffer{}}); err == nil {
		t.Error("expected an error when the database path is a file's child")
	}
}
