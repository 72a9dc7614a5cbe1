package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg.Retrieval.TopK != 3 {
		t.Errorf("Expected top_k 3, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.Mode != ModeSemantic {
		t.Errorf("Expected semantic mode, got %s", cfg.Retrieval.Mode)
	}
	if cfg.Embedding.Provider != "hash" {
		t.Errorf("Expected hash embedder, got %s", cfg.Embedding.Provider)
	}
	if cfg.Generation.Temperature != 0.1 {
		t.Errorf("Expected temperature 0.1, got %v", cfg.Generation.Temperature)
	}
	if !strings.HasSuffix(cfg.Index.Path, filepath.Join(".focus-ask", "index.db")) {
		t.Errorf("Unexpected index path %s", cfg.Index.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate, got %v", err)
	}
}

func TestIndexConfig_LockPath(t *testing.T) {
	c := IndexConfig{Path: filepath.Join("data", "index.db")}
	if got := c.LockPath(); got != filepath.Join("data", "index.lock") {
		t.Errorf("Expected lock beside the database, got %s", got)
	}
}

func TestExpandPath(t *testing.T) {
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("Absolute path changed: %s", got)
	}
	got := ExpandPath("~/usage.csv")
	if strings.HasPrefix(got, "~") || !strings.HasSuffix(got, "usage.csv") {
		t.Errorf("Expected home expansion, got %s", got)
	}
}
