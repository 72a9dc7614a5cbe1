package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromEnhancedErrors(t *testing.T) {
	t.Run("file not found", func(t *testing.T) {
		testPath := filepath.Join(t.TempDir(), "nonexistent.json")

		_, err := LoadFrom(testPath)
		if err == nil {
			t.Fatal("LoadFrom should error for nonexistent file")
		}
		if _, ok := err.(*ConfigNotFoundError); !ok {
			t.Errorf("Expected ConfigNotFoundError, got %T", err)
		}
		if !strings.Contains(err.Error(), "focus-ask config init") {
			t.Errorf("error should mention init command, got: %v", err)
		}
	})

	t.Run("permission denied", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root ignores file permissions")
		}
		testPath := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(testPath, []byte(`{}`), 0000); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		_, err := LoadFrom(testPath)
		if err == nil || !strings.Contains(err.Error(), "permission denied") {
			t.Errorf("error should mention permission denied, got: %v", err)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		testPath := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(testPath, []byte(`{invalid json}`), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		_, err := LoadFrom(testPath)
		if err == nil {
			t.Fatal("LoadFrom should error for invalid JSON")
		}
		if !strings.Contains(err.Error(), ".bak") {
			t.Errorf("error should mention .bak file, got: %v", err)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		testPath := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(testPath, []byte(`{"retrieval": {"top_k": 0}}`), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		_, err := LoadFrom(testPath)
		if _, ok := err.(*InvalidConfigError); !ok {
			t.Fatalf("Expected InvalidConfigError, got %v", err)
		}
		if !strings.Contains(err.Error(), "top_k") {
			t.Errorf("error should name the key, got: %v", err)
		}
	})
}

func TestLoadFrom_MergesDefaults(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")
	data := `{
  "usage_log": {"path": "/tmp/usage.csv"},
  "generation": {"provider": "none"}
}`
	if err := os.WriteFile(testPath, []byte(data), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	cfg, err := LoadFrom(testPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.UsageLog.Path != "/tmp/usage.csv" {
		t.Errorf("Expected file value, got %s", cfg.UsageLog.Path)
	}
	if cfg.Generation.Provider != "none" {
		t.Errorf("Expected provider none, got %s", cfg.Generation.Provider)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("Expected default top_k 3, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Generation.TimeoutSeconds != 60 {
		t.Errorf("Expected default timeout 60, got %d", cfg.Generation.TimeoutSeconds)
	}
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(testPath, []byte(`{"retrieval": {"top_k": 4}}`), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	t.Setenv("FOCUSASK_RETRIEVAL_TOP_K", "7")
	t.Setenv("FOCUSASK_RETRIEVAL_MODE", "hybrid")

	cfg, err := LoadFrom(testPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Retrieval.TopK != 7 {
		t.Errorf("Expected env top_k 7, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.Mode != ModeHybrid {
		t.Errorf("Expected env mode hybrid, got %s", cfg.Retrieval.Mode)
	}
}

func TestLoadFrom_ExpandsHome(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(testPath, []byte(`{"usage_log": {"path": "~/log.csv"}}`), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	cfg, err := LoadFrom(testPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if strings.HasPrefix(cfg.UsageLog.Path, "~") {
		t.Errorf("Expected expanded path, got %s", cfg.UsageLog.Path)
	}
}
