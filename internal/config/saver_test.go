package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWrite(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")

	data := []byte(`{"test": "data"}`)
	if err := atomicWrite(testPath, data); err != nil {
		t.Fatalf("atomicWrite failed: %v", err)
	}

	if _, err := os.Stat(testPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file was not cleaned up")
	}

	readData, err := os.ReadFile(testPath)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if string(readData) != string(data) {
		t.Errorf("content mismatch: got %q, want %q", string(readData), string(data))
	}
}

func TestAtomicWriteCreatesDir(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "subdir", "config.json")

	if err := atomicWrite(testPath, []byte(`{}`)); err != nil {
		t.Fatalf("atomicWrite failed: %v", err)
	}
	if _, err := os.Stat(testPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
}

func TestBackupConfig(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")

	originalData := []byte(`{"original": true}`)
	if err := os.WriteFile(testPath, originalData, 0644); err != nil {
		t.Fatalf("failed to create original config: %v", err)
	}

	if err := backupConfig(testPath); err != nil {
		t.Fatalf("backupConfig failed: %v", err)
	}

	bakData, err := os.ReadFile(testPath + ".bak")
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if string(bakData) != string(originalData) {
		t.Errorf("backup content mismatch: got %q", string(bakData))
	}
}

func TestBackupConfigNoFile(t *testing.T) {
	if err := backupConfig(filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Errorf("backupConfig should not fail on first run: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")

	cfg := NewConfig()
	cfg.UsageLog.Path = "/var/log/usage.csv"
	cfg.Generation.Provider = "command"
	cfg.Generation.Command = "llama-cli"
	cfg.Generation.Args = []string{"-m", "model.gguf"}

	if err := Save(cfg, testPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(testPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.UsageLog.Path != "/var/log/usage.csv" {
		t.Errorf("Expected usage path to persist, got %s", loaded.UsageLog.Path)
	}
	if loaded.Generation.Command != "llama-cli" || len(loaded.Generation.Args) != 2 {
		t.Errorf("Expected command settings to persist, got %+v", loaded.Generation)
	}

	// A second save backs up the first.
	if err := Save(cfg, testPath); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if _, err := os.Stat(testPath + ".bak"); err != nil {
		t.Errorf("Expected .bak after second save: %v", err)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := NewConfig()
	cfg.Retrieval.TopK = 0

	err := Save(cfg, filepath.Join(t.TempDir(), "config.json"))
	if _, ok := err.(*InvalidConfigError); !ok {
		t.Errorf("Expected InvalidConfigError, got %v", err)
	}
}
