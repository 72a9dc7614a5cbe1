/*
Package config handles loading, saving, and validating focus-ask configuration.

Configuration is stored in ~/.focus-ask.json. Every key has a default, so the
file is optional, and any key can be overridden from the environment with the
FOCUSASK_ prefix (e.g. FOCUSASK_RETRIEVAL_TOP_K=5).

Schema:
  {
    "usage_log":  {"path": "~/.focus-ask/usage_log.csv"},
    "index":      {"path": "~/.focus-ask/index.db", "keyword_path": "", "rebuild_schedule": ""},
    "embedding":  {"provider": "hash", "model": "", "base_url": "", "dimensions": 256},
    "generation": {"provider": "ollama", "model": "llama3.1:8b-instruct-q4_0",
                   "base_url": "http://localhost:11434", "timeout_seconds": 60, "temperature": 0.1},
    "retrieval":  {"top_k": 3, "mode": "semantic", "semantic_weight": 0.7, "keyword_weight": 0.3},
    "history":    {"enabled": true, "retention_days": 90},
    "server":     {"http_addr": "127.0.0.1:8089"}
  }
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the root configuration structure.
type Config struct {
	UsageLog   UsageLogConfig   `json:"usage_log" mapstructure:"usage_log"`
	Index      IndexConfig      `json:"index" mapstructure:"index"`
	Embedding  EmbeddingConfig  `json:"embedding" mapstructure:"embedding"`
	Generation GenerationConfig `json:"generation" mapstructure:"generation"`
	Retrieval  RetrievalConfig  `json:"retrieval" mapstructure:"retrieval"`
	History    HistoryConfig    `json:"history" mapstructure:"history"`
	Server     ServerConfig     `json:"server" mapstructure:"server"`
}

// UsageLogConfig locates the usage log written by the focus tracker.
type UsageLogConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// IndexConfig controls the persisted semantic index.
type IndexConfig struct {
	// Path is the SQLite database holding index entries and question history.
	Path string `json:"path" mapstructure:"path"`

	// KeywordPath is the on-disk bleve index for hybrid retrieval.
	// Empty keeps the keyword index in memory.
	KeywordPath string `json:"keyword_path,omitempty" mapstructure:"keyword_path"`

	// RebuildSchedule is a cron expression for scheduled rebuilds while serving.
	// Empty disables scheduled rebuilds.
	RebuildSchedule string `json:"rebuild_schedule,omitempty" mapstructure:"rebuild_schedule"`
}

// LockPath is the cross-process build lock next to the index database.
func (c IndexConfig) LockPath() string {
	return filepath.Join(filepath.Dir(c.Path), "index.lock")
}

// EmbeddingConfig selects the embedding backend.
type EmbeddingConfig struct {
	// Provider is "hash" (local, offline) or "ollama".
	Provider string `json:"provider" mapstructure:"provider"`

	Model   string `json:"model,omitempty" mapstructure:"model"`
	BaseURL string `json:"base_url,omitempty" mapstructure:"base_url"`

	// Dimensions is the vector length of the hash embedder.
	Dimensions int `json:"dimensions,omitempty" mapstructure:"dimensions"`
}

// GenerationConfig selects the language-generation backend.
type GenerationConfig struct {
	// Provider is "ollama", "openai", "command", or "none".
	Provider string `json:"provider" mapstructure:"provider"`

	Model   string `json:"model,omitempty" mapstructure:"model"`
	BaseURL string `json:"base_url,omitempty" mapstructure:"base_url"`
	APIKey  string `json:"api_key,omitempty" mapstructure:"api_key"`

	// Command, Args and Env describe the local process for provider "command".
	Command string            `json:"command,omitempty" mapstructure:"command"`
	Args    []string          `json:"args,omitempty" mapstructure:"args"`
	Env     map[string]string `json:"env,omitempty" mapstructure:"env"`

	TimeoutSeconds int     `json:"timeout_seconds" mapstructure:"timeout_seconds"`
	Temperature    float64 `json:"temperature" mapstructure:"temperature"`
}

// RetrievalConfig tunes the fallback retrieval path.
type RetrievalConfig struct {
	TopK int `json:"top_k" mapstructure:"top_k"`

	// Mode is "semantic" (vector only) or "hybrid" (vector fused with BM25).
	Mode string `json:"mode" mapstructure:"mode"`

	SemanticWeight float64 `json:"semantic_weight" mapstructure:"semantic_weight"`
	KeywordWeight  float64 `json:"keyword_weight" mapstructure:"keyword_weight"`
}

// HistoryConfig controls question history tracking.
type HistoryConfig struct {
	Enabled       bool `json:"enabled" mapstructure:"enabled"`
	RetentionDays int  `json:"retention_days" mapstructure:"retention_days"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	HTTPAddr string `json:"http_addr" mapstructure:"http_addr"`
}

// Retrieval modes.
const (
	ModeSemantic = "semantic"
	ModeHybrid   = "hybrid"
)

// NewConfig creates a configuration populated with defaults.
func NewConfig() *Config {
	dir := DataDir()
	return &Config{
		UsageLog: UsageLogConfig{Path: filepath.Join(dir, "usage_log.csv")},
		Index:    IndexConfig{Path: filepath.Join(dir, "index.db")},
		Embedding: EmbeddingConfig{
			Provider:   "hash",
			Dimensions: 256,
		},
		Generation: GenerationConfig{
			Provider:       "ollama",
			Model:          "llama3.1:8b-instruct-q4_0",
			BaseURL:        "http://localhost:11434",
			TimeoutSeconds: 60,
			Temperature:    0.1,
		},
		Retrieval: RetrievalConfig{
			TopK:           3,
			Mode:           ModeSemantic,
			SemanticWeight: 0.7,
			KeywordWeight:  0.3,
		},
		History: HistoryConfig{Enabled: true, RetentionDays: 90},
		Server:  ServerConfig{HTTPAddr: "127.0.0.1:8089"},
	}
}

// DataDir returns ~/.focus-ask, or .focus-ask when the home directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".focus-ask"
	}
	return filepath.Join(home, ".focus-ask")
}

// GetDefaultConfigPath returns the path to ~/.focus-ask.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".focus-ask.json"), nil
}

// ExpandPath replaces a leading "~/" with the home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func (c *Config) expandPaths() {
	c.UsageLog.Path = ExpandPath(c.UsageLog.Path)
	c.Index.Path = ExpandPath(c.Index.Path)
	c.Index.KeywordPath = ExpandPath(c.Index.KeywordPath)
}
