package config

import (
	"fmt"

	"github.com/gorhill/cronexpr"
)

var (
	embeddingProviders  = []string{"hash", "ollama"}
	generationProviders = []string{"ollama", "openai", "command", "none"}
	retrievalModes      = []string{ModeSemantic, ModeHybrid}
)

// Validate checks that every setting is usable. It returns the first problem found.
func (c *Config) Validate() error {
	if c.UsageLog.Path == "" {
		return fmt.Errorf("usage_log.path must not be empty")
	}
	if c.Index.Path == "" {
		return fmt.Errorf("index.path must not be empty")
	}
	if c.Index.RebuildSchedule != "" {
		if _, err := cronexpr.Parse(c.Index.RebuildSchedule); err != nil {
			return fmt.Errorf("index.rebuild_schedule %q: %w", c.Index.RebuildSchedule, err)
		}
	}

	if !oneOf(c.Embedding.Provider, embeddingProviders) {
		return fmt.Errorf("embedding.provider %q must be one of %v", c.Embedding.Provider, embeddingProviders)
	}
	if c.Embedding.Provider == "hash" && c.Embedding.Dimensions < 1 {
		return fmt.Errorf("embedding.dimensions must be positive for the hash provider")
	}

	if !oneOf(c.Generation.Provider, generationProviders) {
		return fmt.Errorf("generation.provider %q must be one of %v", c.Generation.Provider, generationProviders)
	}
	if c.Generation.TimeoutSeconds <= 0 {
		return fmt.Errorf("generation.timeout_seconds must be positive")
	}
	if c.Generation.Provider == "command" && c.Generation.Command == "" {
		return fmt.Errorf("generation.command is required for the command provider")
	}
	if c.Generation.Provider == "openai" && c.Generation.APIKey == "" {
		return fmt.Errorf("generation.api_key is required for the openai provider")
	}

	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval.top_k must be at least 1")
	}
	if !oneOf(c.Retrieval.Mode, retrievalModes) {
		return fmt.Errorf("retrieval.mode %q must be one of %v", c.Retrieval.Mode, retrievalModes)
	}
	if c.Retrieval.SemanticWeight < 0 || c.Retrieval.KeywordWeight < 0 {
		return fmt.Errorf("retrieval weights must not be negative")
	}
	if c.Retrieval.Mode == ModeHybrid && c.Retrieval.SemanticWeight+c.Retrieval.KeywordWeight == 0 {
		return fmt.Errorf("retrieval weights must not both be zero in hybrid mode")
	}

	if c.History.RetentionDays < 0 {
		return fmt.Errorf("history.retention_days must not be negative")
	}
	return nil
}

func oneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
