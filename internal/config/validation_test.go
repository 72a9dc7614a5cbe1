package config

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown embedding provider", func(c *Config) { c.Embedding.Provider = "bert" }, true},
		{"zero hash dimensions", func(c *Config) { c.Embedding.Dimensions = 0 }, true},
		{"ollama embedding ignores dimensions", func(c *Config) {
			c.Embedding.Provider = "ollama"
			c.Embedding.Dimensions = 0
		}, false},
		{"unknown generation provider", func(c *Config) { c.Generation.Provider = "bard" }, true},
		{"zero timeout", func(c *Config) { c.Generation.TimeoutSeconds = 0 }, true},
		{"command without binary", func(c *Config) { c.Generation.Provider = "command" }, true},
		{"openai without key", func(c *Config) { c.Generation.Provider = "openai" }, true},
		{"top_k zero", func(c *Config) { c.Retrieval.TopK = 0 }, true},
		{"unknown mode", func(c *Config) { c.Retrieval.Mode = "fuzzy" }, true},
		{"hybrid zero weights", func(c *Config) {
			c.Retrieval.Mode = ModeHybrid
			c.Retrieval.SemanticWeight = 0
			c.Retrieval.KeywordWeight = 0
		}, true},
		{"negative weight", func(c *Config) { c.Retrieval.KeywordWeight = -1 }, true},
		{"valid cron", func(c *Config) { c.Index.RebuildSchedule = "0 3 * * *" }, false},
		{"invalid cron", func(c *Config) { c.Index.RebuildSchedule = "every night" }, true},
		{"empty log path", func(c *Config) { c.UsageLog.Path = "" }, true},
		{"negative retention", func(c *Config) { c.History.RetentionDays = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
