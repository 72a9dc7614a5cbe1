package storage

import "time"

// IndexEntry is one embedded document in the semantic index.
type IndexEntry struct {
	// ID is a unique identifier for this entry (UUID).
	ID string `json:"id"`

	// Seq is the insertion order, assigned by storage.
	Seq int64 `json:"seq"`

	// DocKey is the document's grouping key; unique across the index.
	DocKey string `json:"doc_key"`

	// Granularity is the document kind, e.g. "daily_usage".
	Granularity string `json:"granularity"`

	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`

	// Embedding is stored as a little-endian float32 blob.
	Embedding []float32 `json:"-"`

	// Model names the embedder that produced Embedding.
	Model string `json:"model"`

	CreatedAt time.Time `json:"created_at"`
}

// QuestionRecord is one answered question. The question text itself is never
// stored, only its hash.
type QuestionRecord struct {
	ID           string        `json:"id"`
	QuestionHash string        `json:"question_hash"`
	Intent       string        `json:"intent"`
	Path         string        `json:"path"`
	Latency      time.Duration `json:"latency"`
	AskedAt      time.Time     `json:"asked_at"`
}

// IntentCount aggregates history per (intent, path).
type IntentCount struct {
	Intent     string        `json:"intent"`
	Path       string        `json:"path"`
	Count      int           `json:"count"`
	AvgLatency time.Duration `json:"avg_latency"`
}
