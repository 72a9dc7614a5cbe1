package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"math"
)

// runMigrations executes database schema migrations.
func (s *SQLiteStorage) runMigrations() error {
	if s.db == nil {
		return nil
	}

	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.getCurrentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "index_entries", up: s.migration001IndexEntries},
		{version: 2, name: "question_history", up: s.migration002QuestionHistory},
	}

	for _, m := range migrations {
		if version < m.version {
			log.Printf("Running migration %d: %s", m.version, m.name)
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m); err != nil {
				return err
			}
		}
	}

	return nil
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

// createMigrationsTable creates the schema_migrations table.
func (s *SQLiteStorage) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	return err
}

// getCurrentMigrationVersion returns the highest applied migration version.
func (s *SQLiteStorage) getCurrentMigrationVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

// setMigrationVersion records a migration as applied. A concurrent process may
// have recorded it first.
func (s *SQLiteStorage) setMigrationVersion(m migration) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO schema_migrations (version, name) VALUES (?, ?)", m.version, m.name)
	return err
}

func (s *SQLiteStorage) migration001IndexEntries() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS index_entries (
			id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			doc_key TEXT NOT NULL UNIQUE,
			granularity TEXT NOT NULL,
			text TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			embedding BLOB NOT NULL,
			dimensions INTEGER NOT NULL,
			model TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create index_entries table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_index_entries_seq
		ON index_entries(seq)
	`); err != nil {
		return fmt.Errorf("failed to create index_entries seq index: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) migration002QuestionHistory() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS question_history (
			id TEXT PRIMARY KEY,
			question_hash TEXT NOT NULL,
			intent TEXT NOT NULL,
			path TEXT NOT NULL,
			latency_ms INTEGER NOT NULL,
			asked_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create question_history table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_question_history_asked_at
		ON question_history(asked_at DESC)
	`); err != nil {
		return fmt.Errorf("failed to create question_history asked_at index: %w", err)
	}

	return nil
}

// vectorToBlob serializes a vector as little-endian float32s.
func vectorToBlob(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// blobToVector parses a blob written by vectorToBlob.
func blobToVector(b []byte, dims int) ([]float32, error) {
	if len(b) != dims*4 {
		return nil, fmt.Errorf("embedding blob has %d bytes, expected %d", len(b), dims*4)
	}
	v := make([]float32, dims)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// metadataToJSON converts entry metadata to JSON for storage.
func metadataToJSON(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}
	data, err := json.Marshal(m)
	if err != nil {
		log.Printf("Warning: failed to marshal metadata: %v", err)
		return "{}"
	}
	return string(data)
}

// jsonToMetadata parses stored metadata.
func jsonToMetadata(s string) (map[string]any, error) {
	m := make(map[string]any)
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}
