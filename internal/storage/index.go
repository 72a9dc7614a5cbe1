package storage

import (
	"fmt"
	"log"
	"time"
)

// InsertEntries implements Storage. All entries are written in one transaction.
func (s *SQLiteStorage) InsertEntries(entries []IndexEntry) (int, error) {
	if !s.enabled || s.db == nil || len(entries) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRow("SELECT COALESCE(MAX(seq), 0) FROM index_entries").Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to read sequence: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO index_entries (id, seq, doc_key, granularity, text, metadata, embedding, dimensions, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(doc_key) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range entries {
		created := e.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}

		res, err := stmt.Exec(
			e.ID,
			seq+1,
			e.DocKey,
			e.Granularity,
			e.Text,
			metadataToJSON(e.Metadata),
			vectorToBlob(e.Embedding),
			len(e.Embedding),
			e.Model,
			created.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert entry %s: %w", e.DocKey, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
			seq++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit entries: %w", err)
	}
	return inserted, nil
}

// ListEntries implements Storage.
func (s *SQLiteStorage) ListEntries() ([]IndexEntry, error) {
	if !s.enabled || s.db == nil {
		return []IndexEntry{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, seq, doc_key, granularity, text, metadata, embedding, dimensions, model, created_at
		FROM index_entries
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []IndexEntry{}
	for rows.Next() {
		var (
			e            IndexEntry
			metadataJSON string
			blob         []byte
			dims         int
			createdStr   string
		)
		if err := rows.Scan(&e.ID, &e.Seq, &e.DocKey, &e.Granularity, &e.Text,
			&metadataJSON, &blob, &dims, &e.Model, &createdStr); err != nil {
			log.Printf("Warning: failed to scan index entry: %v", err)
			continue
		}

		if e.Embedding, err = blobToVector(blob, dims); err != nil {
			log.Printf("Warning: skipping entry %s: %v", e.DocKey, err)
			continue
		}
		if e.Metadata, err = jsonToMetadata(metadataJSON); err != nil {
			log.Printf("Warning: failed to parse metadata for %s: %v", e.DocKey, err)
			e.Metadata = map[string]any{}
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)

		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountEntries implements Storage.
func (s *SQLiteStorage) CountEntries() (int, error) {
	if !s.enabled || s.db == nil {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM index_entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// IndexedKeys implements Storage.
func (s *SQLiteStorage) IndexedKeys() (map[string]bool, error) {
	keys := make(map[string]bool)
	if !s.enabled || s.db == nil {
		return keys, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT doc_key FROM index_entries")
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys[k] = true
	}
	return keys, rows.Err()
}

// ClearEntries implements Storage.
func (s *SQLiteStorage) ClearEntries() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM index_entries"); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}
