package storage

import (
	"log"
	"time"
)

// RecordQuestion implements Storage. Failures are logged, never returned.
func (s *SQLiteStorage) RecordQuestion(rec QuestionRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO question_history (id, question_hash, intent, path, latency_ms, asked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.QuestionHash,
		rec.Intent,
		rec.Path,
		rec.Latency.Milliseconds(),
		rec.AskedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		log.Printf("Warning: failed to record question: %v", err)
	}

	return nil
}

// IntentCounts implements Storage. Results are ordered by count descending.
func (s *SQLiteStorage) IntentCounts(since time.Time) ([]IntentCount, error) {
	if !s.enabled || s.db == nil {
		return []IntentCount{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT intent, path, COUNT(*), CAST(AVG(latency_ms) AS INTEGER)
		FROM question_history
		WHERE asked_at >= ?
		GROUP BY intent, path
		ORDER BY COUNT(*) DESC, intent ASC
	`, since.UTC().Format(time.RFC3339))
	if err != nil {
		log.Printf("Warning: failed to query question history: %v", err)
		return []IntentCount{}, nil
	}
	defer rows.Close()

	counts := []IntentCount{}
	for rows.Next() {
		var c IntentCount
		var avgMs int64
		if err := rows.Scan(&c.Intent, &c.Path, &c.Count, &avgMs); err != nil {
			log.Printf("Warning: failed to scan history row: %v", err)
			continue
		}
		c.AvgLatency = time.Duration(avgMs) * time.Millisecond
		counts = append(counts, c)
	}
	return counts, nil
}

// ClearHistory implements Storage.
func (s *SQLiteStorage) ClearHistory() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM question_history"); err != nil {
		log.Printf("Warning: failed to clear question history: %v", err)
	}
	return nil
}

// Cleanup removes old records based on retention policy.
func (s *SQLiteStorage) Cleanup(retention time.Duration) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention).UTC().Format(time.RFC3339)

	if _, err := s.db.Exec("DELETE FROM question_history WHERE asked_at < ?", cutoff); err != nil {
		log.Printf("Warning: failed to cleanup question_history: %v", err)
	}

	// Vacuum to reclaim space
	if _, err := s.db.Exec("VACUUM"); err != nil {
		log.Printf("Warning: failed to vacuum database: %v", err)
	}

	return nil
}
