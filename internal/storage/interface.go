/*
Package storage implements the persistent layer behind the semantic index and
question history.

Index entries (embedded documents) and hashed question history live in one
SQLite database, by default ~/.focus-ask/index.db, opened with
modernc.org/sqlite (a pure Go, CGo-free implementation). If the database cannot
be opened the storage is disabled and operations become no-ops returning empty
results (graceful degradation).
*/
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Storage defines the interface for persistent storage operations.
type Storage interface {
	// Init opens the database and runs migrations.
	Init() error

	// Enabled reports whether the database is usable.
	Enabled() bool

	// InsertEntries appends entries in order, skipping any whose DocKey is
	// already stored. It returns the number inserted.
	InsertEntries(entries []IndexEntry) (int, error)

	// ListEntries returns every entry in insertion order.
	ListEntries() ([]IndexEntry, error)

	// CountEntries returns the number of stored entries.
	CountEntries() (int, error)

	// IndexedKeys returns the set of stored document keys.
	IndexedKeys() (map[string]bool, error)

	// ClearEntries removes every entry.
	ClearEntries() error

	// RecordQuestion appends a question history record.
	RecordQuestion(rec QuestionRecord) error

	// IntentCounts aggregates question history since a given time.
	IntentCounts(since time.Time) ([]IntentCount, error)

	// ClearHistory removes all question history.
	ClearHistory() error

	// Cleanup removes history older than retention.
	Cleanup(retention time.Duration) error

	// Close closes the database connection.
	Close() error
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// NewStorage creates a storage instance for the database at dbPath.
// An empty path selects ~/.focus-ask/index.db. Nothing is opened until Init.
func NewStorage(dbPath string) *SQLiteStorage {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Printf("Warning: failed to get home directory: %v", err)
			return &SQLiteStorage{enabled: false}
		}
		dbPath = filepath.Join(home, ".focus-ask", "index.db")
	}

	return &SQLiteStorage{
		dbPath:  dbPath,
		enabled: true,
	}
}

// Path returns the database file location.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Enabled implements Storage.
func (s *SQLiteStorage) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled && s.db != nil
}

// Init initializes the database and runs migrations.
//
// If initialization fails, storage is disabled and subsequent operations
// become no-ops (graceful degradation).
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		fail := func(err error) {
			initErr = err
			s.enabled = false
			if s.db != nil {
				s.db.Close()
				s.db = nil
			}
			log.Printf("Warning: %v", err)
		}

		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
			fail(fmt.Errorf("failed to create db directory: %w", err))
			return
		}

		// busy_timeout lets concurrent processes wait for each other's writes.
		dsn := "file:" + s.dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			fail(fmt.Errorf("failed to open database: %w", err))
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			fail(fmt.Errorf("failed to ping database: %w", err))
			return
		}

		if err := s.runMigrations(); err != nil {
			fail(fmt.Errorf("failed to run migrations: %w", err))
			return
		}
	})

	return initErr
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}

// HashQuery creates a SHA256 hash of a question for privacy.
func HashQuery(query string) string {
	hash := sha256.Sum256([]byte(query))
	return hex.EncodeToString(hash[:])
}
