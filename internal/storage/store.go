package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"swipr/internal/ports"
)

// timeFormat is how timestamps are stored; RFC3339 strings sort
// chronologically, which the ranked retrieval query relies on.
const timeFormat = time.RFC3339

// Store persists entries, ratings, engagement events, the model
// registry and the Open Graph cache in a single SQLite database.
type Store struct {
	db *sql.DB
}

var (
	_ ports.EntryStore    = (*Store)(nil)
	_ ports.ModelRegistry = (*Store)(nil)
	_ ports.OGCache       = (*Store)(nil)
)

// Open opens the SQLite database at path, creating it and the schema
// if needed.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The driver serializes writes; a single connection avoids
	// SQLITE_BUSY on concurrent upserts.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// NewStore wraps an existing database handle without running schema
// setup.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func parseStoredTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(timeFormat, value); err == nil {
		return t
	}
	// Tolerate the bare format SQLite's CURRENT_TIMESTAMP produces.
	if t, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return t
	}
	return time.Time{}
}
