// Package store persists tvratings search history in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrEmptyQuery is returned when recording a search without a query.
var ErrEmptyQuery = errors.New("store: empty query")

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Search is one completed lookup.
type Search struct {
	ID         string // query correlation ID
	Query      string
	Outcome    string // panel status name: found, not_found, ...
	Episodes   int
	SearchedAt time.Time
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// shared cache so every pooled connection sees the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS searches (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		outcome TEXT NOT NULL,
		episodes INTEGER NOT NULL DEFAULT 0,
		searched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_searches_time ON searches(searched_at DESC);
	CREATE INDEX IF NOT EXISTS idx_searches_query ON searches(query);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// RecordSearch stores a finished search. Re-recording the same ID replaces it.
func (s *Store) RecordSearch(sr Search) error {
	q := strings.TrimSpace(sr.Query)
	if q == "" {
		return ErrEmptyQuery
	}
	if sr.SearchedAt.IsZero() {
		sr.SearchedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO searches (id, query, outcome, episodes, searched_at)
		VALUES (?, ?, ?, ?, ?)
	`, sr.ID, q, sr.Outcome, sr.Episodes, sr.SearchedAt.UTC())
	if err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

// History returns the most recent searches, newest first.
func (s *Store) History(limit int) ([]Search, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, query, outcome, episodes, searched_at
		FROM searches
		ORDER BY searched_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Search
	for rows.Next() {
		var sr Search
		if err := rows.Scan(&sr.ID, &sr.Query, &sr.Outcome, &sr.Episodes, &sr.SearchedAt); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// RecentQueries returns distinct queries, most recently searched first.
func (s *Store) RecentQueries(limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT query
		FROM searches
		GROUP BY query
		ORDER BY MAX(searched_at) DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// ClearHistory deletes all searches and returns how many were removed.
func (s *Store) ClearHistory() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM searches")
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}
