// Package journal persists journal entries in a SQLite index for
// lightweight downstream querying without re-parsing full receipts.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is an append-mostly SQLite index over journal entries.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Entry is one indexed journal row.
type Entry struct {
	ID         string            `json:"id"`
	Action     string            `json:"action"`
	ObjectType string            `json:"object_type"`
	Function   string            `json:"function"`
	Selectors  map[string]string `json:"selectors"`
	Writes     []map[string]any  `json:"writes"`
	Timestamp  string            `json:"timestamp"`
}

// Open creates or opens the index at dbPath and initializes the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		object_type TEXT NOT NULL,
		function TEXT NOT NULL,
		selectors JSON,
		writes JSON,
		timestamp TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_entries_object ON entries(object_type, timestamp);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Append indexes one journal entry (the map shape produced by
// receipt.ToJournalEntry) and returns the assigned row id.
func (s *Store) Append(entry map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selectors, err := json.Marshal(valueOrEmpty(entry["selectors"]))
	if err != nil {
		return "", fmt.Errorf("marshal selectors: %w", err)
	}
	writes, err := json.Marshal(sliceOrEmpty(entry["writes"]))
	if err != nil {
		return "", fmt.Errorf("marshal writes: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO entries (id, action, object_type, function, selectors, writes, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		str(entry["action"]),
		str(entry["object_type"]),
		str(entry["function"]),
		string(selectors),
		string(writes),
		str(entry["timestamp"]),
	)
	if err != nil {
		return "", fmt.Errorf("insert entry: %w", err)
	}
	return id, nil
}

// ByObject returns up to limit entries for one object type, newest first.
func (s *Store) ByObject(objectType string, limit int) ([]Entry, error) {
	return s.query(
		`SELECT id, action, object_type, function, selectors, writes, timestamp
		 FROM entries WHERE object_type = ? ORDER BY timestamp DESC LIMIT ?`,
		objectType, clampLimit(limit),
	)
}

// Recent returns up to limit entries across all objects, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	return s.query(
		`SELECT id, action, object_type, function, selectors, writes, timestamp
		 FROM entries ORDER BY timestamp DESC LIMIT ?`,
		clampLimit(limit),
	)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func (s *Store) query(q string, args ...any) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var selectors, writes sql.NullString
		if err := rows.Scan(&e.ID, &e.Action, &e.ObjectType, &e.Function, &selectors, &writes, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Selectors = map[string]string{}
		if selectors.Valid && selectors.String != "" {
			_ = json.Unmarshal([]byte(selectors.String), &e.Selectors)
		}
		e.Writes = []map[string]any{}
		if writes.Valid && writes.String != "" {
			_ = json.Unmarshal([]byte(writes.String), &e.Writes)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func valueOrEmpty(v any) any {
	if v == nil {
		return map[string]any{}
	}
	return v
}

func sliceOrEmpty(v any) any {
	if v == nil {
		return []any{}
	}
	return v
}
