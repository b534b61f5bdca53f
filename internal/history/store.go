// Package history persists tool invocations to a local sqlite database
// so past executions can be inspected after the fact.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/harun/saku/pkg/tool"
)

// Store records tool invocations. It implements tool.Recorder.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the invocation database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug().Str("path", path).Msg("History store opened")
	return s, nil
}

func (s *Store) initSchema() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS invocations (
		id          TEXT PRIMARY KEY,
		tool        TEXT NOT NULL,
		args        TEXT NOT NULL,
		status      TEXT NOT NULL,
		result      TEXT NOT NULL DEFAULT '',
		error       TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL,
		created_at  TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_invocations_created_at ON invocations(created_at);
	CREATE INDEX IF NOT EXISTS idx_invocations_tool ON invocations(tool);`

	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Record persists one invocation.
func (s *Store) Record(inv tool.Invocation) error {
	args, err := json.Marshal(inv.Args)
	if err != nil {
		args = []byte("{}")
	}

	at := inv.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err = s.db.Exec(
		`INSERT INTO invocations (id, tool, args, status, result, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Tool, string(args), inv.Status, inv.Result, inv.Error,
		inv.Duration.Milliseconds(), at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record invocation: %w", err)
	}
	return nil
}

// Recent returns up to limit invocations, newest first.
func (s *Store) Recent(limit int) ([]tool.Invocation, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, tool, args, status, result, error, duration_ms, created_at
		 FROM invocations ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query invocations: %w", err)
	}
	defer rows.Close()

	var out []tool.Invocation
	for rows.Next() {
		var (
			inv        tool.Invocation
			argsJSON   string
			durationMs int64
		)
		if err := rows.Scan(&inv.ID, &inv.Tool, &argsJSON, &inv.Status,
			&inv.Result, &inv.Error, &durationMs, &inv.At); err != nil {
			return nil, fmt.Errorf("failed to scan invocation: %w", err)
		}
		if err := json.Unmarshal([]byte(argsJSON), &inv.Args); err != nil {
			inv.Args = nil
		}
		inv.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, inv)
	}
	return out, rows.Err()
}

// CountByStatus returns invocation counts grouped by status.
func (s *Store) CountByStatus() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM invocations GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
