// Package history keeps past assertion reports in a SQLite database so runs
// can be listed and rendered again later.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/clueassert/packages/report"
	"github.com/abdul-hamid-achik/clueassert/packages/suite"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a run ID is not in the store.
var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	total      INTEGER NOT NULL,
	passed     INTEGER NOT NULL,
	failed     INTEGER NOT NULL,
	errored    INTEGER NOT NULL,
	document   BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at);
`

// Run is the summary row of a stored report.
type Run struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Summary   suite.Summary
}

// Store is a history database
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the store at location, either a file
// path or a "sqlite://" / "sqlite:" connection string.
func Open(ctx context.Context, location string) (*Store, error) {
	dsn, err := parseLocation(location)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores doc, replacing any earlier run with the same ID.
func (s *Store) Save(ctx context.Context, doc *report.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	sum := doc.Summary()

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, name, created_at, total, passed, failed, errored, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.CreatedAt.UTC().Format(time.RFC3339Nano),
		sum.Total, sum.Passed, sum.Failed, sum.Errored, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Runs lists the most recent runs first. A limit <= 0 returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, name, created_at, total, passed, failed, errored FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			r       Run
			created string
		)
		if err := rows.Scan(&r.ID, &r.Name, &created, &r.Summary.Total, &r.Summary.Passed, &r.Summary.Failed, &r.Summary.Errored); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp for run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// Run loads the full report of a stored run.
func (s *Store) Run(ctx context.Context, id string) (*report.Document, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM runs WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	var doc report.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", id, err)
	}
	return &doc, nil
}

// parseLocation accepts:
// - sqlite://path/to/history.db
// - sqlite:./history.db
// - path/to/history.db
func parseLocation(location string) (string, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return "", fmt.Errorf("empty history location")
	case strings.HasPrefix(location, "sqlite://"):
		return strings.TrimPrefix(location, "sqlite://"), nil
	case strings.HasPrefix(location, "sqlite:"):
		return strings.TrimPrefix(location, "sqlite:"), nil
	case strings.Contains(location, "://"):
		return "", fmt.Errorf("unsupported history scheme: %s", location)
	}
	return location, nil
}
