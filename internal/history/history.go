// Package history persists a ledger of completed fetches in a SQLite
// database file. Recording is best-effort: the hosting pipeline's result
// never depends on it.
package history

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	apperrors "ghfetch/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS fetches (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	repo        TEXT NOT NULL,
	tag         TEXT NOT NULL,
	asset       TEXT NOT NULL,
	local_path  TEXT NOT NULL,
	size        INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	fetched_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fetches_fetched_at ON fetches(fetched_at);
`

// Record is one ledger row.
type Record struct {
	Repo      string
	Tag       string
	Asset     string
	LocalPath string
	Size      int64
	Skipped   bool
	FetchedAt time.Time
}

// Store persists fetch records using a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.DatabaseError(apperrors.CodeDatabaseGeneric, "failed to open history database", err).
			WithModule("history").
			WithOperation("Open").
			WithField("path", path)
	}

	return &Store{db: db}, nil
}

// Bootstrap creates the schema when absent.
func (s *Store) Bootstrap(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return apperrors.DatabaseError(apperrors.CodeDatabaseGeneric, "failed to create history schema", err).
			WithModule("history").
			WithOperation("Bootstrap")
	}
	return nil
}

// Record appends one fetch to the ledger.
func (s *Store) Record(ctx context.Context, rec Record) error {
	fetchedAt := rec.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fetches (repo, tag, asset, local_path, size, skipped, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Repo, rec.Tag, rec.Asset, rec.LocalPath, rec.Size, boolToInt(rec.Skipped),
		fetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return apperrors.DatabaseError(apperrors.CodeDatabaseGeneric, "failed to record fetch", err).
			WithModule("history").
			WithOperation("Record").
			WithField("asset", rec.Asset)
	}
	return nil
}

// Recent returns the most recent fetches, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT repo, tag, asset, local_path, size, skipped, fetched_at
		 FROM fetches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.DatabaseError(apperrors.CodeDatabaseGeneric, "failed to query history", err).
			WithModule("history").
			WithOperation("Recent")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec       Record
			skipped   int
			fetchedAt string
		)
		if err := rows.Scan(&rec.Repo, &rec.Tag, &rec.Asset, &rec.LocalPath, &rec.Size, &skipped, &fetchedAt); err != nil {
			return nil, apperrors.DatabaseError(apperrors.CodeDatabaseGeneric, "failed to scan history row", err).
				WithModule("history").
				WithOperation("Recent")
		}
		rec.Skipped = skipped != 0
		if parsed, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
			rec.FetchedAt = parsed
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.DatabaseError(apperrors.CodeDatabaseGeneric, "failed to iterate history rows", err).
			WithModule("history").
			WithOperation("Recent")
	}

	return records, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
