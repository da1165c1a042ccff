//go:build !(js && wasm)

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bee-mcc/ispy/pkg/leaderboard"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLite keeps the best-scores list in a local database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database and applies migrations.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			time_ms INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_time ON scores(time_ms, seq);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load returns the stored entries fastest first, ties in insertion order.
func (s *SQLite) Load(ctx context.Context) ([]leaderboard.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, time_ms, accuracy, created_at FROM scores ORDER BY time_ms, seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		var (
			e       leaderboard.Entry
			created string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.TimeMs, &e.Accuracy, &created); err != nil {
			return nil, err
		}
		if e.Date, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("score %s: bad date %q: %w", e.ID, created, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Save replaces the stored list with entries, in order.
func (s *SQLite) Save(ctx context.Context, entries []leaderboard.Entry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM scores`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scores (id, name, time_ms, accuracy, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err = stmt.ExecContext(ctx, e.ID, e.Name, e.TimeMs, e.Accuracy, e.Date.UTC().Format(time.RFC3339Nano)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
