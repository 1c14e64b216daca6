// Package sqlite persists lint run history using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/changelint/changelint/internal/domain"
	"github.com/changelint/changelint/internal/usecase/lint"
)

// Store implements the lint.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for an in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
	-- Metadata about each lint run
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		base_ref TEXT NOT NULL,
		target_ref TEXT NOT NULL,
		repository TEXT,
		files INTEGER NOT NULL DEFAULT 0,
		retained INTEGER NOT NULL DEFAULT 0
	);

	-- Findings retained by attribution for each run
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		file TEXT NOT NULL,
		severity TEXT NOT NULL,
		hint TEXT NOT NULL,
		line_start INTEGER NOT NULL,
		line_end INTEGER NOT NULL,
		found TEXT,
		suggested TEXT,
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
	CREATE INDEX IF NOT EXISTS idx_findings_fingerprint ON findings(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateRun stores a new lint run.
func (s *Store) CreateRun(ctx context.Context, run lint.StoreRun) error {
	query := `
		INSERT INTO runs (run_id, timestamp, base_ref, target_ref, repository, files, retained)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.RunID,
		run.Timestamp.Unix(),
		run.BaseRef,
		run.TargetRef,
		run.Repository,
		run.Files,
		run.Retained,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// SaveFindings stores the retained findings for a run.
func (s *Store) SaveFindings(ctx context.Context, runID string, findings []domain.Finding) error {
	if len(findings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO findings (run_id, fingerprint, file, severity, hint, line_start, line_end, found, suggested)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, f := range findings {
		if _, err := tx.ExecContext(ctx, query,
			runID,
			f.Fingerprint(),
			f.File,
			string(f.Severity),
			f.Hint,
			f.StartLine,
			f.EndLine,
			f.From,
			f.To,
		); err != nil {
			return fmt.Errorf("failed to save finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit findings: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (lint.StoreRun, error) {
	query := `
		SELECT run_id, timestamp, base_ref, target_ref, repository, files, retained
		FROM runs
		WHERE run_id = ?
	`
	var run lint.StoreRun
	var timestamp int64
	err := s.db.QueryRowContext(ctx, query, runID).Scan(
		&run.RunID,
		&timestamp,
		&run.BaseRef,
		&run.TargetRef,
		&run.Repository,
		&run.Files,
		&run.Retained,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return lint.StoreRun{}, fmt.Errorf("run not found: %s", runID)
		}
		return lint.StoreRun{}, fmt.Errorf("failed to get run: %w", err)
	}
	run.Timestamp = time.Unix(timestamp, 0)
	return run, nil
}

// ListRuns retrieves the most recent runs, limited by the given count.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]lint.StoreRun, error) {
	query := `
		SELECT run_id, timestamp, base_ref, target_ref, repository, files, retained
		FROM runs
		ORDER BY timestamp DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []lint.StoreRun
	for rows.Next() {
		var run lint.StoreRun
		var timestamp int64
		if err := rows.Scan(
			&run.RunID,
			&timestamp,
			&run.BaseRef,
			&run.TargetRef,
			&run.Repository,
			&run.Files,
			&run.Retained,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Timestamp = time.Unix(timestamp, 0)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
