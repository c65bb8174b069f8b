// Package store persists benchmark reports into a sqlite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3

	"github.com/torosent/reqbench/internal/history"
	"github.com/torosent/reqbench/internal/runner"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id              TEXT NOT NULL UNIQUE,
	language            TEXT NOT NULL,
	variant             TEXT NOT NULL,
	kind                TEXT NOT NULL,
	target              TEXT NOT NULL,
	workers             INTEGER NOT NULL,
	requests_per_worker INTEGER NOT NULL,
	started             TIMESTAMP NOT NULL,
	samples             INTEGER NOT NULL,
	mean_ms             REAL NOT NULL,
	p99_ms              REAL NOT NULL,
	p999_ms             REAL NOT NULL,
	max_ms              REAL NOT NULL,
	min_ms              REAL NOT NULL,
	p50_ms              REAL NOT NULL,
	p90_ms              REAL NOT NULL,
	stddev_ms           REAL NOT NULL,
	loop_mean_ms        REAL NOT NULL,
	elapsed_ms          REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_variant ON runs (variant);
`

// Store is a results database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts one report and returns its row id.
func (s *Store) Save(ctx context.Context, language string, rep runner.Report) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO runs (
		run_id, language, variant, kind, target, workers, requests_per_worker, started,
		samples, mean_ms, p99_ms, p999_ms, max_ms, min_ms, p50_ms, p90_ms, stddev_ms,
		loop_mean_ms, elapsed_ms
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	sum := rep.Summary
	result, err := stmt.ExecContext(ctx,
		rep.RunID, language, rep.Variant, string(rep.Kind), rep.Target, rep.Workers, rep.RequestsPerWorker,
		rep.Started.UTC(), sum.Count, sum.Mean, sum.P99, sum.P999, sum.Max, sum.Min, sum.P50, sum.P90,
		sum.StdDev, sum.LoopMean, sum.Elapsed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run %s: %w", rep.RunID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// Runs lists stored runs oldest first. A non-empty variant filters by name.
func (s *Store) Runs(ctx context.Context, variant string) ([]history.Entry, error) {
	query := `SELECT run_id, language, variant, kind, target, workers, requests_per_worker, started,
		mean_ms, p99_ms, p999_ms, max_ms FROM runs`
	var args []interface{}
	if variant != "" {
		query += ` WHERE variant = ?`
		args = append(args, variant)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var e history.Entry
		var started time.Time
		if err := rows.Scan(&e.RunID, &e.Language, &e.Variant, &e.Kind, &e.Target, &e.Workers,
			&e.RequestsPerWorker, &started, &e.Mean, &e.P99, &e.P999, &e.Max); err != nil {
			return nil, err
		}
		e.Started = started
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
