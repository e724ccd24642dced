// Package store keeps a history of grading runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // driver: sqlite
)

// DefaultDSN is used when Open is given an empty DSN.
const DefaultDSN = "file:grader-history.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"

// ErrRunNotFound is returned by Results for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run describes one batch.
type Run struct {
	ID           string
	AssignmentID string
	StartedAt    time.Time
	FinishedAt   time.Time
	// Graded is the number of stored results; set by SaveRun and ListRuns.
	Graded int
	// Cancelled marks a batch that stopped before every submission was graded.
	Cancelled bool
}

// Store is a SQLite grading history.
type Store struct {
	db *sql.DB
}

// Open opens the database and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaSQLite)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  assignment_id TEXT NOT NULL,
  started_at INTEGER NOT NULL,
  finished_at INTEGER NOT NULL,
  graded INTEGER NOT NULL DEFAULT 0,
  cancelled INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS results (
  id TEXT PRIMARY KEY,
  run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  identifier TEXT NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL,
  points_earned REAL NOT NULL,
  points_possible REAL NOT NULL,
  feedback_json TEXT NOT NULL,
  checks_json TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS results_run ON results(run_id, position);
`

// SaveRun stores a run and its results in one transaction. A run without an
// ID gets a fresh one. The stored run is returned.
func (s *Store) SaveRun(ctx context.Context, run Run, results []models.ScoreResult) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}
	run.Graded = len(results)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return run, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, assignment_id, started_at, finished_at, graded, cancelled) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.AssignmentID, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(), run.Graded, run.Cancelled,
	); err != nil {
		return run, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results
  (id, run_id, position, identifier, source, state, points_earned, points_possible, feedback_json, checks_json)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return run, err
	}
	defer stmt.Close()

	for i, res := range results {
		feedback, err := json.Marshal(nonNil(res.Feedback))
		if err != nil {
			return run, err
		}
		checks, err := json.Marshal(res.Checks)
		if err != nil {
			return run, err
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), run.ID, i, res.Identifier, res.Source, string(res.State),
			res.PointsEarned, res.PointsPossible, string(feedback), string(checks),
		); err != nil {
			return run, fmt.Errorf("insert result %s: %w", res.Identifier, err)
		}
	}
	return run, tx.Commit()
}

// ListRuns returns the most recent runs first. A limit below 1 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, assignment_id, started_at, finished_at, graded, cancelled
FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run             Run
			started, finish int64
		)
		if err := rows.Scan(&run.ID, &run.AssignmentID, &started, &finish, &run.Graded, &run.Cancelled); err != nil {
			return nil, err
		}
		run.StartedAt = time.UnixMilli(started)
		run.FinishedAt = time.UnixMilli(finish)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Results returns the results of a run in their original order.
func (s *Store) Results(ctx context.Context, runID string) ([]models.ScoreResult, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, source, state, points_earned, points_possible, feedback_json, checks_json
FROM results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.ScoreResult{}
	for rows.Next() {
		var (
			res              models.ScoreResult
			state            string
			feedback, checks string
		)
		if err := rows.Scan(&res.Identifier, &res.Source, &state, &res.PointsEarned, &res.PointsPossible, &feedback, &checks); err != nil {
			return nil, err
		}
		res.State = models.State(state)
		if err := json.Unmarshal([]byte(feedback), &res.Feedback); err != nil {
			return nil, fmt.Errorf("decode feedback of %s: %w", res.Identifier, err)
		}
		if err := json.Unmarshal([]byte(checks), &res.Checks); err != nil {
			return nil, fmt.Errorf("decode checks of %s: %w", res.Identifier, err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}
