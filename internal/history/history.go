// Package history persists run summaries to a local SQLite file so
// operators can see how maintenance durations and failures develop over
// time without digging through log directories.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/SDFIdk/SDE-CRA/internal/models"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path required")
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			cmd TEXT NOT NULL,
			overall_status TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			steps_succeeded INTEGER NOT NULL,
			steps_failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS steps (
			run_id TEXT NOT NULL REFERENCES runs(run_id),
			step_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			conn_role TEXT NOT NULL,
			conn_tag TEXT NOT NULL,
			success INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL,
			PRIMARY KEY (run_id, step_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init history schema: %w", err)
		}
	}
	return nil
}

// RecordRun stores a run summary and its steps in one transaction.
func (s *Store) RecordRun(ctx context.Context, summary models.RunSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, cmd, overall_status, duration_ms, steps_succeeded, steps_failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.RunId.String(), summary.RunStartTime, summary.Cmd, summary.OverallStatus,
		summary.TotalDurationMs, summary.StepsSucceeded, summary.StepsFailed)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", summary.RunId, err)
	}

	for i, step := range summary.Steps {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO steps (run_id, step_id, position, kind, conn_role, conn_tag, success, error, duration_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			summary.RunId.String(), step.StepId, i, step.Kind, step.ConnRole, step.ConnTag,
			boolToInt(step.Success), step.Error, step.DurationMs)
		if err != nil {
			return fmt.Errorf("insert step %s of run %s: %w", step.StepId, summary.RunId, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history transaction: %w", err)
	}
	return nil
}

// RunRow is one line of `sdecra history`.
type RunRow struct {
	RunId          string
	StartedAt      string
	Cmd            string
	OverallStatus  string
	DurationMs     int64
	StepsSucceeded int
	StepsFailed    int
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, cmd, overall_status, duration_ms, steps_succeeded, steps_failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.RunId, &r.StartedAt, &r.Cmd, &r.OverallStatus, &r.DurationMs, &r.StepsSucceeded, &r.StepsFailed); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return out, nil
}

// StepRow is one persisted sub-step of a recorded run.
type StepRow struct {
	StepId     string
	Kind       string
	ConnRole   string
	ConnTag    string
	Success    bool
	Error      string
	DurationMs int64
}

// Steps returns the sub-steps of a recorded run in execution order.
func (s *Store) Steps(ctx context.Context, runId string) ([]StepRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT step_id, kind, conn_role, conn_tag, success, error, duration_ms
		 FROM steps WHERE run_id = ? ORDER BY position`, runId)
	if err != nil {
		return nil, fmt.Errorf("list steps for run %s: %w", runId, err)
	}
	defer rows.Close()

	var out []StepRow
	for rows.Next() {
		var r StepRow
		var success int
		if err := rows.Scan(&r.StepId, &r.Kind, &r.ConnRole, &r.ConnTag, &success, &r.Error, &r.DurationMs); err != nil {
			return nil, fmt.Errorf("scan step row: %w", err)
		}
		r.Success = success != 0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate step rows: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
