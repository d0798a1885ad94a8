// Package history keeps a SQLite ledger of validation runs.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/alexanderjulianmartinez/drift-gate/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS validation_runs (
	run_id            TEXT PRIMARY KEY,
	pipeline          TEXT NOT NULL,
	source            TEXT NOT NULL,
	started_at        TEXT NOT NULL,
	finished_at       TEXT NOT NULL,
	row_count         INTEGER NOT NULL,
	validation_status INTEGER NOT NULL,
	schema_ok_train   INTEGER NOT NULL,
	schema_ok_test    INTEGER NOT NULL,
	is_drift          INTEGER NOT NULL,
	bucket            TEXT NOT NULL,
	drifted_columns   TEXT,
	report_path       TEXT
);

CREATE INDEX IF NOT EXISTS idx_validation_runs_started ON validation_runs(started_at);
`

// Store manages the run ledger in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a run. A missing run id is generated.
func (s *Store) Record(ctx context.Context, r types.RunResult) (string, error) {
	if r.RunID == "" {
		r.RunID = uuid.New().String()
	}
	cols, err := json.Marshal(r.DriftedColumns)
	if err != nil {
		return "", fmt.Errorf("marshal drifted columns: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO validation_runs (run_id, pipeline, source, started_at, finished_at, row_count,
			validation_status, schema_ok_train, schema_ok_test, is_drift, bucket, drifted_columns, report_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Pipeline, r.Source,
		r.StartedAt.UTC().Format(time.RFC3339Nano), r.FinishedAt.UTC().Format(time.RFC3339Nano),
		r.Rows, r.ValidationStatus, r.SchemaOKTrain, r.SchemaOKTest, r.IsDrift,
		r.Bucket, string(cols), r.ReportPath,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return r.RunID, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.RunResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, pipeline, source, started_at, finished_at, row_count,
			validation_status, schema_ok_train, schema_ok_test, is_drift, bucket, drifted_columns, report_path
		 FROM validation_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []types.RunResult
	for rows.Next() {
		var (
			r                 types.RunResult
			started, finished string
			cols, report      sql.NullString
		)
		if err := rows.Scan(&r.RunID, &r.Pipeline, &r.Source, &started, &finished, &r.Rows,
			&r.ValidationStatus, &r.SchemaOKTrain, &r.SchemaOKTest, &r.IsDrift,
			&r.Bucket, &cols, &report); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		if cols.Valid && cols.String != "" {
			if err := json.Unmarshal([]byte(cols.String), &r.DriftedColumns); err != nil {
				return nil, fmt.Errorf("unmarshal drifted columns: %w", err)
			}
		}
		r.ReportPath = report.String
		out = append(out, r)
	}
	return out, rows.Err()
}
