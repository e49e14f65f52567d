// Package history provides persistent storage for completed and
// in-flight runs.
//
// Every run is recorded locally so past transformations can be listed,
// inspected, and pruned without re-reading journal files. If the
// process is interrupted the run stays visible with status "running".
//
// Storage is backed by a SQLite database at ~/.config/conform/conform.db
// (or the platform-equivalent path returned by os.UserConfigDir).
package history

import (
	"database/sql"
	"fmt"
	"time"

	"nathanbeddoewebdev/conform/internal/database"
)

// RunStore defines the persistence interface for run records.
type RunStore interface {
	// Save inserts or updates a run record. On insert (ID == 0), an ID
	// is assigned to the record.
	Save(record *RunRecord) error

	// Get retrieves a single run record by ID.
	Get(id int64) (*RunRecord, error)

	// GetByRunID retrieves a run record by its stable run identifier.
	GetByRunID(runID string) (*RunRecord, error)

	// ListRunning returns all records with status "running", ordered by
	// start time (newest first).
	ListRunning() ([]RunRecord, error)

	// ListRecent returns the most recent n records regardless of
	// status, ordered by start time (newest first).
	ListRecent(n int) ([]RunRecord, error)

	// DeleteOlderThan removes finished records older than d. Returns
	// the number of records removed.
	DeleteOlderThan(d time.Duration) (int64, error)

	// Stats aggregates the table by status.
	Stats() (*Stats, error)

	// Close releases database resources.
	Close() error
}

// SQLiteStore implements RunStore backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens the run store at the default path.
func Open() (*SQLiteStore, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
// The parent directory is created if it does not exist.
func OpenAt(path string) (*SQLiteStore, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the runs table if it doesn't exist.
func (s *SQLiteStore) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT    NOT NULL DEFAULT '',
			runbook      TEXT    NOT NULL,
			target       TEXT    NOT NULL,
			toolchain    TEXT    NOT NULL DEFAULT '',
			solution     TEXT    NOT NULL DEFAULT '',
			status       TEXT    NOT NULL DEFAULT 'running',
			steps        INTEGER NOT NULL DEFAULT 0,
			warnings     INTEGER NOT NULL DEFAULT 0,
			failures     INTEGER NOT NULL DEFAULT 0,
			journal_path TEXT    NOT NULL DEFAULT '',
			summary_path TEXT    NOT NULL DEFAULT '',
			duration_ms  INTEGER NOT NULL DEFAULT 0,
			started_at   TEXT    NOT NULL DEFAULT (datetime('now')),
			updated_at   TEXT    NOT NULL DEFAULT (datetime('now'))
		);
		CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
		CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("history: migration failed: %w", err)
	}
	return nil
}

// Save inserts a new record (ID == 0) or updates an existing one.
func (s *SQLiteStore) Save(r *RunRecord) error {
	r.UpdatedAt = time.Now().UTC()

	if r.ID == 0 {
		if r.StartedAt.IsZero() {
			r.StartedAt = r.UpdatedAt
		}
		if r.Status == "" {
			r.Status = StatusRunning
		}
		result, err := s.db.Exec(`
			INSERT INTO runs (run_id, runbook, target, toolchain, solution, status, steps, warnings, failures, journal_path, summary_path, duration_ms, started_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, r.Runbook, r.Target, r.Toolchain, r.Solution, r.Status,
			r.Steps, r.Warnings, r.Failures, r.JournalPath, r.SummaryPath, r.DurationMs,
			r.StartedAt.Format(time.RFC3339Nano), r.UpdatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("history: insert failed: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("history: failed to get last insert ID: %w", err)
		}
		r.ID = id
		return nil
	}

	result, err := s.db.Exec(`
		UPDATE runs SET run_id=?, runbook=?, target=?, toolchain=?, solution=?,
		       status=?, steps=?, warnings=?, failures=?, journal_path=?,
		       summary_path=?, duration_ms=?, updated_at=?
		WHERE id=?`,
		r.RunID, r.Runbook, r.Target, r.Toolchain, r.Solution, r.Status,
		r.Steps, r.Warnings, r.Failures, r.JournalPath, r.SummaryPath, r.DurationMs,
		r.UpdatedAt.Format(time.RFC3339Nano), r.ID,
	)
	if err != nil {
		return fmt.Errorf("history: update failed: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("history: run with ID %d not found", r.ID)
	}
	return nil
}

const selectColumns = `id, run_id, runbook, target, toolchain, solution, status,
       steps, warnings, failures, journal_path, summary_path, duration_ms,
       started_at, updated_at`

// Get retrieves a single run record by ID.
func (s *SQLiteStore) Get(id int64) (*RunRecord, error) {
	row := s.db.QueryRow(`SELECT `+selectColumns+` FROM runs WHERE id = ?`, id)

	r, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	return r, nil
}

// GetByRunID retrieves a run record by its stable run identifier.
func (s *SQLiteStore) GetByRunID(runID string) (*RunRecord, error) {
	row := s.db.QueryRow(`SELECT `+selectColumns+` FROM runs WHERE run_id = ?`, runID)

	r, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	return r, nil
}

// ListRunning returns all run records with status "running".
func (s *SQLiteStore) ListRunning() ([]RunRecord, error) {
	rows, err := s.db.Query(`SELECT ` + selectColumns + `
		FROM runs WHERE status = 'running' ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListRecent returns the most recent n run records regardless of status.
func (s *SQLiteStore) ListRecent(n int) ([]RunRecord, error) {
	rows, err := s.db.Query(`SELECT `+selectColumns+`
		FROM runs ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// DeleteOlderThan removes finished records older than d.
func (s *SQLiteStore) DeleteOlderThan(d time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-d).Format(time.RFC3339Nano)
	result, err := s.db.Exec(`
		DELETE FROM runs WHERE status != 'running' AND updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Stats aggregates the runs table by status.
func (s *SQLiteStore) Stats() (*Stats, error) {
	rows, err := s.db.Query(`
		SELECT status, COUNT(*), SUM(steps), SUM(failures)
		FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()

	stats := &Stats{}
	for rows.Next() {
		var status string
		var count, steps, failures int
		if err := rows.Scan(&status, &count, &steps, &failures); err != nil {
			return nil, fmt.Errorf("history: scan failed: %w", err)
		}
		stats.Total += count
		switch status {
		case StatusSucceeded:
			stats.Succeeded = count
			stats.Steps += steps
			stats.Failures += failures
		case StatusFailed:
			stats.Failed = count
			stats.Steps += steps
			stats.Failures += failures
		case StatusRunning:
			stats.Running = count
		}
	}
	return stats, rows.Err()
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanRow scans a single row into a RunRecord.
func scanRow(row *sql.Row) (*RunRecord, error) {
	var r RunRecord
	var startedStr, updatedStr string
	err := row.Scan(
		&r.ID, &r.RunID, &r.Runbook, &r.Target, &r.Toolchain, &r.Solution,
		&r.Status, &r.Steps, &r.Warnings, &r.Failures,
		&r.JournalPath, &r.SummaryPath, &r.DurationMs,
		&startedStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}
	r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
	r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return &r, nil
}

// scanRows scans multiple rows into RunRecords.
func scanRows(rows *sql.Rows) ([]RunRecord, error) {
	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var startedStr, updatedStr string
		err := rows.Scan(
			&r.ID, &r.RunID, &r.Runbook, &r.Target, &r.Toolchain, &r.Solution,
			&r.Status, &r.Steps, &r.Warnings, &r.Failures,
			&r.JournalPath, &r.SummaryPath, &r.DurationMs,
			&startedStr, &updatedStr,
		)
		if err != nil {
			return nil, fmt.Errorf("history: scan failed: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
		r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
		records = append(records, r)
	}
	return records, rows.Err()
}
