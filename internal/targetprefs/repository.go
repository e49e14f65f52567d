// Package targetprefs provides persistent storage for per-target user preferences.
//
// Preferences such as the runbook and toolchain last used against a target
// tree are stored keyed by the target's absolute path, so that repeat runs
// against the same tree do not need the flags spelled out again.
//
// Storage is backed by the shared conform SQLite database (separate table).
package targetprefs

import (
	"database/sql"
	"fmt"
	"time"

	"nathanbeddoewebdev/conform/internal/database"
)

// Repository defines the persistence interface for target preferences.
type Repository interface {
	// Get returns preferences for a target path, or nil if not found.
	Get(target string) (*TargetPrefs, error)

	// Save upserts preferences for a target.
	Save(prefs *TargetPrefs) error

	// Close releases database resources.
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("targetprefs: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
// The parent directory is created if it does not exist.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("targetprefs: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

// migrate creates the target_prefs table if it doesn't exist.
func (r *SQLiteRepository) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS target_prefs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			target     TEXT NOT NULL,
			runbook    TEXT NOT NULL DEFAULT '',
			toolchain  TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT (datetime('now')),
			UNIQUE(target)
		);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("targetprefs: migration failed: %w", err)
	}
	return nil
}

// Get returns preferences for a target path, or nil if not found.
func (r *SQLiteRepository) Get(target string) (*TargetPrefs, error) {
	row := r.db.QueryRow(`
		SELECT id, target, runbook, toolchain, updated_at
		FROM target_prefs WHERE target = ?`,
		target)

	var prefs TargetPrefs
	var updatedStr string
	err := row.Scan(&prefs.ID, &prefs.Target, &prefs.Runbook, &prefs.Toolchain, &updatedStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("targetprefs: query failed: %w", err)
	}
	prefs.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return &prefs, nil
}

// Save upserts preferences for a target.
func (r *SQLiteRepository) Save(prefs *TargetPrefs) error {
	prefs.UpdatedAt = time.Now().UTC()

	result, err := r.db.Exec(`
		INSERT INTO target_prefs (target, runbook, toolchain, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(target) DO UPDATE SET
			runbook = excluded.runbook,
			toolchain = excluded.toolchain,
			updated_at = excluded.updated_at`,
		prefs.Target, prefs.Runbook, prefs.Toolchain, prefs.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("targetprefs: upsert failed: %w", err)
	}

	if prefs.ID == 0 {
		id, err := result.LastInsertId()
		if err == nil {
			prefs.ID = id
		}
	}
	return nil
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
