// Package journal records copy runs, and the files each run copied, in SQLite.
package journal

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hayeah/goo"
	"github.com/jmoiron/sqlx"

	"github.com/hayeah/collect/internal/set"

	_ "github.com/mattn/go-sqlite3" // Import SQLite driver
)

// Migrations is the journal schema in application order.
var Migrations = []goo.Migration{
	{
		Name: "create_runs_table",
		Up: `
			CREATE TABLE IF NOT EXISTS runs (
				id INTEGER PRIMARY KEY,
				source TEXT NOT NULL,
				destination TEXT NOT NULL,
				extensions TEXT NOT NULL,
				file_count INTEGER NOT NULL DEFAULT 0,
				error TEXT,
				started_at TIMESTAMP NOT NULL,
				finished_at TIMESTAMP
			);
		`,
	},
	{
		Name: "create_copied_files_table",
		Up: `
			CREATE TABLE IF NOT EXISTS copied_files (
				id INTEGER PRIMARY KEY,
				run_id INTEGER NOT NULL,
				path TEXT NOT NULL,
				copied_at TIMESTAMP NOT NULL,
				FOREIGN KEY (run_id) REFERENCES runs (id)
			);
		`,
	},
}

// Store is the journal database.
type Store struct {
	DB     *sqlx.DB
	Logger *slog.Logger
}

// Run is one recorded copy run.
type Run struct {
	ID          int64          `db:"id"`
	Source      string         `db:"source"`
	Destination string         `db:"destination"`
	Extensions  string         `db:"extensions"`
	FileCount   int            `db:"file_count"`
	Error       sql.NullString `db:"error"`
	StartedAt   time.Time      `db:"started_at"`
	FinishedAt  sql.NullTime   `db:"finished_at"`
}

// DSN is the sqlite3 data source for a journal file.
func DSN(path string) string {
	return path + "?_busy_timeout=5000"
}

// New applies pending migrations to db and returns the store over it.
func New(db *sqlx.DB, migrator *goo.DBMigrator, logger *slog.Logger) (*Store, error) {
	if err := migrator.Up(Migrations); err != nil {
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	return &Store{DB: db, Logger: logger}, nil
}

// Open opens (creating if needed) the journal at path and applies pending migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sqlx.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	s, err := New(db, goo.ProvideDBMigrator(db, logger), logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Recorder collects the files of one run inside a transaction.
type Recorder struct {
	store *Store
	tx    *sqlx.Tx
	RunID int64
}

// Begin records the start of a copy run. The extensions are stored sorted, without
// duplicates.
func (s *Store) Begin(source, destination string, extensions []string) (*Recorder, error) {
	result, err := s.DB.Exec(
		"INSERT INTO runs (source, destination, extensions, started_at) VALUES (?, ?, ?, ?)",
		source, destination, strings.Join(set.New(extensions...).Sorted(), ","), time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin run transaction: %w", err)
	}
	return &Recorder{store: s, tx: tx, RunID: id}, nil
}

// Record notes that path is being copied.
func (r *Recorder) Record(path string) error {
	_, err := r.tx.Exec(
		"INSERT INTO copied_files (run_id, path, copied_at) VALUES (?, ?, ?)",
		r.RunID, path, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", path, err)
	}
	return nil
}

// Finish stores the outcome of the run and commits the recorded files.
func (r *Recorder) Finish(fileCount int, runErr error) error {
	var errText sql.NullString
	if runErr != nil {
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}
	_, err := r.tx.Exec(
		"UPDATE runs SET file_count = ?, error = ?, finished_at = ? WHERE id = ?",
		fileCount, errText, time.Now(), r.RunID,
	)
	if err != nil {
		r.tx.Rollback()
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if err := r.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListRuns returns the latest runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	var runs []Run
	err := s.DB.Select(&runs, "SELECT * FROM runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// RunFiles returns the paths recorded for a run in copy order.
func (s *Store) RunFiles(runID int64) ([]string, error) {
	var paths []string
	err := s.DB.Select(&paths, "SELECT path FROM copied_files WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run files: %w", err)
	}
	return paths, nil
}
