package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tardis-go/internal/database/migrations"
	"tardis-go/internal/tardis"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements the tardis.Journal interface using SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

// NewSQLiteJournal opens the journal at path and migrates it to the latest
// schema. path can be a file path or ":memory:".
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}

	return &SQLiteJournal{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database, and the
	// journal is only ever used by one goroutine.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Operation tracking

func (s *SQLiteJournal) BeginOperation(operation, parameters string, startedAt time.Time) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO restore_operations (operation, parameters, started_at, status) VALUES (?, ?, ?, ?)",
		operation, parameters, startedAt.UTC(), tardis.StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("creating operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading operation id: %w", err)
	}
	return id, nil
}

func (s *SQLiteJournal) FinishOperation(id int64, status string, finishedAt time.Time) error {
	res, err := s.db.Exec(
		"UPDATE restore_operations SET finished_at = ?, status = ? WHERE id = ?",
		finishedAt.UTC(), status, id,
	)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	if n == 0 {
		return &tardis.NotFoundError{What: fmt.Sprintf("operation %d", id)}
	}
	return nil
}

func (s *SQLiteJournal) ListOperations(limit int) ([]*tardis.JournalOperation, error) {
	rows, err := s.db.Query(
		"SELECT id, operation, parameters, started_at, finished_at, status FROM restore_operations ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*tardis.JournalOperation
	for rows.Next() {
		var op tardis.JournalOperation
		var finished sql.NullTime
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.StartedAt, &finished, &op.Status); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			op.FinishedAt = &t
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// Restored files

func (s *SQLiteJournal) RecordRestore(entry *tardis.JournalEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO restored_files (operation_id, path, backup_path, backup_timestamp, restored_at, bytes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.OperationID, entry.Path, entry.BackupPath, entry.BackupTimestamp.UTC(), entry.RestoredAt.UTC(), entry.Bytes,
	)
	if err != nil {
		return fmt.Errorf("recording restored file: %w", err)
	}
	return nil
}

func (s *SQLiteJournal) ListRestores(operationID int64) ([]*tardis.JournalEntry, error) {
	rows, err := s.db.Query(
		`SELECT operation_id, path, backup_path, backup_timestamp, restored_at, bytes
		 FROM restored_files WHERE operation_id = ? ORDER BY id`,
		operationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing restored files: %w", err)
	}
	defer rows.Close()

	var entries []*tardis.JournalEntry
	for rows.Next() {
		var e tardis.JournalEntry
		if err := rows.Scan(&e.OperationID, &e.Path, &e.BackupPath, &e.BackupTimestamp, &e.RestoredAt, &e.Bytes); err != nil {
			return nil, fmt.Errorf("scanning restored file: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing restored files: %w", err)
	}
	return entries, nil
}

// Path returns the journal file path (or ":memory:" for in-memory journals).
func (s *SQLiteJournal) Path() string {
	return s.path
}

// CheckMigrations verifies the journal schema is up-to-date.
func (s *SQLiteJournal) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteJournal) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteJournal implements tardis.Journal interface
var _ tardis.Journal = (*SQLiteJournal)(nil)
