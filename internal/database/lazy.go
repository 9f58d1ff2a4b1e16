package database

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"tardis-go/internal/config"
	"tardis-go/internal/tardis"
)

// LazyJournal defers opening the configured journal until something is
// written. Reads before that see an empty journal unless one already
// exists on disk, so read-only commands never create the journal file.
type LazyJournal struct {
	cfg     config.JournalConfig
	journal tardis.Journal
}

// NewLazyJournal validates cfg without opening anything.
func NewLazyJournal(cfg config.JournalConfig) (*LazyJournal, error) {
	if err := validateJournalConfig(cfg); err != nil {
		return nil, err
	}
	return &LazyJournal{cfg: cfg}, nil
}

// Opened reports whether the underlying journal has been opened.
func (l *LazyJournal) Opened() bool {
	return l.journal != nil
}

func (l *LazyJournal) open() (tardis.Journal, error) {
	if l.journal == nil {
		j, err := NewJournalFromConfig(l.cfg)
		if err != nil {
			return nil, err
		}
		l.journal = j
	}
	return l.journal, nil
}

// openExisting opens the journal for reading only if it already exists.
func (l *LazyJournal) openExisting() (tardis.Journal, error) {
	if l.journal != nil {
		return l.journal, nil
	}
	if l.cfg.Type != "sqlite" {
		return nil, nil
	}
	_, err := os.Stat(filepath.Join(l.cfg.DataDir, JournalFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l.open()
}

func (l *LazyJournal) BeginOperation(operation, parameters string, startedAt time.Time) (int64, error) {
	j, err := l.open()
	if err != nil {
		return 0, err
	}
	return j.BeginOperation(operation, parameters, startedAt)
}

func (l *LazyJournal) RecordRestore(entry *tardis.JournalEntry) error {
	j, err := l.open()
	if err != nil {
		return err
	}
	return j.RecordRestore(entry)
}

func (l *LazyJournal) FinishOperation(id int64, status string, finishedAt time.Time) error {
	j, err := l.open()
	if err != nil {
		return err
	}
	return j.FinishOperation(id, status, finishedAt)
}

func (l *LazyJournal) ListOperations(limit int) ([]*tardis.JournalOperation, error) {
	j, err := l.openExisting()
	if err != nil || j == nil {
		return nil, err
	}
	return j.ListOperations(limit)
}

func (l *LazyJournal) ListRestores(operationID int64) ([]*tardis.JournalEntry, error) {
	j, err := l.openExisting()
	if err != nil || j == nil {
		return nil, err
	}
	return j.ListRestores(operationID)
}

// Close closes the underlying journal if it was opened.
func (l *LazyJournal) Close() error {
	if l.journal == nil {
		return nil
	}
	return l.journal.Close()
}

var _ tardis.Journal = (*LazyJournal)(nil)
