package tardis

import "time"

// Operation statuses recorded in the journal.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// JournalOperation is one recorded invocation that changed files on disk.
type JournalOperation struct {
	ID         int64
	Operation  string
	Parameters string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string
}

// JournalEntry records one restored file.
type JournalEntry struct {
	OperationID     int64
	Path            string
	BackupPath      string
	BackupTimestamp time.Time
	RestoredAt      time.Time
	Bytes           int64
}

// Journal is an append-only audit log of restore operations.
// It never holds backup content and is never consulted for discovery.
type Journal interface {
	// BeginOperation records a new operation and returns its ID.
	BeginOperation(operation, parameters string, startedAt time.Time) (int64, error)

	// RecordRestore appends a restored file to an operation.
	RecordRestore(entry *JournalEntry) error

	// FinishOperation marks an operation as done with the given status.
	FinishOperation(id int64, status string, finishedAt time.Time) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]*JournalOperation, error)

	// ListRestores returns the files restored by an operation, in order.
	ListRestores(operationID int64) ([]*JournalEntry, error)

	// Close releases the journal.
	Close() error
}

// NopJournal records nothing. Operation IDs are always 0.
type NopJournal struct{}

func NewNopJournal() *NopJournal { return &NopJournal{} }

func (*NopJournal) BeginOperation(string, string, time.Time) (int64, error) { return 0, nil }
func (*NopJournal) RecordRestore(*JournalEntry) error                       { return nil }
func (*NopJournal) FinishOperation(int64, string, time.Time) error          { return nil }
func (*NopJournal) ListOperations(int) ([]*JournalOperation, error)         { return nil, nil }
func (*NopJournal) ListRestores(int64) ([]*JournalEntry, error)             { return nil, nil }
func (*NopJournal) Close() error                                            { return nil }

var _ Journal = (*NopJournal)(nil)
