package app

import "tardis-go/internal/tardis"

// Operation tracks a CLI command that may write to the journal.
// Operations are created in memory with ID=0. Only restoring commands
// persist them (giving them an auto-increment ID from the journal).
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // "success" or "error"
}

// NewOperation creates a new in-memory operation.
func NewOperation(operation, parameters string) *Operation {
	return &Operation{
		Operation:  operation,
		Parameters: parameters,
		Status:     tardis.StatusSuccess,
	}
}

// Persisted returns true if this operation has been saved to the journal.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Fail marks the operation as failed.
func (op *Operation) Fail() {
	op.Status = tardis.StatusError
}
