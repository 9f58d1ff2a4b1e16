package tardis

import "fmt"

// OperationHistory is a journaled operation with the files it restored.
type OperationHistory struct {
	Operation *JournalOperation
	Restores  []*JournalEntry
}

// GetHistory returns the most recent restore operations, newest first.
func (s *TardisService) GetHistory(limit int) ([]*OperationHistory, error) {
	ops, err := s.journal.ListOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}

	history := make([]*OperationHistory, 0, len(ops))
	for _, op := range ops {
		restores, err := s.journal.ListRestores(op.ID)
		if err != nil {
			return nil, fmt.Errorf("listing restores for operation %d: %w", op.ID, err)
		}
		history = append(history, &OperationHistory{Operation: op, Restores: restores})
	}
	return history, nil
}
