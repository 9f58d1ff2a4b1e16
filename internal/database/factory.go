package database

import (
	"fmt"
	"path/filepath"

	"tardis-go/internal/config"
	"tardis-go/internal/tardis"
)

// JournalFileName is the journal database inside the configured data dir.
const JournalFileName = "journal.db"

// NewJournalFromConfig creates a Journal implementation based on the journal config type.
func NewJournalFromConfig(cfg config.JournalConfig) (tardis.Journal, error) {
	if err := validateJournalConfig(cfg); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case "sqlite":
		return NewSQLiteJournal(filepath.Join(cfg.DataDir, JournalFileName))
	case "memory":
		return NewSQLiteJournal(":memory:")
	default:
		return tardis.NewNopJournal(), nil
	}
}

func validateJournalConfig(cfg config.JournalConfig) error {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return fmt.Errorf("data_dir required for sqlite journal")
		}
	case "memory", "none", "":
	default:
		return fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
	return nil
}
