package database

import (
	"os"
	"path/filepath"
	"testing"

	"tardis-go/internal/config"
	"tardis-go/internal/tardis"
)

func TestNewJournalFromConfig(t *testing.T) {
	t.Run("memory journal", func(t *testing.T) {
		got, err := NewJournalFromConfig(config.JournalConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewJournalFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		if _, ok := got.(*SQLiteJournal); !ok {
			t.Errorf("got %T, want *SQLiteJournal", got)
		}
	})

	t.Run("sqlite journal", func(t *testing.T) {
		dir := t.TempDir()
		got, err := NewJournalFromConfig(config.JournalConfig{Type: "sqlite", DataDir: dir})
		if err != nil {
			t.Fatalf("NewJournalFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		if _, err := os.Stat(filepath.Join(dir, JournalFileName)); err != nil {
			t.Errorf("journal file not created: %v", err)
		}
	})

	t.Run("sqlite journal without data_dir", func(t *testing.T) {
		if _, err := NewJournalFromConfig(config.JournalConfig{Type: "sqlite"}); err == nil {
			t.Error("NewJournalFromConfig() expected error for missing data_dir")
		}
	})

	t.Run("none and empty type disable the journal", func(t *testing.T) {
		for _, typ := range []string{"none", ""} {
			got, err := NewJournalFromConfig(config.JournalConfig{Type: typ})
			if err != nil {
				t.Fatalf("NewJournalFromConfig(%q) unexpected error: %v", typ, err)
			}
			if _, ok := got.(*tardis.NopJournal); !ok {
				t.Errorf("NewJournalFromConfig(%q) = %T, want *tardis.NopJournal", typ, got)
			}
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := NewJournalFromConfig(config.JournalConfig{Type: "postgres"}); err == nil {
			t.Error("NewJournalFromConfig() expected error for unknown type")
		}
	})
}
