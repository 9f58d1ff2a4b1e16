package tardis

import (
	"fmt"
	"io"
)

// TimestampFormat renders backup times as RFC 3339 in UTC with milliseconds.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// ListEntry is one original file with its backups.
type ListEntry struct {
	RelativePath string
	File         *HistoryFile
	Backups      []BackupFile
}

// Count returns the number of backups.
func (e *ListEntry) Count() int {
	return len(e.Backups)
}

// List returns every file under workDir that has local history.
func (s *TardisService) List(workDir *Path) ([]*ListEntry, error) {
	files, err := s.Discover(workDir)
	if err != nil {
		return nil, err
	}

	entries := make([]*ListEntry, 0, len(files))
	for _, hf := range files {
		rel, err := RelativePath(workDir.String(), hf.CurrentFile())
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", hf.Dir, err)
		}
		entries = append(entries, &ListEntry{
			RelativePath: rel,
			File:         hf,
			Backups:      hf.BackupFiles(),
		})
	}
	return entries, nil
}

// WriteListing prints entries one per line, or one line per backup when
// verbose is set.
func WriteListing(w io.Writer, entries []*ListEntry, verbose bool) error {
	for _, e := range entries {
		if !verbose {
			if _, err := fmt.Fprintf(w, "%s (%d backups)\n", e.RelativePath, e.Count()); err != nil {
				return err
			}
			continue
		}
		for _, b := range e.Backups {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", e.RelativePath, b.Timestamp.UTC().Format(TimestampFormat), b.Path); err != nil {
				return err
			}
		}
	}
	return nil
}
