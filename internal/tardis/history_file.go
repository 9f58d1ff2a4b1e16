package tardis

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// BackupFile is a backup entry resolved to its location on disk.
type BackupFile struct {
	ID        string
	Timestamp time.Time
	Path      string // absolute: history directory + entry id
}

// HistoryFile binds a parsed record to the history directory that holds it.
// It only lives for the duration of one invocation.
type HistoryFile struct {
	Dir    string
	Record *BackupRecord
}

// IsScheme reports whether the record's resource uses the given scheme.
func (h *HistoryFile) IsScheme(scheme string) bool {
	return strings.EqualFold(h.Record.Resource.Scheme, scheme)
}

// CurrentFile returns the filesystem path of the original file.
func (h *HistoryFile) CurrentFile() string {
	return pathFromFileURL(h.Record.Resource)
}

// BackupFiles returns the backups in stored order.
func (h *HistoryFile) BackupFiles() []BackupFile {
	files := make([]BackupFile, len(h.Record.Entries))
	for i, e := range h.Record.Entries {
		files[i] = BackupFile{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			Path:      filepath.Join(h.Dir, e.ID),
		}
	}
	return files
}

// Latest returns the newest backup. The entry with the greatest timestamp
// wins and ties go to the later entry, so for a well ordered record this is
// always the last element of BackupFiles.
func (h *HistoryFile) Latest() (BackupFile, error) {
	files := h.BackupFiles()
	if len(files) == 0 {
		return BackupFile{}, &NotFoundError{What: "backups for " + h.CurrentFile()}
	}
	latest := files[0]
	for _, f := range files[1:] {
		if !f.Timestamp.Before(latest.Timestamp) {
			latest = f
		}
	}
	return latest, nil
}

// Entry returns the backup with the given id.
func (h *HistoryFile) Entry(id string) (BackupFile, error) {
	for _, f := range h.BackupFiles() {
		if f.ID == id {
			return f, nil
		}
	}
	return BackupFile{}, &NotFoundError{What: "backup " + id + " for " + h.CurrentFile()}
}

// IsOrdered reports whether entry timestamps never decrease.
func (h *HistoryFile) IsOrdered() bool {
	for i := 1; i < len(h.Record.Entries); i++ {
		if h.Record.Entries[i].Timestamp.Before(h.Record.Entries[i-1].Timestamp) {
			return false
		}
	}
	return true
}

// pathFromFileURL turns the path of a file URL into an OS path.
// On Windows, file:///C:/x becomes C:\x.
func pathFromFileURL(u *url.URL) string {
	p := u.Path
	if p == "" {
		return ""
	}
	if filepath.Separator == '\\' {
		if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
			p = p[1:]
		} else if u.Host != "" {
			p = "//" + u.Host + p
		}
	}
	return filepath.Clean(filepath.FromSlash(p))
}
