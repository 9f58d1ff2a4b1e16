package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tardis-go/internal/tardis"
)

// Backup describes one snapshot to write into a HistoryStore.
type Backup struct {
	ID        string
	Timestamp int64 // epoch milliseconds
	Content   string
}

// HistoryStore builds an editor local history tree on disk for tests.
type HistoryStore struct {
	t    *testing.T
	Root string
	n    int
}

// NewHistoryStore creates an empty history root inside a temp directory.
func NewHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	root := filepath.Join(t.TempDir(), "History")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("creating history root: %v", err)
	}
	return &HistoryStore{t: t, Root: root}
}

// AddRecord writes a history directory with a metadata file for resource
// and one file per backup. It returns the history directory.
func (s *HistoryStore) AddRecord(resource string, backups ...Backup) string {
	s.t.Helper()

	type entry struct {
		ID        string `json:"id"`
		Source    string `json:"source,omitempty"`
		Timestamp int64  `json:"timestamp"`
	}
	record := struct {
		Version  int     `json:"version"`
		Resource string  `json:"resource"`
		Entries  []entry `json:"entries"`
	}{Version: tardis.RecordVersion, Resource: resource, Entries: []entry{}}

	s.n++
	dir := filepath.Join(s.Root, fmt.Sprintf("-%x", 0x1000+s.n))
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.t.Fatalf("creating history dir: %v", err)
	}

	for _, b := range backups {
		record.Entries = append(record.Entries, entry{ID: b.ID, Source: "undoRedo.source", Timestamp: b.Timestamp})
		if err := os.WriteFile(filepath.Join(dir, b.ID), []byte(b.Content), 0644); err != nil {
			s.t.Fatalf("writing backup %s: %v", b.ID, err)
		}
	}

	data, err := json.Marshal(record)
	if err != nil {
		s.t.Fatalf("encoding record: %v", err)
	}
	s.WriteMetadata(dir, string(data))
	return dir
}

// AddRawRecord writes raw metadata text into a new history directory.
func (s *HistoryStore) AddRawRecord(content string) string {
	s.t.Helper()
	s.n++
	dir := filepath.Join(s.Root, fmt.Sprintf("-%x", 0x1000+s.n))
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.t.Fatalf("creating history dir: %v", err)
	}
	s.WriteMetadata(dir, content)
	return dir
}

// WriteMetadata writes content as the metadata file of dir.
func (s *HistoryStore) WriteMetadata(dir, content string) {
	s.t.Helper()
	if err := os.WriteFile(filepath.Join(dir, tardis.MetadataFileName), []byte(content), 0644); err != nil {
		s.t.Fatalf("writing metadata: %v", err)
	}
}

// FileURL returns the file URL of an absolute path.
func FileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// NewWorkDir creates a canonical working directory.
func NewWorkDir(t *testing.T) *tardis.Path {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolving temp dir: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat temp dir: %v", err)
	}
	return tardis.NewPath(dir, true, info)
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// ReadFile returns the content of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
