package tardis

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// MetadataFileName is the per-file descriptor the editor writes into
	// each history directory.
	MetadataFileName = "entries.json"

	// RecordVersion is the only metadata format version understood.
	RecordVersion = 1

	// FileScheme is the resource scheme of plain local files.
	FileScheme = "file"
)

// BackupEntry is one stored snapshot of the original file.
type BackupEntry struct {
	ID        string    // file name of the snapshot inside the history directory
	Timestamp time.Time // capture time, UTC, millisecond precision
}

// BackupRecord is the decoded content of one metadata file.
// Entries are kept in stored order, oldest first.
type BackupRecord struct {
	Version  int
	Resource *url.URL
	Entries  []BackupEntry
}

// recordJSON mirrors the on-disk layout. Pointer fields let the decoder
// tell a missing field apart from a zero value.
type recordJSON struct {
	Version  *int         `json:"version"`
	Resource *string      `json:"resource"`
	Entries  *[]entryJSON `json:"entries"`
}

type entryJSON struct {
	ID        *string `json:"id"`
	Timestamp *int64  `json:"timestamp"`
}

// ParseRecord decodes a metadata file. Unknown fields are ignored, but every
// required field must be present and well formed; otherwise a *ParseError is
// returned.
func ParseRecord(data []byte) (*BackupRecord, error) {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("decoding json: %w", err)}
	}

	if raw.Version == nil {
		return nil, &ParseError{Err: errors.New("missing field \"version\"")}
	}
	if *raw.Version != RecordVersion {
		return nil, &ParseError{Err: fmt.Errorf("unsupported version %d (want %d)", *raw.Version, RecordVersion)}
	}

	if raw.Resource == nil {
		return nil, &ParseError{Err: errors.New("missing field \"resource\"")}
	}
	resource, err := url.Parse(*raw.Resource)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("invalid resource: %w", err)}
	}
	if resource.Scheme == "" {
		return nil, &ParseError{Err: fmt.Errorf("resource %q has no scheme", *raw.Resource)}
	}

	if raw.Entries == nil {
		return nil, &ParseError{Err: errors.New("missing field \"entries\"")}
	}
	entries := make([]BackupEntry, 0, len(*raw.Entries))
	for i, e := range *raw.Entries {
		if e.ID == nil || *e.ID == "" {
			return nil, &ParseError{Err: fmt.Errorf("entry %d: missing id", i)}
		}
		if !isPlainFileName(*e.ID) {
			return nil, &ParseError{Err: fmt.Errorf("entry %d: id %q is not a file name", i, *e.ID)}
		}
		if e.Timestamp == nil {
			return nil, &ParseError{Err: fmt.Errorf("entry %d: missing timestamp", i)}
		}
		entries = append(entries, BackupEntry{
			ID:        *e.ID,
			Timestamp: time.UnixMilli(*e.Timestamp).UTC(),
		})
	}

	return &BackupRecord{
		Version:  *raw.Version,
		Resource: resource,
		Entries:  entries,
	}, nil
}

// isPlainFileName rejects ids that would escape the history directory.
func isPlainFileName(id string) bool {
	if id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}
