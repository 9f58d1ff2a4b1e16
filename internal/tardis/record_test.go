package tardis

import (
	"errors"
	"testing"
	"time"
)

func TestParseRecord(t *testing.T) {
	t.Run("decodes a full record", func(t *testing.T) {
		data := `{
			"version": 1,
			"resource": "file:///home/user/project/main.go",
			"entries": [
				{"id": "a1B2.go", "source": "undoRedo.source", "timestamp": 1000},
				{"id": "c3D4.go", "timestamp": 2000}
			]
		}`

		rec, err := ParseRecord([]byte(data))
		if err != nil {
			t.Fatalf("ParseRecord() error = %v", err)
		}
		if rec.Version != 1 {
			t.Errorf("Version = %d, want 1", rec.Version)
		}
		if rec.Resource.Scheme != "file" {
			t.Errorf("Resource.Scheme = %q, want file", rec.Resource.Scheme)
		}
		if rec.Resource.Path != "/home/user/project/main.go" {
			t.Errorf("Resource.Path = %q", rec.Resource.Path)
		}
		if len(rec.Entries) != 2 {
			t.Fatalf("len(Entries) = %d, want 2", len(rec.Entries))
		}
		if rec.Entries[0].ID != "a1B2.go" || rec.Entries[1].ID != "c3D4.go" {
			t.Errorf("entry ids = %q, %q", rec.Entries[0].ID, rec.Entries[1].ID)
		}
		want := time.Date(1970, 1, 1, 0, 0, 1, 0, time.UTC)
		if !rec.Entries[0].Timestamp.Equal(want) {
			t.Errorf("Entries[0].Timestamp = %v, want %v", rec.Entries[0].Timestamp, want)
		}
		if rec.Entries[0].Timestamp.Location() != time.UTC {
			t.Errorf("timestamp location = %v, want UTC", rec.Entries[0].Timestamp.Location())
		}
	})

	t.Run("keeps millisecond precision", func(t *testing.T) {
		rec, err := ParseRecord([]byte(`{"version":1,"resource":"file:///a","entries":[{"id":"x","timestamp":1700000000123}]}`))
		if err != nil {
			t.Fatalf("ParseRecord() error = %v", err)
		}
		if got := rec.Entries[0].Timestamp.UnixMilli(); got != 1700000000123 {
			t.Errorf("UnixMilli() = %d, want 1700000000123", got)
		}
	})

	t.Run("decodes percent-encoded paths", func(t *testing.T) {
		rec, err := ParseRecord([]byte(`{"version":1,"resource":"file:///home/u/my%20notes.md","entries":[]}`))
		if err != nil {
			t.Fatalf("ParseRecord() error = %v", err)
		}
		if rec.Resource.Path != "/home/u/my notes.md" {
			t.Errorf("Resource.Path = %q, want %q", rec.Resource.Path, "/home/u/my notes.md")
		}
	})

	t.Run("accepts other schemes", func(t *testing.T) {
		rec, err := ParseRecord([]byte(`{"version":1,"resource":"untitled:Untitled-1","entries":[]}`))
		if err != nil {
			t.Fatalf("ParseRecord() error = %v", err)
		}
		if rec.Resource.Scheme != "untitled" {
			t.Errorf("Resource.Scheme = %q, want untitled", rec.Resource.Scheme)
		}
	})

	t.Run("empty entries", func(t *testing.T) {
		rec, err := ParseRecord([]byte(`{"version":1,"resource":"file:///a","entries":[]}`))
		if err != nil {
			t.Fatalf("ParseRecord() error = %v", err)
		}
		if len(rec.Entries) != 0 {
			t.Errorf("len(Entries) = %d, want 0", len(rec.Entries))
		}
	})
}

func TestParseRecord_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"version":1,`},
		{"not an object", `[1,2,3]`},
		{"missing version", `{"resource":"file:///a","entries":[]}`},
		{"unsupported version", `{"version":2,"resource":"file:///a","entries":[]}`},
		{"missing resource", `{"version":1,"entries":[]}`},
		{"resource without scheme", `{"version":1,"resource":"/home/u/a.txt","entries":[]}`},
		{"invalid resource", `{"version":1,"resource":"file://%zz/a","entries":[]}`},
		{"missing entries", `{"version":1,"resource":"file:///a"}`},
		{"null entries", `{"version":1,"resource":"file:///a","entries":null}`},
		{"entry without id", `{"version":1,"resource":"file:///a","entries":[{"timestamp":1}]}`},
		{"entry with empty id", `{"version":1,"resource":"file:///a","entries":[{"id":"","timestamp":1}]}`},
		{"entry id escaping the directory", `{"version":1,"resource":"file:///a","entries":[{"id":"../x","timestamp":1}]}`},
		{"entry id dot dot", `{"version":1,"resource":"file:///a","entries":[{"id":"..","timestamp":1}]}`},
		{"entry without timestamp", `{"version":1,"resource":"file:///a","entries":[{"id":"x"}]}`},
		{"string timestamp", `{"version":1,"resource":"file:///a","entries":[{"id":"x","timestamp":"yesterday"}]}`},
		{"fractional timestamp", `{"version":1,"resource":"file:///a","entries":[{"id":"x","timestamp":1.5}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord([]byte(tt.data))
			if err == nil {
				t.Fatal("ParseRecord() expected error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("ParseRecord() error = %T, want *ParseError", err)
			}
		})
	}
}
