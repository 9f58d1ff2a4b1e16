package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTardisHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "op-123",
			level:   slog.LevelInfo,
			message: "file restored",
			want:    "2024-06-15T14:30:45Z\tINFO\top-123\tfile restored\n",
		},
		{
			name:    "warn level",
			opID:    "op-456",
			level:   slog.LevelWarn,
			message: "backup entries out of timestamp order",
			want:    "2024-06-15T14:30:45Z\tWARN\top-456\tbackup entries out of timestamp order\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-789",
			level:   slog.LevelInfo,
			message: "file restored",
			attrs:   []slog.Attr{slog.String("path", "/src/main.go"), slog.Int64("bytes", 42)},
			want:    "2024-06-15T14:30:45Z\tINFO\top-789\tfile restored\tpath=/src/main.go\tbytes=42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &tardisHandler{w: &buf, opID: tt.opID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestTardisHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &tardisHandler{w: &buf, opID: "op-1"}

	h2 := h.WithAttrs([]slog.Attr{slog.String("workdir", "/src")}).(*tardisHandler)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "restore started", 0)
	r.AddAttrs(slog.Int("files", 2))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "workdir=/src") {
		t.Errorf("expected pre-set attr workdir=/src, got: %q", got)
	}
	if !strings.Contains(got, "files=2") {
		t.Errorf("expected record attr files=2, got: %q", got)
	}
}

func TestTardisHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	h := &tardisHandler{opID: "op-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*tardisHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestTardisHandler_Enabled(t *testing.T) {
	tests := []struct {
		name    string
		min     slog.Level
		level   slog.Level
		enabled bool
	}{
		{name: "debug hidden at info", min: slog.LevelInfo, level: slog.LevelDebug, enabled: false},
		{name: "info shown at info", min: slog.LevelInfo, level: slog.LevelInfo, enabled: true},
		{name: "error shown at info", min: slog.LevelInfo, level: slog.LevelError, enabled: true},
		{name: "debug shown at debug", min: slog.LevelDebug, level: slog.LevelDebug, enabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &tardisHandler{level: tt.min}
			if got := h.Enabled(context.Background(), tt.level); got != tt.enabled {
				t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.enabled)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	logger, f, err := newLogger(dir, "test-op", false)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}

	logger.Debug("not written")
	logger.Info("written", "k", "v")
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	got := string(data)
	if strings.Contains(got, "not written") {
		t.Errorf("debug record written without debug: %q", got)
	}
	if !strings.Contains(got, "\tINFO\ttest-op\twritten\tk=v\n") {
		t.Errorf("log file = %q", got)
	}
}
