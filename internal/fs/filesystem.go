package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tardis-go/internal/tardis"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
type OSFilesystemManager struct {
	ignore   []string
	matchers map[string]*IgnoreMatcher // by root directory
}

// NewOSFilesystemManager creates a filesystem manager that operates on the
// real filesystem. ignore holds the configured patterns; each root's
// .tardisignore is added to them.
func NewOSFilesystemManager(ignore []string) *OSFilesystemManager {
	return &OSFilesystemManager{
		ignore:   ignore,
		matchers: make(map[string]*IgnoreMatcher),
	}
}

// Resolve canonicalizes a raw path: absolute, symlinks evaluated, existing.
func (m *OSFilesystemManager) Resolve(rawPath string) (*tardis.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("evaluating symlinks: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	return tardis.NewPath(resolved, info.IsDir(), info), nil
}

// ReadFile returns the content of a file.
func (m *OSFilesystemManager) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// CopyFile truncates dst and writes the content of src into it.
// This is not atomic: a failure midway leaves dst partially written.
func (m *OSFilesystemManager) CopyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, &tardis.IOError{Op: "open backup", Path: src, Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, &tardis.IOError{Op: "open destination", Path: dst, Err: err}
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, &tardis.IOError{Op: "write", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return n, &tardis.IOError{Op: "close", Path: dst, Err: err}
	}
	return n, nil
}

// IsIgnored reports whether relativePath matches the configured patterns or
// the patterns in root's ignore file. The ignore file is read once per root.
func (m *OSFilesystemManager) IsIgnored(relativePath string, root string) (bool, error) {
	matcher, ok := m.matchers[root]
	if !ok {
		filePatterns, err := ParseIgnoreFile(filepath.Join(root, IgnoreFileName))
		if err != nil {
			return false, err
		}
		patterns := append(append([]string{}, m.ignore...), filePatterns...)
		matcher = NewIgnoreMatcher(patterns)
		m.matchers[root] = matcher
	}
	return matcher.Match(relativePath), nil
}

// Compile-time check that OSFilesystemManager implements tardis.FilesystemManager interface
var _ tardis.FilesystemManager = (*OSFilesystemManager)(nil)
