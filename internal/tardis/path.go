package tardis

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Path represents a validated filesystem path with cached metadata.
// Path objects are created by FilesystemManager.Resolve(), which makes the
// path absolute, evaluates symlinks and caches stat info.
type Path struct {
	absPath string
	isDir   bool
	info    fs.FileInfo
}

// NewPath creates a Path from its components.
// This is primarily for use by FilesystemManager implementations.
func NewPath(absPath string, isDir bool, info fs.FileInfo) *Path {
	return &Path{
		absPath: absPath,
		isDir:   isDir,
		info:    info,
	}
}

// String returns the absolute path as a string.
func (p *Path) String() string {
	return p.absPath
}

// IsDir returns true if this path points to a directory.
func (p *Path) IsDir() bool {
	return p.isDir
}

// Info returns the cached file info from when the path was resolved.
func (p *Path) Info() fs.FileInfo {
	return p.info
}

// IsWithin reports whether target is base itself or lies below it.
// Both paths must be absolute. The comparison works on path components, so
// /home/foo does not contain /home/foobar.
func IsWithin(base, target string) bool {
	if !filepath.IsAbs(base) || !filepath.IsAbs(target) {
		return false
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// RelativePath expresses target relative to base. It fails with a *PathError
// when target is not within base.
func RelativePath(base, target string) (string, error) {
	if !IsWithin(base, target) {
		return "", &PathError{Path: target, Base: base}
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", &PathError{Path: target, Base: base, Err: err}
	}
	return rel, nil
}
