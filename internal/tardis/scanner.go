package tardis

import (
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// MaxScanDepth bounds how far below the history root metadata files are
// looked for. The root itself is depth 0, so root/a/b/entries.json (depth 3)
// is found and root/a/b/c/entries.json is not.
const MaxScanDepth = 3

// RawRecord is an undecoded metadata file found by the Scanner.
type RawRecord struct {
	Dir  string // directory holding the metadata file and its backups
	Path string // the metadata file itself
	Data []byte
}

// RecordSource yields the raw metadata records of a backup store.
type RecordSource interface {
	Scan() iter.Seq[RawRecord]
}

// Scanner walks a history root looking for metadata files.
// It never writes to the store.
type Scanner struct {
	root     string
	fsys     fs.FS
	maxDepth int
	logger   Logger
}

// NewScanner creates a Scanner over fsys, reporting paths below root.
// fsys is expected to be rooted at root.
func NewScanner(root string, fsys fs.FS, logger Logger) *Scanner {
	return &Scanner{
		root:     root,
		fsys:     fsys,
		maxDepth: MaxScanDepth,
		logger:   logger,
	}
}

// NewOSScanner creates a Scanner over the real filesystem. A relative root
// is made absolute against the current directory so reported paths are
// always absolute.
func NewOSScanner(root string, logger Logger) *Scanner {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return NewScanner(root, os.DirFS(root), logger)
}

// Root returns the history root being scanned.
func (s *Scanner) Root() string {
	return s.root
}

// Scan returns a single-use sequence of every metadata file in the store.
// A missing root yields nothing. Entries that cannot be read are skipped.
func (s *Scanner) Scan() iter.Seq[RawRecord] {
	return func(yield func(RawRecord) bool) {
		_ = fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				s.logger.Debug("scan skipped entry", "path", s.osPath(p), "error", err)
				return nil
			}
			if d.IsDir() {
				if depth(p) >= s.maxDepth {
					return fs.SkipDir
				}
				return nil
			}
			if d.Name() != MetadataFileName || !d.Type().IsRegular() {
				return nil
			}

			data, err := fs.ReadFile(s.fsys, p)
			if err != nil {
				s.logger.Debug("scan skipped unreadable record", "path", s.osPath(p), "error", err)
				return nil
			}

			rec := RawRecord{
				Dir:  s.osPath(path.Dir(p)),
				Path: s.osPath(p),
				Data: data,
			}
			if !yield(rec) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// osPath maps a slash-separated fs.FS path back below the root.
func (s *Scanner) osPath(p string) string {
	return filepath.Join(s.root, filepath.FromSlash(p))
}

// depth counts the path components of an fs.FS path; "." is 0.
func depth(p string) int {
	if p == "." {
		return 0
	}
	return strings.Count(p, "/") + 1
}

var _ RecordSource = (*Scanner)(nil)
