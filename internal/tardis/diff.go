package tardis

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffContextLines is the number of unchanged lines around each hunk.
const DiffContextLines = 3

// Diff returns a unified diff from the selected backup of file to its
// current content. An empty string means they are identical. A missing
// current file is compared as empty.
func (s *TardisService) Diff(workDir *Path, file string, entryID string) (string, error) {
	files, err := s.Discover(workDir)
	if err != nil {
		return "", err
	}

	target := s.resolveRequestedPath(workDir, file)
	var hf *HistoryFile
	for _, candidate := range files {
		if candidate.CurrentFile() == target {
			hf = candidate
			break
		}
	}
	if hf == nil {
		return "", &NotFoundError{What: "backups for " + file}
	}

	source, err := pickBackup(hf, entryID)
	if err != nil {
		return "", err
	}

	rel, err := RelativePath(workDir.String(), target)
	if err != nil {
		return "", err
	}

	old, err := s.fsmgr.ReadFile(source.Path)
	if err != nil {
		return "", &IOError{Op: "read backup", Path: source.Path, Err: err}
	}
	current, err := s.fsmgr.ReadFile(target)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", &IOError{Op: "read", Path: target, Err: err}
		}
		current = nil
	}

	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(old)),
		B:        difflib.SplitLines(string(current)),
		FromFile: rel,
		FromDate: source.Timestamp.UTC().Format(TimestampFormat),
		ToFile:   rel,
		ToDate:   "current",
		Context:  DiffContextLines,
	}
	out, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", rel, err)
	}
	return out, nil
}
