package tardis

import (
	"fmt"
	"path/filepath"
)

// RestoreRequest selects what to restore.
type RestoreRequest struct {
	// Files limits the restore to these paths (files or directories).
	// Relative paths are taken from the working directory. Empty means
	// every file with history.
	Files []string

	// EntryID picks a specific backup instead of the latest one.
	EntryID string

	// OperationID is the journal operation the restored files belong to.
	// Zero disables journaling.
	OperationID int64
}

// RestoreAction describes one file about to be, or already, restored.
type RestoreAction struct {
	RelativePath string
	Source       BackupFile
	Destination  string
	Bytes        int64
}

// RestoreHook is called before each copy. Returning false skips the file;
// returning an error aborts the restore.
type RestoreHook func(action *RestoreAction) (bool, error)

// Restore copies the selected backup of every matching file over the
// original. The first failure aborts; files already restored stay restored.
// Returns the actions that were carried out.
func (s *TardisService) Restore(workDir *Path, req RestoreRequest, hook RestoreHook) ([]*RestoreAction, error) {
	s.logger.Info("restore started", "workdir", workDir.String(), "files", len(req.Files))

	files, err := s.Discover(workDir)
	if err != nil {
		return nil, err
	}

	selected, err := s.selectHistoryFiles(workDir, files, req.Files)
	if err != nil {
		return nil, err
	}

	var restored []*RestoreAction
	for _, hf := range selected {
		source, err := pickBackup(hf, req.EntryID)
		if err != nil {
			return restored, err
		}

		rel, err := RelativePath(workDir.String(), hf.CurrentFile())
		if err != nil {
			return restored, err
		}

		action := &RestoreAction{
			RelativePath: rel,
			Source:       source,
			Destination:  hf.CurrentFile(),
		}

		if hook != nil {
			proceed, err := hook(action)
			if err != nil {
				return restored, err
			}
			if !proceed {
				s.logger.Info("restore skipped", "path", action.Destination)
				continue
			}
		}

		n, err := s.fsmgr.CopyFile(source.Path, action.Destination)
		if err != nil {
			return restored, err
		}
		action.Bytes = n

		if req.OperationID != 0 {
			err := s.journal.RecordRestore(&JournalEntry{
				OperationID:     req.OperationID,
				Path:            action.Destination,
				BackupPath:      source.Path,
				BackupTimestamp: source.Timestamp,
				RestoredAt:      s.clock.Now(),
				Bytes:           n,
			})
			if err != nil {
				return restored, fmt.Errorf("recording restore: %w", err)
			}
		}

		s.logger.Info("file restored", "path", action.Destination, "backup", source.Path, "bytes", n)
		restored = append(restored, action)
	}

	s.logger.Info("restore complete", "count", len(restored))
	return restored, nil
}

// selectHistoryFiles keeps the files matching any of the requested paths.
// Each requested path must match at least one file.
func (s *TardisService) selectHistoryFiles(workDir *Path, files []*HistoryFile, requested []string) ([]*HistoryFile, error) {
	if len(requested) == 0 {
		return files, nil
	}

	picked := make(map[*HistoryFile]bool)
	for _, raw := range requested {
		target := s.resolveRequestedPath(workDir, raw)
		matched := false
		for _, hf := range files {
			if IsWithin(target, hf.CurrentFile()) {
				picked[hf] = true
				matched = true
			}
		}
		if !matched {
			return nil, &NotFoundError{What: "backups for " + raw}
		}
	}

	var selected []*HistoryFile
	for _, hf := range files {
		if picked[hf] {
			selected = append(selected, hf)
		}
	}
	return selected, nil
}

// resolveRequestedPath turns a user supplied path into the canonical form
// history files are matched against. Relative paths are taken from workDir.
// Directories are fully resolved. For anything else only the parent is, so
// deleted files can still be named and a symlinked file keeps its own name.
func (s *TardisService) resolveRequestedPath(workDir *Path, raw string) string {
	target := raw
	if !filepath.IsAbs(target) {
		target = filepath.Join(workDir.String(), target)
	}
	target = filepath.Clean(target)

	if p, err := s.fsmgr.Resolve(target); err == nil && p.IsDir() {
		return p.String()
	}
	if parent, err := s.fsmgr.Resolve(filepath.Dir(target)); err == nil {
		return filepath.Join(parent.String(), filepath.Base(target))
	}
	return target
}

func pickBackup(hf *HistoryFile, entryID string) (BackupFile, error) {
	if entryID != "" {
		return hf.Entry(entryID)
	}
	return hf.Latest()
}
