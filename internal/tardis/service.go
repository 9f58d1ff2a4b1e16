package tardis

import (
	"errors"
	"fmt"
	"sort"
)

// TardisService ties the scanner, parser and correlation filter together
// and exposes the list, restore and diff operations used by the CLI.
// It keeps no state between calls: every operation rescans the store.
type TardisService struct {
	source  RecordSource
	fsmgr   FilesystemManager
	journal Journal
	logger  Logger
	clock   Clock
}

// NewTardisService creates a new TardisService with the provided dependencies.
func NewTardisService(source RecordSource, fsmgr FilesystemManager, journal Journal, logger Logger, clock Clock) *TardisService {
	return &TardisService{
		source:  source,
		fsmgr:   fsmgr,
		journal: journal,
		logger:  logger,
		clock:   clock,
	}
}

// Discover scans the store and returns the history files of everything
// under workDir, sorted by original path. A record that cannot be parsed
// aborts the whole discovery with a *ParseError.
func (s *TardisService) Discover(workDir *Path) ([]*HistoryFile, error) {
	if !workDir.IsDir() {
		return nil, fmt.Errorf("working directory is not a directory: %s", workDir.String())
	}

	var found []*HistoryFile
	for raw := range s.source.Scan() {
		record, err := ParseRecord(raw.Data)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Path = raw.Path
			}
			return nil, err
		}

		hf, ok := Correlate(workDir.String(), raw.Dir, record)
		if !ok {
			s.logger.Debug("record excluded", "dir", raw.Dir, "resource", record.Resource.String())
			continue
		}

		rel, err := RelativePath(workDir.String(), hf.CurrentFile())
		if err != nil {
			return nil, err
		}
		ignored, err := s.fsmgr.IsIgnored(rel, workDir.String())
		if err != nil {
			return nil, fmt.Errorf("checking ignore rules: %w", err)
		}
		if ignored {
			s.logger.Debug("record ignored", "path", rel)
			continue
		}

		if !hf.IsOrdered() {
			s.logger.Warn("backup entries out of timestamp order", "dir", raw.Dir, "path", rel)
		}
		found = append(found, hf)
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].CurrentFile() != found[j].CurrentFile() {
			return found[i].CurrentFile() < found[j].CurrentFile()
		}
		return found[i].Dir < found[j].Dir
	})

	s.logger.Debug("discovery complete", "workdir", workDir.String(), "count", len(found))
	return found, nil
}
