package tardis

import "path/filepath"

// Correlate decides whether the record stored in dir belongs to a file
// under workDir. workDir must already be canonical. Records for other
// schemes, relative paths or files elsewhere are excluded, not errors.
func Correlate(workDir string, dir string, record *BackupRecord) (*HistoryFile, bool) {
	hf := &HistoryFile{Dir: dir, Record: record}
	if !hf.IsScheme(FileScheme) {
		return nil, false
	}

	current := hf.CurrentFile()
	if !filepath.IsAbs(current) {
		return nil, false
	}

	if !IsWithin(workDir, current) {
		return nil, false
	}
	return hf, true
}
