package app

import (
	"fmt"
	"os"
	"strings"

	"tardis-go/internal/config"
	"tardis-go/internal/database"
	"tardis-go/internal/fs"
	"tardis-go/internal/tardis"
)

// TardisApp is the application layer between the CLI and TardisService.
// It constructs all dependencies from config, resolves the working
// directory once, and manages the journal lifecycle on Close.
type TardisApp struct {
	cfg     *config.Config
	workDir *tardis.Path
	journal tardis.Journal
	fsmgr   tardis.FilesystemManager
	clock   tardis.Clock
	logger  tardis.Logger
	service *tardis.TardisService
	op      *Operation
	opID    string
	logFile *os.File
}

// NewTardisApp creates a fully wired TardisApp from the given config.
// rawWorkDir is the directory whose files are listed and restored.
// operation identifies the CLI command being run (e.g. "List", "Restore").
// The caller must call Close when done.
func NewTardisApp(cfg *config.Config, rawWorkDir string, operation string, debug bool) (*TardisApp, error) {
	return newTardisApp(cfg, rawWorkDir, operation, debug, tardis.RealClock{}, tardis.UUIDGenerator{})
}

func newTardisApp(cfg *config.Config, rawWorkDir string, operation string, debug bool, clock tardis.Clock, ids tardis.IDGenerator) (*TardisApp, error) {
	fsmgr := fs.NewOSFilesystemManager(cfg.Ignore)

	workDir, err := fsmgr.Resolve(rawWorkDir)
	if err != nil {
		return nil, &tardis.ConfigError{Msg: "cannot resolve working directory " + rawWorkDir, Err: err}
	}
	if !workDir.IsDir() {
		return nil, &tardis.ConfigError{Msg: "working directory is not a directory: " + workDir.String()}
	}

	if cfg.HistoryDir == "" {
		return nil, &tardis.ConfigError{Msg: "no history_dir configured"}
	}

	journal, err := database.NewLazyJournal(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}

	opID := ids.New()
	logger, logFile, err := newLogger(cfg.LogDir, opID, debug)
	if err != nil {
		journal.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	scanner := tardis.NewOSScanner(cfg.HistoryDir, log)
	log.Debug("starting", "operation", operation, "workdir", workDir.String(), "history", scanner.Root())

	svc := tardis.NewTardisService(scanner, fsmgr, journal, log, clock)

	return &TardisApp{
		cfg:     cfg,
		workDir: workDir,
		journal: journal,
		fsmgr:   fsmgr,
		clock:   clock,
		logger:  log,
		service: svc,
		op:      NewOperation(operation, ""),
		opID:    opID,
		logFile: logFile,
	}, nil
}

// WorkDir returns the canonical working directory.
func (a *TardisApp) WorkDir() *tardis.Path {
	return a.workDir
}

// OperationID returns the identifier tagging this invocation's log lines.
func (a *TardisApp) OperationID() string {
	return a.opID
}

// persistOperation saves the operation to the journal, giving it an auto-increment ID.
// This should only be called for commands that write files.
func (a *TardisApp) persistOperation() error {
	if a.op.Persisted() {
		return nil
	}
	id, err := a.journal.BeginOperation(a.op.Operation, a.op.Parameters, a.clock.Now())
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = id
	return nil
}

// List returns every file under the working directory that has local history.
func (a *TardisApp) List() ([]*tardis.ListEntry, error) {
	return a.service.List(a.workDir)
}

// Restore restores files under the working directory from their backups.
// files limits the restore to the named paths; entryID picks a specific
// backup instead of the latest. hook is called before each file is written.
func (a *TardisApp) Restore(files []string, entryID string, hook tardis.RestoreHook) ([]*tardis.RestoreAction, error) {
	params := strings.Join(files, " ")
	if entryID != "" {
		params = strings.TrimSpace(params + " entry=" + entryID)
	}
	a.op.Parameters = params

	if err := a.persistOperation(); err != nil {
		return nil, err
	}

	actions, err := a.service.Restore(a.workDir, tardis.RestoreRequest{
		Files:       files,
		EntryID:     entryID,
		OperationID: a.op.ID,
	}, hook)
	if err != nil {
		a.op.Fail()
		a.logger.Error("restore failed", "error", err)
		return actions, err
	}
	return actions, nil
}

// Diff returns a unified diff from a backup of file to its current content.
func (a *TardisApp) Diff(file string, entryID string) (string, error) {
	return a.service.Diff(a.workDir, file, entryID)
}

// GetHistory returns the most recent restore operations.
func (a *TardisApp) GetHistory(limit int) ([]*tardis.OperationHistory, error) {
	return a.service.GetHistory(limit)
}

// Close finalizes the operation and closes all resources.
func (a *TardisApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.journal.FinishOperation(a.op.ID, a.op.Status, a.clock.Now()); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.journal.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing journal: %w", err)
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}
