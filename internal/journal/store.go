package journal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"mediasort/internal/logging"
	"mediasort/internal/plan"
	"mediasort/internal/services"
)

const schemaVersion = 1

// fileState is the on-disk shape of the status file.
type fileState struct {
	SchemaVersion int          `json:"schema_version"`
	RunID         string       `json:"run_id"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Entries       []plan.Entry `json:"entries"`
}

// Store manages run progress persistence backed by a single JSON status file.
// Every transition rewrites the file through a temp-then-rename swap so an
// interrupted process never leaves a partially written journal behind.
type Store struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger

	state  fileState
	exists bool
	index  map[string]int
}

// Open acquires the single-instance lock for the status file and loads any
// previous run state. A second process opening the same status file fails
// immediately rather than waiting for the lock.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, services.Wrap(services.ErrValidation, "journal", "open", "status file path is empty", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "journal", "open", "resolve status file path", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "open", "create status file directory", err)
	}

	lock := flock.New(absPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "open", "acquire status file lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "open",
			fmt.Sprintf("status file %s is locked by another process", absPath), nil)
	}

	store := &Store{
		path:   absPath,
		lock:   lock,
		logger: logging.NewComponentLogger(logger, "journal"),
	}
	if err := store.load(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.state = fileState{SchemaVersion: schemaVersion}
		s.rebuildIndex()
		return nil
	}
	if err != nil {
		return services.Wrap(services.ErrJournalCorrupt, "journal", "load", "read status file", err)
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return services.Wrap(services.ErrJournalCorrupt, "journal", "load", "decode status file", err)
	}
	if state.SchemaVersion != schemaVersion {
		return services.Wrap(services.ErrJournalCorrupt, "journal", "load",
			fmt.Sprintf("unsupported schema version %d", state.SchemaVersion), nil)
	}
	for _, entry := range state.Entries {
		if entry.SourcePath == "" {
			return services.Wrap(services.ErrJournalCorrupt, "journal", "load", "entry missing source path", nil)
		}
		if _, ok := plan.ParseStatus(string(entry.Status)); !ok {
			return services.Wrap(services.ErrJournalCorrupt, "journal", "load",
				fmt.Sprintf("entry %s has unknown status %q", entry.SourcePath, entry.Status), nil)
		}
	}

	s.state = state
	s.exists = true
	s.rebuildIndex()
	s.logger.Debug("loaded existing status file",
		logging.String("path", s.path),
		logging.String(logging.FieldRunID, state.RunID),
		logging.Int("entries", len(state.Entries)))
	return nil
}

func (s *Store) rebuildIndex() {
	s.index = make(map[string]int, len(s.state.Entries))
	for i, entry := range s.state.Entries {
		s.index[entry.SourcePath] = i
	}
}

// Exists reports whether a previous run left a status file behind.
func (s *Store) Exists() bool { return s.exists }

// Path returns the absolute status file location.
func (s *Store) Path() string { return s.path }

// RunID returns the identifier of the run currently recorded in the journal.
func (s *Store) RunID() string { return s.state.RunID }

// Entries returns a copy of the journal entries in plan order.
func (s *Store) Entries() []plan.Entry {
	entries := make([]plan.Entry, len(s.state.Entries))
	copy(entries, s.state.Entries)
	return entries
}

// Begin starts a fresh run: it discards any previous state, assigns a new run
// identifier, and persists the plan with every entry status as built.
func (s *Store) Begin(entries []plan.Entry) error {
	s.state = fileState{
		SchemaVersion: schemaVersion,
		RunID:         uuid.NewString(),
		Entries:       cloneEntries(entries),
	}
	s.rebuildIndex()
	if err := s.save(); err != nil {
		return err
	}
	s.logger.Info("started new run",
		logging.String(logging.FieldRunID, s.state.RunID),
		logging.Int("entries", len(entries)))
	return nil
}

// Merge resumes a previous run against a freshly built plan. Entries the
// previous run finished (done or skipped) keep their recorded status; entries
// that were pending, in progress, or failed start over as pending. Plan
// entries born failed stay failed. Journal entries whose source no longer
// appears in the plan are dropped.
func (s *Store) Merge(planned []plan.Entry) error {
	previous := make(map[string]plan.Entry, len(s.state.Entries))
	for _, entry := range s.state.Entries {
		previous[entry.SourcePath] = entry
	}

	merged := cloneEntries(planned)
	carried := 0
	for i := range merged {
		prior, ok := previous[merged[i].SourcePath]
		if !ok {
			continue
		}
		if !prior.Status.Resumable() {
			merged[i] = prior
			carried++
			continue
		}
		if merged[i].Status == plan.StatusFailed {
			continue
		}
		merged[i].Status = plan.StatusPending
		merged[i].Error = ""
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].SourcePath < merged[j].SourcePath })

	runID := s.state.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	s.state = fileState{
		SchemaVersion: schemaVersion,
		RunID:         runID,
		Entries:       merged,
	}
	s.rebuildIndex()
	if err := s.save(); err != nil {
		return err
	}
	s.logger.Info("resumed previous run",
		logging.String(logging.FieldRunID, runID),
		logging.Int("entries", len(merged)),
		logging.Int("carried", carried))
	return nil
}

// Transition moves one entry to the next lifecycle status and persists the
// journal before returning. Invalid transitions are rejected so a terminal
// entry can never silently revert.
func (s *Store) Transition(sourcePath string, next plan.Status, message string) error {
	i, ok := s.index[sourcePath]
	if !ok {
		return services.Wrap(services.ErrValidation, "journal", "transition",
			fmt.Sprintf("no entry for %s", sourcePath), nil)
	}
	entry := &s.state.Entries[i]
	if !entry.Status.CanTransition(next) {
		return services.Wrap(services.ErrValidation, "journal", "transition",
			fmt.Sprintf("%s cannot move from %s to %s", sourcePath, entry.Status, next), nil)
	}
	if next == plan.StatusFailed {
		entry.MarkFailed(message)
	} else {
		entry.Status = next
		entry.Error = ""
	}
	return s.save()
}

// Summary tallies entries by lifecycle bucket.
type Summary struct {
	Pending    int
	InProgress int
	Done       int
	Skipped    int
	Failed     int
}

// Total returns the number of entries covered by the summary.
func (s Summary) Total() int {
	return s.Pending + s.InProgress + s.Done + s.Skipped + s.Failed
}

// Summarize counts entries by status.
func (s *Store) Summarize() Summary {
	var summary Summary
	for _, entry := range s.state.Entries {
		switch entry.Status {
		case plan.StatusPending:
			summary.Pending++
		case plan.StatusInProgress:
			summary.InProgress++
		case plan.StatusDone:
			summary.Done++
		case plan.StatusSkipped:
			summary.Skipped++
		case plan.StatusFailed:
			summary.Failed++
		}
	}
	return summary
}

// Complete reports whether every entry reached a terminal status.
func (s *Store) Complete() bool {
	for _, entry := range s.state.Entries {
		if !entry.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// Remove deletes the status file, typically after a fully successful run or
// an explicit clean. The lock stays held until Close.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return services.Wrap(services.ErrTransfer, "journal", "remove", "delete status file", err)
	}
	s.exists = false
	s.logger.Debug("removed status file", logging.String("path", s.path))
	return nil
}

// Close releases the single-instance lock and its sidecar file.
func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	if err := s.lock.Unlock(); err != nil {
		return services.Wrap(services.ErrTransfer, "journal", "close", "release status file lock", err)
	}
	_ = os.Remove(s.lock.Path())
	s.lock = nil
	return nil
}

func (s *Store) save() error {
	s.state.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrTransfer, "journal", "save", "encode status file", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return services.Wrap(services.ErrTransfer, "journal", "save", "create temp status file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrTransfer, "journal", "save", "write temp status file", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrTransfer, "journal", "save", "close temp status file", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrTransfer, "journal", "save", "replace status file", err)
	}
	s.exists = true
	return nil
}

func cloneEntries(entries []plan.Entry) []plan.Entry {
	cloned := make([]plan.Entry, len(entries))
	copy(cloned, entries)
	return cloned
}
