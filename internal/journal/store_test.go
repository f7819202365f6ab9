package journal_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mediasort/internal/journal"
	"mediasort/internal/plan"
	"mediasort/internal/services"
)

func testEntries() []plan.Entry {
	return []plan.Entry{
		{SourcePath: "/src/a.jpg", DestinationPath: "/out/2023/a.jpg", Action: plan.ActionCopy, Status: plan.StatusPending},
		{SourcePath: "/src/b.jpg", DestinationPath: "/out/2024/b.jpg", Action: plan.ActionCopy, Status: plan.StatusPending},
		{SourcePath: "/src/c.jpg", DestinationPath: "/out/2024/c.jpg", Action: plan.ActionCopy, Status: plan.StatusPending},
	}
}

func openStore(t *testing.T, path string) *journal.Store {
	t.Helper()
	store, err := journal.Open(path, nil)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBeginPersistsPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mediasort-status.json")
	store := openStore(t, path)
	if store.Exists() {
		t.Fatal("fresh journal should not report an existing file")
	}

	if err := store.Begin(testEntries()); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if store.RunID() == "" {
		t.Fatal("expected a run id after Begin")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("status file missing after Begin: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := openStore(t, path)
	if !reopened.Exists() {
		t.Fatal("reopened journal should see the persisted file")
	}
	if reopened.RunID() != store.RunID() {
		t.Fatalf("run id changed across reopen: %q vs %q", reopened.RunID(), store.RunID())
	}
	if got := len(reopened.Entries()); got != 3 {
		t.Fatalf("expected 3 entries, got %d", got)
	}
}

func TestTransitionEnforcesLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mediasort-status.json")
	store := openStore(t, path)
	if err := store.Begin(testEntries()); err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := store.Transition("/src/a.jpg", plan.StatusInProgress, ""); err != nil {
		t.Fatalf("pending -> in_progress: %v", err)
	}
	if err := store.Transition("/src/a.jpg", plan.StatusDone, ""); err != nil {
		t.Fatalf("in_progress -> done: %v", err)
	}

	err := store.Transition("/src/a.jpg", plan.StatusPending, "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("terminal entry reverted without validation error: %v", err)
	}
	if err := store.Transition("/src/missing.jpg", plan.StatusInProgress, ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("unknown source accepted: %v", err)
	}
}

func TestTransitionFailureRecordsMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mediasort-status.json")
	store := openStore(t, path)
	if err := store.Begin(testEntries()); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := store.Transition("/src/b.jpg", plan.StatusInProgress, ""); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if err := store.Transition("/src/b.jpg", plan.StatusFailed, "disk full"); err != nil {
		t.Fatalf("transition: %v", err)
	}

	for _, entry := range store.Entries() {
		if entry.SourcePath != "/src/b.jpg" {
			continue
		}
		if entry.Status != plan.StatusFailed || entry.Error != "disk full" {
			t.Fatalf("unexpected failed entry: %+v", entry)
		}
	}
}

func TestMergeKeepsFinishedResetsRest(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mediasort-status.json")
	store := openStore(t, path)
	if err := store.Begin(testEntries()); err != nil {
		t.Fatalf("begin: %v", err)
	}
	mustTransition(t, store, "/src/a.jpg", plan.StatusInProgress, plan.StatusDone)
	mustTransition(t, store, "/src/b.jpg", plan.StatusInProgress, plan.StatusFailed)
	if err := store.Transition("/src/c.jpg", plan.StatusInProgress, ""); err != nil {
		t.Fatalf("transition: %v", err)
	}
	runID := store.RunID()
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	resumed := openStore(t, path)
	if err := resumed.Merge(testEntries()); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if resumed.RunID() != runID {
		t.Fatalf("merge changed run id: %q vs %q", resumed.RunID(), runID)
	}

	statuses := map[string]plan.Status{}
	for _, entry := range resumed.Entries() {
		statuses[entry.SourcePath] = entry.Status
	}
	if statuses["/src/a.jpg"] != plan.StatusDone {
		t.Fatalf("done entry not carried: %v", statuses["/src/a.jpg"])
	}
	if statuses["/src/b.jpg"] != plan.StatusPending {
		t.Fatalf("failed entry not reset: %v", statuses["/src/b.jpg"])
	}
	if statuses["/src/c.jpg"] != plan.StatusPending {
		t.Fatalf("in_progress entry not reset: %v", statuses["/src/c.jpg"])
	}
}

func TestMergeDropsVanishedSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mediasort-status.json")
	store := openStore(t, path)
	if err := store.Begin(testEntries()); err != nil {
		t.Fatalf("begin: %v", err)
	}

	shrunk := testEntries()[:2]
	if err := store.Merge(shrunk); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got := len(store.Entries()); got != 2 {
		t.Fatalf("expected vanished source dropped, got %d entries", got)
	}
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mediasort-status.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	_, err := journal.Open(path, nil)
	if !errors.Is(err, services.ErrJournalCorrupt) {
		t.Fatalf("expected journal corrupt error, got %v", err)
	}
}

func TestOpenRejectsUnknownSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mediasort-status.json")
	body := `{"schema_version": 99, "run_id": "x", "entries": []}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write status file: %v", err)
	}

	_, err := journal.Open(path, nil)
	if !errors.Is(err, services.ErrJournalCorrupt) {
		t.Fatalf("expected journal corrupt error, got %v", err)
	}
}

func TestOpenRejectsSecondInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mediasort-status.json")
	first := openStore(t, path)
	_ = first

	_, err := journal.Open(path, nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for locked journal, got %v", err)
	}
}

func TestRemoveAndComplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mediasort-status.json")
	store := openStore(t, path)
	entries := testEntries()[:1]
	if err := store.Begin(entries); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if store.Complete() {
		t.Fatal("pending journal reported complete")
	}
	mustTransition(t, store, "/src/a.jpg", plan.StatusInProgress, plan.StatusDone)
	if !store.Complete() {
		t.Fatal("finished journal not complete")
	}

	if err := store.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("status file still present: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mediasort-status.json")
	store := openStore(t, path)
	if err := store.Begin(testEntries()); err != nil {
		t.Fatalf("begin: %v", err)
	}
	mustTransition(t, store, "/src/a.jpg", plan.StatusInProgress, plan.StatusDone)
	mustTransition(t, store, "/src/b.jpg", plan.StatusInProgress, plan.StatusSkipped)

	summary := store.Summarize()
	if summary.Done != 1 || summary.Skipped != 1 || summary.Pending != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Total() != 3 {
		t.Fatalf("unexpected total: %d", summary.Total())
	}
}

func mustTransition(t *testing.T, store *journal.Store, sourcePath string, statuses ...plan.Status) {
	t.Helper()
	for _, status := range statuses {
		message := ""
		if status == plan.StatusFailed {
			message = "induced failure"
		}
		if err := store.Transition(sourcePath, status, message); err != nil {
			t.Fatalf("transition %s -> %s: %v", sourcePath, status, err)
		}
	}
}
