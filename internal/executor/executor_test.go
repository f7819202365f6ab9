package executor_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediasort/internal/conflict"
	"mediasort/internal/executor"
	"mediasort/internal/plan"
)

type recordedTransition struct {
	sourcePath string
	status     plan.Status
	message    string
}

type fakeRecorder struct {
	transitions []recordedTransition
}

func (f *fakeRecorder) Transition(sourcePath string, next plan.Status, message string) error {
	f.transitions = append(f.transitions, recordedTransition{sourcePath, next, message})
	return nil
}

func (f *fakeRecorder) statusesFor(sourcePath string) []plan.Status {
	var statuses []plan.Status
	for _, tr := range f.transitions {
		if tr.sourcePath == sourcePath {
			statuses = append(statuses, tr.status)
		}
	}
	return statuses
}

type fixedPrompter struct {
	decision conflict.Decision
	calls    int
}

func (p *fixedPrompter) Prompt(context.Context, conflict.Conflict) (conflict.Decision, error) {
	p.calls++
	return p.decision, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRunCopiesPendingEntries(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "PXL_20240712_101500.jpg")
	dst := filepath.Join(root, "out", "2024", "PXL_20240712_101500.jpg")
	writeFile(t, src, "photo bytes")

	recorder := &fakeRecorder{}
	exec := executor.New(recorder, conflict.NewResolver(nil, conflict.ChoiceNo, nil), executor.Options{})

	summary, err := exec.Run(context.Background(), []plan.Entry{
		{SourcePath: src, DestinationPath: dst, Action: plan.ActionCopy, Status: plan.StatusPending},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Done != 1 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if got := readFile(t, dst); got != "photo bytes" {
		t.Fatalf("destination content %q", got)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("copy removed source: %v", err)
	}
	want := []plan.Status{plan.StatusInProgress, plan.StatusDone}
	got := recorder.statusesFor(src)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected transitions: %v", got)
	}
}

func TestRunMovesRemoveSource(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "DSC_20230615.jpg")
	dst := filepath.Join(root, "out", "2023", "DSC_20230615.jpg")
	writeFile(t, src, "moved bytes")

	exec := executor.New(&fakeRecorder{}, conflict.NewResolver(nil, conflict.ChoiceNo, nil), executor.Options{})
	summary, err := exec.Run(context.Background(), []plan.Entry{
		{SourcePath: src, DestinationPath: dst, Action: plan.ActionMove, Status: plan.StatusPending},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Done != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source still present after move: %v", err)
	}
	if got := readFile(t, dst); got != "moved bytes" {
		t.Fatalf("destination content %q", got)
	}
}

func TestRunSkipsTerminalEntries(t *testing.T) {
	recorder := &fakeRecorder{}
	exec := executor.New(recorder, nil, executor.Options{})

	summary, err := exec.Run(context.Background(), []plan.Entry{
		{SourcePath: "/src/a.jpg", DestinationPath: "/out/a.jpg", Action: plan.ActionCopy, Status: plan.StatusDone},
		{SourcePath: "/src/b.jpg", DestinationPath: "/out/b.jpg", Action: plan.ActionCopy, Status: plan.StatusSkipped},
		{SourcePath: "/src/c.jpg", DestinationPath: "", Action: plan.ActionCopy, Status: plan.StatusFailed, Error: "no date"},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Done != 1 || summary.Skipped != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(recorder.transitions) != 0 {
		t.Fatalf("terminal entries must not transition: %v", recorder.transitions)
	}
}

func TestRunConflictDeclineSkips(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "a.jpg")
	dst := filepath.Join(root, "out", "2024", "a.jpg")
	writeFile(t, src, "new content")
	writeFile(t, dst, "existing content")

	prompter := &fixedPrompter{decision: conflict.Decision{Choice: conflict.ChoiceNo, Scope: conflict.ScopeCurrentOnly}}
	recorder := &fakeRecorder{}
	exec := executor.New(recorder, conflict.NewResolver(prompter, "", nil), executor.Options{})

	summary, err := exec.Run(context.Background(), []plan.Entry{
		{SourcePath: src, DestinationPath: dst, Action: plan.ActionCopy, Status: plan.StatusPending},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if prompter.calls != 1 {
		t.Fatalf("expected one prompt, got %d", prompter.calls)
	}
	if got := readFile(t, dst); got != "existing content" {
		t.Fatalf("declined conflict overwrote destination: %q", got)
	}
}

func TestRunConflictAcceptOverwrites(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "a.jpg")
	dst := filepath.Join(root, "out", "2024", "a.jpg")
	writeFile(t, src, "new content")
	writeFile(t, dst, "existing content")

	prompter := &fixedPrompter{decision: conflict.Decision{Choice: conflict.ChoiceYes, Scope: conflict.ScopeCurrentOnly}}
	exec := executor.New(&fakeRecorder{}, conflict.NewResolver(prompter, "", nil), executor.Options{})

	summary, err := exec.Run(context.Background(), []plan.Entry{
		{SourcePath: src, DestinationPath: dst, Action: plan.ActionCopy, Status: plan.StatusPending},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Done != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if got := readFile(t, dst); got != "new content" {
		t.Fatalf("accepted conflict kept old content: %q", got)
	}
}

func TestRunRecordsTransferFailure(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "in", "gone.jpg")
	dst := filepath.Join(root, "out", "2024", "gone.jpg")

	recorder := &fakeRecorder{}
	exec := executor.New(recorder, conflict.NewResolver(nil, conflict.ChoiceNo, nil), executor.Options{})

	summary, err := exec.Run(context.Background(), []plan.Entry{
		{SourcePath: missing, DestinationPath: dst, Action: plan.ActionCopy, Status: plan.StatusPending},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	last := recorder.transitions[len(recorder.transitions)-1]
	if last.status != plan.StatusFailed || last.message == "" {
		t.Fatalf("failure not recorded with message: %+v", last)
	}
}

func TestDryRunMutatesNothing(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "a.jpg")
	dst := filepath.Join(root, "out", "2024", "a.jpg")
	writeFile(t, src, "content")

	recorder := &fakeRecorder{}
	exec := executor.New(recorder, nil, executor.Options{DryRun: true})

	summary, err := exec.Run(context.Background(), []plan.Entry{
		{SourcePath: src, DestinationPath: dst, Action: plan.ActionMove, Status: plan.StatusPending},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Planned != 1 || summary.Done != 0 {
		t.Fatalf("dry run must count planned, not done: %+v", summary)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("dry run created destination: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("dry run touched source: %v", err)
	}
	if len(recorder.transitions) != 0 {
		t.Fatalf("dry run persisted transitions: %v", recorder.transitions)
	}
}

func TestDryRunCountsConflicts(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "a.jpg")
	occupied := filepath.Join(root, "out", "2024", "a.jpg")
	free := filepath.Join(root, "out", "2024", "b.jpg")
	writeFile(t, src, "content")
	writeFile(t, occupied, "existing")

	exec := executor.New(&fakeRecorder{}, nil, executor.Options{DryRun: true})
	summary, err := exec.Run(context.Background(), []plan.Entry{
		{SourcePath: src, DestinationPath: occupied, Action: plan.ActionCopy, Status: plan.StatusPending},
		{SourcePath: src, DestinationPath: free, Action: plan.ActionCopy, Status: plan.StatusPending},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Planned != 2 || summary.Conflicts != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestRunConflictWithVanishedSourceFailsEntry(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "in", "gone.jpg")
	occupied := filepath.Join(root, "out", "2024", "gone.jpg")
	writeFile(t, occupied, "existing")
	src := filepath.Join(root, "in", "ok.jpg")
	dst := filepath.Join(root, "out", "2024", "ok.jpg")
	writeFile(t, src, "content")

	prompter := &fixedPrompter{decision: conflict.Decision{Choice: conflict.ChoiceYes, Scope: conflict.ScopeCurrentOnly}}
	recorder := &fakeRecorder{}
	exec := executor.New(recorder, conflict.NewResolver(prompter, "", nil), executor.Options{})

	summary, err := exec.Run(context.Background(), []plan.Entry{
		{SourcePath: missing, DestinationPath: occupied, Action: plan.ActionCopy, Status: plan.StatusPending},
		{SourcePath: src, DestinationPath: dst, Action: plan.ActionCopy, Status: plan.StatusPending},
	})
	if err != nil {
		t.Fatalf("unreadable source at conflict must not abort the run: %v", err)
	}
	if summary.Failed != 1 || summary.Done != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if prompter.calls != 0 {
		t.Fatalf("decision collected for an unreadable source: %d prompts", prompter.calls)
	}
	statuses := recorder.statusesFor(missing)
	if len(statuses) != 2 || statuses[1] != plan.StatusFailed {
		t.Fatalf("unexpected transitions for vanished source: %v", statuses)
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := executor.New(&fakeRecorder{}, nil, executor.Options{})
	_, err := exec.Run(ctx, []plan.Entry{
		{SourcePath: "/src/a.jpg", DestinationPath: "/out/a.jpg", Action: plan.ActionCopy, Status: plan.StatusPending},
	})
	if err == nil || !strings.Contains(err.Error(), "context canceled") {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestProgressBarWritesToConfiguredWriter(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "a.jpg")
	dst := filepath.Join(root, "out", "2024", "a.jpg")
	writeFile(t, src, "content")

	var progress strings.Builder
	exec := executor.New(&fakeRecorder{}, nil, executor.Options{ProgressWriter: &progress})

	if _, err := exec.Run(context.Background(), []plan.Entry{
		{SourcePath: src, DestinationPath: dst, Action: plan.ActionCopy, Status: plan.StatusPending},
	}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if progress.Len() == 0 {
		t.Fatal("progress writer received no output")
	}
}
