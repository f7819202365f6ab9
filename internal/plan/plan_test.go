package plan_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"mediasort/internal/capture"
	"mediasort/internal/plan"
	"mediasort/internal/scan"
)

func resolverAt(created time.Time) *capture.Resolver {
	return capture.NewResolver(func(string) (time.Time, error) { return created, nil }, nil)
}

func TestBuildComputesYearBucketDestinations(t *testing.T) {
	builder := plan.NewBuilder(resolverAt(time.Time{}), nil)
	files := []scan.MediaFile{
		{Path: "/src/trip/PXL_20240712_101500.jpg", RelPath: filepath.Join("trip", "PXL_20240712_101500.jpg")},
		{Path: "/src/DSC_20230615.jpg", RelPath: "DSC_20230615.jpg"},
	}

	entries := builder.Build(files, "/out", plan.ActionCopy)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Sorted by source path: /src/DSC... precedes /src/trip/...
	if entries[0].DestinationPath != filepath.Join("/out", "2023", "DSC_20230615.jpg") {
		t.Fatalf("unexpected destination: %q", entries[0].DestinationPath)
	}
	if entries[1].DestinationPath != filepath.Join("/out", "2024", "trip", "PXL_20240712_101500.jpg") {
		t.Fatalf("unexpected destination: %q", entries[1].DestinationPath)
	}
	for _, entry := range entries {
		if entry.Status != plan.StatusPending || entry.Action != plan.ActionCopy {
			t.Fatalf("unexpected entry state: %+v", entry)
		}
	}
}

func TestBuildOrderIsDeterministic(t *testing.T) {
	builder := plan.NewBuilder(resolverAt(time.Time{}), nil)
	forward := []scan.MediaFile{
		{Path: "/src/a/DSC_20230101.jpg", RelPath: "DSC_20230101.jpg"},
		{Path: "/src/b/DSC_20230501.jpg", RelPath: "DSC_20230501.jpg"},
	}
	reversed := []scan.MediaFile{forward[1], forward[0]}

	first := builder.Build(forward, "/out", plan.ActionMove)
	second := builder.Build(reversed, "/out", plan.ActionMove)
	if len(first) != len(second) {
		t.Fatalf("length mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].SourcePath != second[i].SourcePath {
			t.Fatalf("order differs at %d: %q vs %q", i, first[i].SourcePath, second[i].SourcePath)
		}
	}
}

func TestBuildDropsDuplicateSources(t *testing.T) {
	builder := plan.NewBuilder(resolverAt(time.Time{}), nil)
	files := []scan.MediaFile{
		{Path: "/src/DSC_20230615.jpg", RelPath: "DSC_20230615.jpg"},
		{Path: "/src/DSC_20230615.jpg", RelPath: "DSC_20230615.jpg"},
	}
	entries := builder.Build(files, "/out", plan.ActionCopy)
	if len(entries) != 1 {
		t.Fatalf("expected duplicate source collapsed, got %d entries", len(entries))
	}
}

func TestBuildRecordsResolutionFailures(t *testing.T) {
	failing := capture.NewResolver(func(string) (time.Time, error) {
		return time.Time{}, errors.New("stat failed")
	}, nil)
	builder := plan.NewBuilder(failing, nil)
	files := []scan.MediaFile{
		{Path: "/src/unmatched.jpg", RelPath: "unmatched.jpg"},
		{Path: "/src/DSC_20230615.jpg", RelPath: "DSC_20230615.jpg"},
	}

	entries := builder.Build(files, "/out", plan.ActionCopy)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Status != plan.StatusFailed || entries[1].Error == "" {
		t.Fatalf("expected failed entry with message, got %+v", entries[1])
	}
	if entries[0].Status != plan.StatusPending {
		t.Fatalf("resolvable file should stay pending, got %+v", entries[0])
	}
}

func TestStatusLifecycle(t *testing.T) {
	if !plan.StatusPending.CanTransition(plan.StatusInProgress) {
		t.Fatal("pending -> in_progress should be allowed")
	}
	for _, terminal := range []plan.Status{plan.StatusDone, plan.StatusSkipped, plan.StatusFailed} {
		if !plan.StatusInProgress.CanTransition(terminal) {
			t.Fatalf("in_progress -> %s should be allowed", terminal)
		}
		if terminal.CanTransition(plan.StatusPending) {
			t.Fatalf("%s must not revert", terminal)
		}
	}
	if plan.StatusPending.CanTransition(plan.StatusDone) {
		t.Fatal("pending must pass through in_progress")
	}
}

func TestResumableStatuses(t *testing.T) {
	want := map[plan.Status]bool{
		plan.StatusPending:    true,
		plan.StatusInProgress: true,
		plan.StatusFailed:     true,
		plan.StatusDone:       false,
		plan.StatusSkipped:    false,
	}
	for status, resumable := range want {
		if status.Resumable() != resumable {
			t.Fatalf("%s: Resumable = %v, want %v", status, status.Resumable(), resumable)
		}
	}
}

func TestParseStatusAndAction(t *testing.T) {
	if status, ok := plan.ParseStatus(" In_Progress "); !ok || status != plan.StatusInProgress {
		t.Fatalf("ParseStatus: %v %v", status, ok)
	}
	if _, ok := plan.ParseStatus("unknown"); ok {
		t.Fatal("unknown status should not parse")
	}
	if action, ok := plan.ParseAction("MOVE"); !ok || action != plan.ActionMove {
		t.Fatalf("ParseAction: %v %v", action, ok)
	}
	if _, ok := plan.ParseAction("rename"); ok {
		t.Fatal("unknown action should not parse")
	}
}
