package plan

import "strings"

// Action selects what the executor does with a plan entry.
type Action string

const (
	ActionCopy Action = "copy"
	ActionMove Action = "move"
)

// Status represents the lifecycle of a plan entry.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusDone,
	StatusSkipped,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Entry is a single planned file operation. Only the executor and journal
// mutate Status and Error.
type Entry struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	Action          Action `json:"action"`
	Status          Status `json:"status"`
	Error           string `json:"error,omitempty"`
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// ParseAction converts a string into a known Action.
func ParseAction(value string) (Action, bool) {
	switch Action(strings.ToLower(strings.TrimSpace(value))) {
	case ActionCopy:
		return ActionCopy, true
	case ActionMove:
		return ActionMove, true
	default:
		return "", false
	}
}

// IsTerminal reports whether a status ends an entry's lifecycle within a run.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDone, StatusSkipped, StatusFailed:
		return true
	default:
		return false
	}
}

// Resumable reports whether a resumed run re-attempts an entry in this
// status. Failed entries are re-attempted; done and skipped are left alone.
func (s Status) Resumable() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusFailed:
		return true
	default:
		return false
	}
}

// CanTransition enforces the monotonic lifecycle
// pending -> in_progress -> exactly one of done/skipped/failed.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusDone || next == StatusSkipped || next == StatusFailed
	default:
		return false
	}
}

// MarkFailed records a failure message on the entry.
func (e *Entry) MarkFailed(message string) {
	e.Status = StatusFailed
	e.Error = message
}
