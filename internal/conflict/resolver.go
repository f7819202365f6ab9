package conflict

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"mediasort/internal/logging"
	"mediasort/internal/plan"
	"mediasort/internal/services"
)

// Choice selects how an occupied destination is handled.
type Choice string

const (
	ChoiceYes    Choice = "yes"
	ChoiceNo     Choice = "no"
	ChoiceLarger Choice = "larger"
	ChoiceOlder  Choice = "older"
	ChoiceNewer  Choice = "newer"
)

// Scope controls how far a decision reaches beyond the current conflict.
type Scope string

const (
	ScopeCurrentOnly  Scope = "current_only"
	ScopeAll          Scope = "all"
	ScopeAllFollowing Scope = "all_following"
)

// ParseChoice normalizes a configured or typed choice value.
func ParseChoice(value string) (Choice, bool) {
	switch Choice(strings.ToLower(strings.TrimSpace(value))) {
	case ChoiceYes:
		return ChoiceYes, true
	case ChoiceNo:
		return ChoiceNo, true
	case ChoiceLarger:
		return ChoiceLarger, true
	case ChoiceOlder:
		return ChoiceOlder, true
	case ChoiceNewer:
		return ChoiceNewer, true
	default:
		return "", false
	}
}

// Decision pairs a choice with the scope it applies to.
type Decision struct {
	Choice Choice
	Scope  Scope
}

// FileInfo carries the two attributes conflict comparisons need.
type FileInfo struct {
	Size    int64
	ModTime time.Time
}

// Conflict describes one occupied destination. Index is the entry's position
// in plan order, used to decide whether a following-scoped decision reaches it.
type Conflict struct {
	Entry       plan.Entry
	Index       int
	Source      FileInfo
	Destination FileInfo
}

// Prompter supplies a decision for a conflict, typically by asking the user.
type Prompter interface {
	Prompt(ctx context.Context, c Conflict) (Decision, error)
}

type cachedDecision struct {
	decision Decision
	index    int
}

// Resolver answers whether a conflicting entry should overwrite its
// destination, consulting a remembered scoped decision before re-prompting.
type Resolver struct {
	prompter Prompter
	logger   *slog.Logger
	cached   *cachedDecision
}

// NewResolver builds a resolver around the given prompter. A non-empty assume
// choice short-circuits all prompting, behaving like an up-front answer with
// scope all.
func NewResolver(prompter Prompter, assume Choice, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	resolver := &Resolver{
		prompter: prompter,
		logger:   logging.NewComponentLogger(logger, "conflict"),
	}
	if assume != "" {
		resolver.cached = &cachedDecision{
			decision: Decision{Choice: assume, Scope: ScopeAll},
			index:    -1,
		}
	}
	return resolver
}

// Resolve returns true when the entry should overwrite its destination and
// false when it should be skipped.
func (r *Resolver) Resolve(ctx context.Context, c Conflict) (bool, error) {
	if r.cached != nil && r.cached.applies(c.Index) {
		return evaluate(r.cached.decision.Choice, c), nil
	}

	if r.prompter == nil {
		return false, services.Wrap(services.ErrConfiguration, "conflict", "resolve", "no prompter configured", nil)
	}
	decision, err := r.prompter.Prompt(ctx, c)
	if err != nil {
		return false, services.Wrap(services.ErrValidation, "conflict", "resolve", "collect decision", err)
	}
	if _, ok := ParseChoice(string(decision.Choice)); !ok {
		return false, services.Wrap(services.ErrValidation, "conflict", "resolve",
			"prompter returned unknown choice "+string(decision.Choice), nil)
	}

	switch decision.Scope {
	case ScopeAll, ScopeAllFollowing:
		r.cached = &cachedDecision{decision: decision, index: c.Index}
	}
	r.logger.Debug("conflict decision",
		logging.String("destination", c.Entry.DestinationPath),
		logging.String("choice", string(decision.Choice)),
		logging.String("scope", string(decision.Scope)))
	return evaluate(decision.Choice, c), nil
}

func (d *cachedDecision) applies(index int) bool {
	switch d.decision.Scope {
	case ScopeAll:
		return true
	case ScopeAllFollowing:
		return index > d.index
	default:
		return false
	}
}

func evaluate(choice Choice, c Conflict) bool {
	switch choice {
	case ChoiceYes:
		return true
	case ChoiceLarger:
		return c.Source.Size > c.Destination.Size
	case ChoiceOlder:
		return c.Source.ModTime.Before(c.Destination.ModTime)
	case ChoiceNewer:
		return c.Source.ModTime.After(c.Destination.ModTime)
	default:
		return false
	}
}
