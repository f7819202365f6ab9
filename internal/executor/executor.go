package executor

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"

	"mediasort/internal/conflict"
	"mediasort/internal/fileutil"
	"mediasort/internal/logging"
	"mediasort/internal/plan"
	"mediasort/internal/services"
)

// Recorder persists entry lifecycle transitions. The journal store satisfies
// this; dry runs pass nothing and no transition is ever recorded.
type Recorder interface {
	Transition(sourcePath string, next plan.Status, message string) error
}

// Summary reports the outcome of a run. Done, Skipped, and Failed count real
// transfers; a dry run reports would-be transfers under Planned instead,
// with Conflicts counting the planned entries whose destination is already
// occupied and so might end up skipped.
type Summary struct {
	Done      int
	Skipped   int
	Failed    int
	Planned   int
	Conflicts int
}

// Total returns the number of entries the run accounted for.
func (s Summary) Total() int { return s.Done + s.Skipped + s.Failed + s.Planned }

// Options configures a run.
type Options struct {
	// DryRun reports planned actions without touching the filesystem or the
	// recorder.
	DryRun bool
	// ProgressWriter enables a progress bar when non-nil.
	ProgressWriter io.Writer
	Logger         *slog.Logger
}

// Executor walks plan entries in order, one at a time, resolving conflicts
// and transferring files.
type Executor struct {
	recorder Recorder
	resolver *conflict.Resolver
	logger   *slog.Logger
	opts     Options
}

// New builds an executor. The recorder may be nil only for dry runs.
func New(recorder Recorder, resolver *conflict.Resolver, opts Options) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		recorder: recorder,
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "executor"),
		opts:     opts,
	}
}

// Run processes every entry sequentially. Individual transfer failures mark
// the entry failed and the run continues; persistence failures, prompt
// failures, and context cancellation abort the run.
func (e *Executor) Run(ctx context.Context, entries []plan.Entry) (Summary, error) {
	var summary Summary
	bar := e.newProgressBar(len(entries))

	for index, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		switch entry.Status {
		case plan.StatusDone:
			summary.Done++
			e.advance(bar)
			continue
		case plan.StatusSkipped:
			summary.Skipped++
			e.advance(bar)
			continue
		case plan.StatusFailed:
			summary.Failed++
			e.logger.Warn("entry failed before execution",
				logging.String(logging.FieldSourcePath, entry.SourcePath),
				logging.String("error", entry.Error))
			e.advance(bar)
			continue
		}

		if e.opts.DryRun {
			if e.reportDryRun(entry) {
				summary.Conflicts++
			}
			summary.Planned++
			e.advance(bar)
			continue
		}

		outcome, err := e.process(ctx, index, entry)
		if err != nil {
			return summary, err
		}
		switch outcome {
		case plan.StatusDone:
			summary.Done++
		case plan.StatusSkipped:
			summary.Skipped++
		case plan.StatusFailed:
			summary.Failed++
		}
		e.advance(bar)
	}
	e.finish(bar)
	return summary, nil
}

// process runs a single pending entry through to a terminal status and
// returns that status. The returned error is reserved for run-fatal problems.
func (e *Executor) process(ctx context.Context, index int, entry plan.Entry) (plan.Status, error) {
	if err := e.record(entry.SourcePath, plan.StatusInProgress, ""); err != nil {
		return "", err
	}

	if info, err := os.Stat(entry.DestinationPath); err == nil {
		srcInfo, statErr := os.Stat(entry.SourcePath)
		if statErr != nil {
			wrapped := services.Wrap(services.ErrTransfer, "executor", "conflict", "stat source", statErr)
			e.logger.Error("source unreadable at conflict",
				logging.String(logging.FieldSourcePath, entry.SourcePath),
				logging.Error(statErr))
			return plan.StatusFailed, e.record(entry.SourcePath, plan.StatusFailed, wrapped.Error())
		}
		overwrite, resolveErr := e.resolveConflict(ctx, index, entry, srcInfo, info)
		if resolveErr != nil {
			return "", resolveErr
		}
		if !overwrite {
			e.logger.Info("skipped existing destination",
				logging.String(logging.FieldSourcePath, entry.SourcePath),
				logging.String("destination", entry.DestinationPath))
			return plan.StatusSkipped, e.record(entry.SourcePath, plan.StatusSkipped, "")
		}
	}

	if err := e.transfer(entry); err != nil {
		e.logger.Error("transfer failed",
			logging.String(logging.FieldSourcePath, entry.SourcePath),
			logging.Error(err))
		return plan.StatusFailed, e.record(entry.SourcePath, plan.StatusFailed, err.Error())
	}

	e.logger.Info("transferred",
		logging.String(logging.FieldSourcePath, entry.SourcePath),
		logging.String("destination", entry.DestinationPath),
		logging.String("action", string(entry.Action)))
	return plan.StatusDone, e.record(entry.SourcePath, plan.StatusDone, "")
}

// resolveConflict answers whether the entry overwrites its occupied
// destination. Its errors are run-fatal: they mean the decision could not be
// collected at all, not that this file failed.
func (e *Executor) resolveConflict(ctx context.Context, index int, entry plan.Entry, srcInfo, destInfo os.FileInfo) (bool, error) {
	if e.resolver == nil {
		return false, services.Wrap(services.ErrConfiguration, "executor", "conflict", "no conflict resolver configured", nil)
	}
	return e.resolver.Resolve(ctx, conflict.Conflict{
		Entry:       entry,
		Index:       index,
		Source:      conflict.FileInfo{Size: srcInfo.Size(), ModTime: srcInfo.ModTime()},
		Destination: conflict.FileInfo{Size: destInfo.Size(), ModTime: destInfo.ModTime()},
	})
}

const transferAttempts = 3

func (e *Executor) transfer(entry plan.Entry) error {
	var err error
	for attempt := 1; attempt <= transferAttempts; attempt++ {
		if err = e.transferOnce(entry); err == nil {
			return nil
		}
		if attempt < transferAttempts {
			e.logger.Warn("transfer attempt failed",
				logging.String(logging.FieldSourcePath, entry.SourcePath),
				logging.Int("attempt", attempt),
				logging.Error(err))
		}
	}
	return err
}

func (e *Executor) transferOnce(entry plan.Entry) error {
	switch entry.Action {
	case plan.ActionMove:
		return fileutil.MoveFile(entry.SourcePath, entry.DestinationPath)
	default:
		return fileutil.CopyFileVerified(entry.SourcePath, entry.DestinationPath)
	}
}

func (e *Executor) record(sourcePath string, next plan.Status, message string) error {
	if e.recorder == nil {
		return services.Wrap(services.ErrConfiguration, "executor", "record", "no recorder configured", nil)
	}
	return e.recorder.Transition(sourcePath, next, message)
}

// reportDryRun logs the action the entry would take and reports whether its
// destination is already occupied.
func (e *Executor) reportDryRun(entry plan.Entry) bool {
	verb := "copy"
	if entry.Action == plan.ActionMove {
		verb = "move"
	}
	attrs := []logging.Attr{
		logging.String("action", verb),
		logging.String(logging.FieldSourcePath, entry.SourcePath),
		logging.String("destination", entry.DestinationPath),
	}
	_, statErr := os.Stat(entry.DestinationPath)
	occupied := statErr == nil
	if occupied {
		attrs = append(attrs, logging.Bool("conflict", true))
	}
	e.logger.Info("would transfer", logging.Args(attrs...)...)
	return occupied
}

func (e *Executor) newProgressBar(total int) *progressbar.ProgressBar {
	if e.opts.ProgressWriter == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(e.opts.ProgressWriter),
		progressbar.OptionSetDescription("sorting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (e *Executor) advance(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Add(1)
	}
}

func (e *Executor) finish(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}
