package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"mediasort/internal/capture"
	"mediasort/internal/config"
	"mediasort/internal/conflict"
	"mediasort/internal/executor"
	"mediasort/internal/journal"
	"mediasort/internal/logging"
	"mediasort/internal/plan"
	"mediasort/internal/scan"
	"mediasort/internal/services"
)

type sortOptions struct {
	output        string
	dryRun        bool
	move          bool
	mediaOnly     bool
	excludeHidden bool
	resume        bool
	assume        string
	logLevel      string
	logFormat     string
}

func runSort(cmd *cobra.Command, cmdCtx *commandContext, opts *sortOptions, sources []string) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolvedSources, err := resolveSources(sources)
	if err != nil {
		return err
	}
	outputRoot, err := resolveOutputRoot(opts.output, resolvedSources[0])
	if err != nil {
		return err
	}

	assume, err := resolveAssume(opts.assume, cfg)
	if err != nil {
		return err
	}

	scanner := scan.New(scan.Options{
		MediaOnly:            opts.mediaOnly,
		ExcludeHidden:        opts.excludeHidden,
		ExtraMediaExtensions: cfg.Scan.ExtraMediaExtensions,
		ExtraSkipNames:       cfg.Scan.ExtraSkipNames,
	}, logger)
	files, err := scanner.Scan(ctx, resolvedSources)
	if err != nil {
		return fmt.Errorf("enumerate sources: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No files to sort.")
		return nil
	}

	action := plan.ActionCopy
	if opts.move {
		action = plan.ActionMove
	}
	builder := plan.NewBuilder(capture.NewResolver(nil, logger), logger)
	entries := builder.Build(files, outputRoot, action)

	if opts.dryRun {
		return runDryRun(cmd, entries)
	}

	statusPath, err := cmdCtx.statusFilePath()
	if err != nil {
		return err
	}
	store, err := journal.Open(statusPath, logger)
	if err != nil {
		if services.IsFatal(err) {
			return fmt.Errorf("%w (inspect the status file or discard it with `mediasort clean`)", err)
		}
		return err
	}
	defer store.Close()

	switch {
	case store.Exists() && opts.resume:
		if err := store.Merge(entries); err != nil {
			return err
		}
	case store.Exists():
		return fmt.Errorf("status file %s exists from a previous run; pass --resume to continue it or `mediasort clean` to discard it", store.Path())
	default:
		if err := store.Begin(entries); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return fmt.Errorf("create output root %s: %w", outputRoot, err)
	}

	prompter := conflict.NewTerminalPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	resolver := conflict.NewResolver(prompter, assume, logger)

	runCtx := services.WithRunID(ctx, store.RunID())
	exec := executor.New(store, resolver, executor.Options{
		ProgressWriter: progressWriter(cmd.ErrOrStderr()),
		Logger:         logging.WithContext(runCtx, logger),
	})
	summary, err := exec.Run(runCtx, store.Entries())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSummary(out, summary)

	if store.Complete() && summary.Failed == 0 {
		maybeDeleteStatusFile(cmd, store)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d entries failed; retry with --resume", summary.Failed, summary.Total())
	}
	return nil
}

// runDryRun reports what the plan would do. Entries are counted as planned,
// not done: conflicting destinations could still resolve to a skip in a real
// run, so the tally never claims an outcome.
func runDryRun(cmd *cobra.Command, entries []plan.Entry) error {
	out := cmd.OutOrStdout()
	var summary executor.Summary
	for _, entry := range entries {
		if entry.Status == plan.StatusFailed {
			summary.Failed++
			fmt.Fprintf(out, "fail  %s (%s)\n", entry.SourcePath, entry.Error)
			continue
		}
		verb := "copy"
		if entry.Action == plan.ActionMove {
			verb = "move"
		}
		note := ""
		if _, err := os.Stat(entry.DestinationPath); err == nil {
			note = "  [conflict]"
			summary.Conflicts++
		}
		fmt.Fprintf(out, "%s  %s -> %s%s\n", verb, entry.SourcePath, entry.DestinationPath, note)
		summary.Planned++
	}

	colorize := shouldColorize(out)
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderStatusLine("planned", statusInfo, fmt.Sprintf("%d", summary.Planned), colorize))
	conflictKind := statusOK
	if summary.Conflicts > 0 {
		conflictKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("conflicts", conflictKind, fmt.Sprintf("%d", summary.Conflicts), colorize))
	failedKind := statusOK
	if summary.Failed > 0 {
		failedKind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("failed", failedKind, fmt.Sprintf("%d", summary.Failed), colorize))

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d entries failed to resolve a date", summary.Failed, summary.Total())
	}
	return nil
}

func newLogger(cfg *config.Config, opts *sortOptions, writer io.Writer) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	format := cfg.Logging.Format
	if opts.logFormat != "" {
		format = opts.logFormat
	}
	return logging.New(logging.Options{Level: level, Format: format, Writer: writer})
}

func resolveSources(sources []string) ([]string, error) {
	resolved := make([]string, 0, len(sources))
	for _, source := range sources {
		expanded, err := config.ExpandPath(source)
		if err != nil {
			return nil, fmt.Errorf("resolve source %s: %w", source, err)
		}
		info, err := os.Stat(expanded)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", source, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("source %s is not a directory", source)
		}
		resolved = append(resolved, expanded)
	}
	return resolved, nil
}

// resolveOutputRoot defaults to a sibling of the first source named after it
// with a _sorted suffix.
func resolveOutputRoot(flag, firstSource string) (string, error) {
	if strings.TrimSpace(flag) != "" {
		return config.ExpandPath(flag)
	}
	return filepath.Join(filepath.Dir(firstSource), filepath.Base(firstSource)+"_sorted"), nil
}

func resolveAssume(flag string, cfg *config.Config) (conflict.Choice, error) {
	value := strings.TrimSpace(flag)
	if value == "" {
		value = cfg.Conflict.Assume
	}
	if value == "" {
		return "", nil
	}
	choice, ok := conflict.ParseChoice(value)
	if !ok {
		return "", fmt.Errorf("unknown conflict choice %q (valid: yes, no, larger, older, newer)", value)
	}
	return choice, nil
}

func printSummary(out io.Writer, summary executor.Summary) {
	colorize := shouldColorize(out)
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderStatusLine("done", statusOK, fmt.Sprintf("%d", summary.Done), colorize))
	fmt.Fprintln(out, renderStatusLine("skipped", statusInfo, fmt.Sprintf("%d", summary.Skipped), colorize))
	kind := statusOK
	if summary.Failed > 0 {
		kind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("failed", kind, fmt.Sprintf("%d", summary.Failed), colorize))
}

func maybeDeleteStatusFile(cmd *cobra.Command, store *journal.Store) {
	out := cmd.OutOrStdout()
	if !confirm(cmd, fmt.Sprintf("All entries finished. Delete status file %s? [y/N]: ", store.Path())) {
		return
	}
	if err := store.Remove(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "delete status file: %v\n", err)
		return
	}
	fmt.Fprintln(out, "Status file deleted.")
}
