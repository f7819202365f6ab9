package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"mediasort/internal/journal"
	"mediasort/internal/plan"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the persisted progress of an interrupted run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.statusFilePath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "No status file at %s.\n", path)
				return nil
			}

			store, err := journal.Open(path, nil)
			if err != nil {
				return err
			}
			defer store.Close()

			renderStatus(cmd, store, showAll)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Include entries that already finished")
	return cmd
}

func renderStatus(cmd *cobra.Command, store *journal.Store, showAll bool) {
	out := cmd.OutOrStdout()
	summary := store.Summarize()

	fmt.Fprintf(out, "Status file: %s\n", store.Path())
	fmt.Fprintf(out, "Run:         %s\n\n", store.RunID())

	listed := make([]plan.Entry, 0, summary.Total())
	for _, entry := range store.Entries() {
		if !showAll && entry.Status.IsTerminal() && entry.Status != plan.StatusFailed {
			continue
		}
		listed = append(listed, entry)
	}
	if rendered := renderEntriesTable(listed); rendered != "" {
		fmt.Fprintln(out, rendered)
		fmt.Fprintln(out)
	}

	colorize := shouldColorize(out)
	fmt.Fprintln(out, renderStatusLine("pending", statusInfo, strconv.Itoa(summary.Pending+summary.InProgress), colorize))
	fmt.Fprintln(out, renderStatusLine("done", statusOK, strconv.Itoa(summary.Done), colorize))
	fmt.Fprintln(out, renderStatusLine("skipped", statusInfo, strconv.Itoa(summary.Skipped), colorize))
	kind := statusOK
	if summary.Failed > 0 {
		kind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("failed", kind, strconv.Itoa(summary.Failed), colorize))
	if !store.Complete() {
		fmt.Fprintln(out, "\nRun `mediasort --resume <source>...` to continue.")
	}
}
