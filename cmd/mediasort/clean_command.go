package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mediasort/internal/journal"
	"mediasort/internal/services"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Discard the persisted status file",
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
				if !errors.Is(err, services.ErrJournalCorrupt) {
					return err
				}
				return removeRawStatusFile(cmd, path, force)
			}
			defer store.Close()

			if !force {
				summary := store.Summarize()
				unfinished := summary.Pending + summary.InProgress + summary.Failed
				prompt := fmt.Sprintf("Delete status file %s", path)
				if unfinished > 0 {
					prompt = fmt.Sprintf("%s (%d entries unfinished)", prompt, unfinished)
				}
				if !confirm(cmd, prompt+"? [y/N]: ") {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := store.Remove(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation")
	return cmd
}

// removeRawStatusFile deletes a status file the journal refused to load, so a
// corrupt file can still be discarded.
func removeRawStatusFile(cmd *cobra.Command, path string, force bool) error {
	if !force && !confirm(cmd, fmt.Sprintf("Status file %s is unreadable. Delete it? [y/N]: ", path)) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete status file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", path)
	return nil
}
