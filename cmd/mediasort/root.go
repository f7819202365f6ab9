package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var statusFileFlag string

	ctx := newCommandContext(&configFlag, &statusFileFlag)
	sortOpts := &sortOptions{}

	rootCmd := &cobra.Command{
		Use:   "mediasort [flags] <source>...",
		Short: "Sort media files into per-year directories",
		Long: `mediasort enumerates one or more source trees, derives a capture year for
every media file from its name or creation time, and copies or moves each file
into <output>/<year>/<relative path>. Progress persists to a status file so an
interrupted run can resume with --resume.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runSort(cmd, ctx, sortOpts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&statusFileFlag, "status-file", "", "Path to the progress status file")

	flags := rootCmd.Flags()
	flags.StringVarP(&sortOpts.output, "output", "o", "", "Output root (default: sibling of the first source)")
	flags.BoolVar(&sortOpts.dryRun, "dry-run", false, "Report planned actions without copying, moving, or persisting progress")
	flags.BoolVar(&sortOpts.move, "move", false, "Move files instead of copying them")
	flags.BoolVar(&sortOpts.mediaOnly, "media-only", false, "Restrict input to recognized media extensions")
	flags.BoolVar(&sortOpts.excludeHidden, "exclude-hidden", false, "Exclude hidden paths and reserved directories")
	flags.BoolVar(&sortOpts.resume, "resume", false, "Merge with a previously persisted status file")
	flags.StringVar(&sortOpts.assume, "assume", "", "Answer every conflict with a fixed choice (yes, no, larger, older, newer)")
	flags.StringVar(&sortOpts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&sortOpts.logFormat, "log-format", "", "Log format (console, json)")

	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newCleanCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
