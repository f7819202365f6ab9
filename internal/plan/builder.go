package plan

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"

	"mediasort/internal/capture"
	"mediasort/internal/logging"
	"mediasort/internal/scan"
)

// Builder turns enumerated files into an ordered execution plan.
type Builder struct {
	resolver *capture.Resolver
	logger   *slog.Logger
}

// NewBuilder constructs a plan builder around a capture resolver.
func NewBuilder(resolver *capture.Resolver, logger *slog.Logger) *Builder {
	return &Builder{
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "plan"),
	}
}

// Build resolves a capture year for every input file and emits entries sorted
// by source path, so plan order is identical across runs on the same inputs.
// Files whose date cannot be resolved become entries born failed; the run
// continues past them. The filesystem is never touched here.
func (b *Builder) Build(files []scan.MediaFile, outputRoot string, action Action) []Entry {
	entries := make([]Entry, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		if _, dup := seen[file.Path]; dup {
			continue
		}
		seen[file.Path] = struct{}{}

		dated, err := b.resolver.Resolve(file)
		if err != nil {
			b.logger.Error("date resolution failed", logging.String("source_path", file.Path), logging.Error(err))
			entry := Entry{SourcePath: file.Path, Action: action}
			entry.MarkFailed(err.Error())
			entries = append(entries, entry)
			continue
		}
		entries = append(entries, Entry{
			SourcePath:      file.Path,
			DestinationPath: filepath.Join(outputRoot, strconv.Itoa(dated.Year), file.RelPath),
			Action:          action,
			Status:          StatusPending,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SourcePath < entries[j].SourcePath
	})
	b.logger.Info("plan built", logging.Int("entries", len(entries)))
	return entries
}
