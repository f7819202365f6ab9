package capture

import (
	"log/slog"
	"path/filepath"
	"time"

	"mediasort/internal/fileutil"
	"mediasort/internal/logging"
	"mediasort/internal/scan"
	"mediasort/internal/services"
)

// newYearCutoffHour shifts files stamped on January 1st before this hour into
// the previous year's bucket: parties roll past midnight, but the camera
// clock does not.
const newYearCutoffHour = 14

// DateSource identifies where a file's capture year came from.
type DateSource string

const (
	SourceFilename     DateSource = "filename"
	SourceCreationTime DateSource = "creation_time"
)

// DatedFile is a MediaFile with its resolved capture year.
type DatedFile struct {
	scan.MediaFile
	// Year is the bucket the file is attributed to.
	Year int
	// Source records whether the year came from the filename or the
	// filesystem creation timestamp.
	Source DateSource
	// Pattern names the filename pattern that matched, when Source is filename.
	Pattern string
	// Fallback is set when the creation-time fallback was used; callers
	// surface it as a warning.
	Fallback bool
}

// CreationTimeFunc supplies a file's creation timestamp.
type CreationTimeFunc func(path string) (time.Time, error)

// Resolver derives capture years from filenames with a creation-time fallback.
type Resolver struct {
	creationTime CreationTimeFunc
	logger       *slog.Logger
}

// NewResolver constructs a resolver. A nil creationTime uses the filesystem;
// tests substitute a fixed function.
func NewResolver(creationTime CreationTimeFunc, logger *slog.Logger) *Resolver {
	if creationTime == nil {
		creationTime = fileutil.CreationTime
	}
	return &Resolver{
		creationTime: creationTime,
		logger:       logging.NewComponentLogger(logger, "capture"),
	}
}

// Resolve attributes a capture year to the file. Failure to read the creation
// timestamp is reported per file; the caller records it and continues the run.
func (r *Resolver) Resolve(file scan.MediaFile) (DatedFile, error) {
	name := filepath.Base(file.Path)
	if extracted, ok := ExtractDate(name); ok {
		r.logger.Debug(
			"date from filename",
			logging.String("file", name),
			logging.String("pattern", extracted.Pattern),
			logging.Int("year", extracted.Year),
		)
		return DatedFile{
			MediaFile: file,
			Year:      resolveYear(extracted.Year, extracted.Month, extracted.Day, extracted.Hour),
			Source:    SourceFilename,
			Pattern:   extracted.Pattern,
		}, nil
	}

	created, err := r.creationTime(file.Path)
	if err != nil {
		return DatedFile{}, services.Wrap(services.ErrDateResolution, "capture", "creation time", "read creation timestamp", err)
	}
	r.logger.Warn(
		"no filename pattern matched, using creation time",
		logging.String("file", name),
		logging.String("created", created.Format("2006-01-02 15:04:05")),
	)
	return DatedFile{
		MediaFile: file,
		Year:      resolveYear(created.Year(), int(created.Month()), created.Day(), created.Hour()),
		Source:    SourceCreationTime,
		Fallback:  true,
	}, nil
}

// resolveYear applies the New Year boundary rule. Patterns without an hour
// component resolve with hour 0, so the exception applies to them.
func resolveYear(year, month, day, hour int) int {
	if month == 1 && day == 1 && hour < newYearCutoffHour {
		return year - 1
	}
	return year
}
