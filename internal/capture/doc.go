// Package capture derives the capture year a media file is bucketed under.
//
// Filenames are matched against a priority-ordered pattern table (device
// timestamp prefixes, ISO dates, compact digit dates); the first valid match
// wins. Files without a recognized pattern fall back to the filesystem
// creation timestamp. Both paths apply the New Year boundary rule: anything
// stamped January 1st before 14:00 belongs to the previous year.
package capture
