package capture

import (
	"regexp"
	"strconv"
)

const (
	minValidYear  = 1970
	maxValidYear  = 3000
	minValidMonth = 1
	maxValidMonth = 12
	minValidDay   = 1
	maxValidDay   = 31
)

// ExtractedDate is a candidate capture date parsed from a filename.
type ExtractedDate struct {
	Year  int
	Month int
	Day   int
	// Hour is zero when the matched pattern carries no time component.
	Hour int
	// HasHour reports whether the pattern encoded a time of day.
	HasHour bool
	// Pattern names the table entry that matched.
	Pattern string
}

// Pattern pairs a compiled matcher with its submatch layout. Patterns with
// hasHour capture the hour as the fourth submatch group.
type Pattern struct {
	Name    string
	re      *regexp.Regexp
	hasHour bool
}

// patterns is the priority-ordered match table; the first valid match wins.
// Order encodes precedence among overlapping formats: device-prefixed
// timestamps before generic dates, generic dates before bare digit runs.
var patterns = []Pattern{
	{Name: "PXL_YYYYMMDD_HHMMSS", re: regexp.MustCompile(`PXL_(\d{4})(\d{2})(\d{2})_(\d{2})\d{4}`), hasHour: true},
	{Name: "Screenshot_YYYYMMDD-HHMMSS", re: regexp.MustCompile(`Screenshot_(\d{4})(\d{2})(\d{2})-(\d{2})\d{4}`), hasHour: true},
	{Name: "IMG_YYYYMMDD_HHMMSS", re: regexp.MustCompile(`IMG_(\d{4})(\d{2})(\d{2})_(\d{2})\d{4}`), hasHour: true},
	{Name: "IMG-YYYYMMDD-WA", re: regexp.MustCompile(`IMG-(\d{4})(\d{2})(\d{2})-WA`)},
	{Name: "VID_YYYYMMDD_HHMMSS", re: regexp.MustCompile(`VID_(\d{4})(\d{2})(\d{2})_(\d{2})\d{4}`), hasHour: true},
	{Name: "DSC_YYYYMMDD", re: regexp.MustCompile(`DSC_(\d{4})(\d{2})(\d{2})`)},
	{Name: "YYYY-MM-DD", re: regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)},
	{Name: "YYYYMMDD", re: regexp.MustCompile(`(?:^|[_\-\s])(\d{4})(\d{2})(\d{2})(?:[_\-\s]|$)`)},
	{Name: "YYYYMMDD_start", re: regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})[_\-]`)},
}

// ExtractDate runs the pattern table against a filename and returns the first
// valid candidate. ok is false when nothing matches; that is a normal outcome,
// not a failure.
func ExtractDate(filename string) (ExtractedDate, bool) {
	for _, pattern := range patterns {
		match := pattern.re.FindStringSubmatch(filename)
		if match == nil {
			continue
		}
		candidate := ExtractedDate{
			Year:    mustInt(match[1]),
			Month:   mustInt(match[2]),
			Day:     mustInt(match[3]),
			Pattern: pattern.Name,
		}
		if pattern.hasHour {
			candidate.Hour = mustInt(match[4])
			candidate.HasHour = true
		}
		if !validDate(candidate) {
			continue
		}
		return candidate, true
	}
	return ExtractedDate{}, false
}

// PatternNames returns the table's names in precedence order.
func PatternNames() []string {
	names := make([]string, len(patterns))
	for i, pattern := range patterns {
		names[i] = pattern.Name
	}
	return names
}

func validDate(d ExtractedDate) bool {
	if d.Year < minValidYear || d.Year > maxValidYear {
		return false
	}
	if d.Month < minValidMonth || d.Month > maxValidMonth {
		return false
	}
	if d.Day < minValidDay || d.Day > maxValidDay {
		return false
	}
	if d.HasHour && d.Hour > 23 {
		return false
	}
	return true
}

func mustInt(value string) int {
	n, _ := strconv.Atoi(value)
	return n
}
