package meal

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the canonical date format: YYYY-MM-DD.
const DateLayout = "2006-01-02"

// WeekRadius is the number of days on each side of the anchor date.
const WeekRadius = 6

// datePattern checks shape only. Day-of-month is not checked against the
// month, so 2024-02-30 matches.
var datePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[012])-(0[1-9]|[12][0-9]|3[01])$`)

// ValidDate reports whether s is a well-formed YYYY-MM-DD string.
// It does not check that the date exists on the calendar; use ParseDate for that.
func ValidDate(s string) bool {
	return datePattern.MatchString(s)
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
// Impossible dates such as 2024-02-30 are rejected.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Today returns the current UTC date as YYYY-MM-DD.
func Today(now time.Time) string {
	return FormatDate(now)
}

// =============================================================================
// WEEK WINDOW
// =============================================================================

// Window is an inclusive date range [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// WeekAround returns the 13-day window centred on anchor.
func WeekAround(anchor time.Time) Window {
	return Window{
		Start: anchor.AddDate(0, 0, -WeekRadius),
		End:   anchor.AddDate(0, 0, WeekRadius),
	}
}

// Contains returns true if date falls within the window.
func (w Window) Contains(date string) bool {
	s := FormatDate(w.Start)
	e := FormatDate(w.End)
	return date >= s && date <= e
}

// Days returns every date in the window as YYYY-MM-DD.
func (w Window) Days() []string {
	var days []string
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDate(d))
	}
	return days
}

func (w Window) String() string {
	return "[" + FormatDate(w.Start) + ", " + FormatDate(w.End) + "]"
}

// ComputeWeek returns the first and last dates of the week window around
// anchor. anchor must be a real calendar date.
func ComputeWeek(anchor string) (start, end string, err error) {
	t, err := ParseDate(anchor)
	if err != nil {
		return "", "", err
	}
	w := WeekAround(t)
	return FormatDate(w.Start), FormatDate(w.End), nil
}
