package finder

import (
	"fmt"
	"strings"
	"time"
)

// Window is the inclusive span of one calendar month, first day to last day.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Year() int {
	return w.Start.Year()
}

func (w Window) Month() time.Month {
	return w.Start.Month()
}

// ParseMonth accepts a full English month name in any letter case.
func ParseMonth(name string) (time.Month, error) {
	normalized := capitalize(name)
	parsed, err := time.Parse("January", normalized)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, name)
	}
	return parsed.Month(), nil
}

// ResolveWindow picks the next occurrence of month relative to now. The
// current month counts as upcoming.
func ResolveWindow(month time.Month, now time.Time) Window {
	year := now.Year()
	if month < now.Month() {
		year++
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// day 0 of the following month is the last day of this one
	end := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: end}
}

// Overlaps reports whether [eventStart, eventEnd] intersects
// [windowStart, windowEnd]. Touching endpoints count as overlapping.
func Overlaps(windowStart, windowEnd, eventStart, eventEnd time.Time) bool {
	return !windowStart.After(eventEnd) && !eventStart.After(windowEnd)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
