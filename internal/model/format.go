package model

import (
	"fmt"
	"time"
)

// FormatVolume renders a dollar amount as "$1.2M", "$450K" or "$900".
func FormatVolume(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.0fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatEndDate renders a close date as "Mar 7". Zero times render empty.
func FormatEndDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("Jan 2")
}

// FormatUpdated renders a run timestamp for display, e.g. "Mar 7, 2026 · 3:04 PM ET".
func FormatUpdated(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("Jan 2, 2006 · 3:04 PM") + " ET"
}
