package utils

import "time"

// TimestampLayout is the display layout for generation timestamps.
const TimestampLayout = "2006-01-02 15:04:05 MST"

// FormatTimestamp formats t in UTC for display on the dashboard and CLI.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}
