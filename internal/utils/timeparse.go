package utils

import (
	"fmt"
	"time"
)

// Timestamps in this system are naive: no zone is attached on parse
// and none is assumed. The accepted layouts mirror ISO-8601 without an
// offset.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a naive ISO-8601 timestamp or date.
func ParseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q, use ISO format", raw)
}

// ParseDate parses a naive ISO date (YYYY-MM-DD).
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", raw)
	}
	return t, nil
}
