package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a duration string, additionally accepting a
// whole-day suffix such as "30d" on top of time.ParseDuration syntax.
// Negative durations are rejected.
func ParseDuration(input string) (time.Duration, error) {
	if before, ok := strings.CutSuffix(input, "d"); ok {
		days, err := strconv.Atoi(before)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", input)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return d, nil
}

// FormatDurationMs renders a millisecond count compactly for tables.
func FormatDurationMs(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}
