package util

import "strings"

// NormalizeKey lowercases and trims a string for use as a consistent lookup key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FirstLine returns the first non-empty line of s, trimmed. Used to
// reduce multi-line command output to a single display line.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}
