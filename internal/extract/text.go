package extract

import "strings"

// collapseWhitespace replaces every whitespace run with one space and trims the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to max characters and appends TruncationMarker when it cut anything.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + TruncationMarker
}
