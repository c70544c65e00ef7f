package extractor

import "strings"

// Normalize trims s and collapses every internal whitespace run, newlines
// included, into a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanName strips commas anywhere and statement/list terminators at the end
func cleanName(token string) string {
	return strings.TrimRight(strings.ReplaceAll(token, ",", ""), ";)")
}
