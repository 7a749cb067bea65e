package domain

import "strings"

// NormalizeTag trims whitespace and collapses internal whitespace runs.
// It is applied to vibe/dietary/accessibility tags before set operations so
// "Beach " and "Beach" are the same element.
func NormalizeTag(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeFreeText trims a free-text field. Empty after trimming means "unset".
func NormalizeFreeText(s string) string {
	return strings.TrimSpace(s)
}
