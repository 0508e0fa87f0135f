package domain

import "strings"

// NormalizeName turns a display name into the key that identifies a participant:
// surrounding whitespace is trimmed and the result is lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
