package auth

import (
	"strings"

	"topicwheel/internal/domain"
)

// Allowlist is the set of normalized administrator names.
type Allowlist map[string]struct{}

// ParseAllowlist reads names separated by ';'. Blank entries are ignored.
func ParseAllowlist(raw string) Allowlist {
	a := make(Allowlist)
	for _, part := range strings.Split(raw, ";") {
		if key := domain.NormalizeName(part); key != "" {
			a[key] = struct{}{}
		}
	}
	return a
}

// IsAdmin reports whether name, after normalization, is on the list.
func (a Allowlist) IsAdmin(name string) bool {
	key := domain.NormalizeName(name)
	if key == "" {
		return false
	}
	_, ok := a[key]
	return ok
}
