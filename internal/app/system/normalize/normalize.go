// Package normalize trims and canonicalizes user-supplied values before they
// are stored or compared.
package normalize

import (
	"strings"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses internal runs of spaces.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Status lowercases and trims a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RegisterNumber uppercases and trims a university register number.
func RegisterNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Department uppercases and trims a department code (e.g. "cse" -> "CSE").
func Department(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Tags trims, de-duplicates (case-insensitively) and drops empty entries,
// keeping the first spelling seen.
func Tags(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := strings.ToLower(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
