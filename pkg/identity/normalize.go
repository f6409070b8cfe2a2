// Package identity maps raw account aliases onto canonical population members.
package identity

import (
	"regexp"
	"strings"
)

// separatorRun matches runs of ASCII spaces, ASCII commas, full-width commas
// and ideographic spaces.
var separatorRun = regexp.MustCompile(`[ ,，\x{3000}]+`)

// CanonicalName trims a display name and collapses every separator run into
// a single hyphen.
func CanonicalName(display string) string {
	return separatorRun.ReplaceAllString(strings.TrimSpace(display), "-")
}

// NormalizeAlias trims and lower-cases an account alias.
func NormalizeAlias(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}

// SplitAliases splits an alias cell that lists several accounts separated by
// '|' or ';'. Empty entries are dropped.
func SplitAliases(cell string) []string {
	parts := strings.FieldsFunc(cell, func(r rune) bool {
		return r == '|' || r == ';'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if a := NormalizeAlias(p); a != "" {
			out = append(out, a)
		}
	}
	return out
}
