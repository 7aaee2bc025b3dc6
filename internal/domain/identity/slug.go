// Package identity maps untrusted source keys onto canonical player slugs.
package identity

import (
	"regexp"
	"strings"
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	separators = regexp.MustCompile(`[\s-]+`)
)

// Slugify lower-cases s, drops everything except letters, digits, whitespace
// and hyphens, collapses whitespace/hyphen runs to one hyphen and trims
// hyphens at both ends. Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = disallowed.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
