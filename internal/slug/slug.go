// Package slug derives URL-safe identifiers from article titles.
//
// # Usage
//
//	s := slug.Make("A Paz que Excede") // "a-paz-que-excede"
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reInvalid = regexp.MustCompile(`[^a-z0-9\s-]`)
	reSpaces  = regexp.MustCompile(`\s+`)
	reHyphens = regexp.MustCompile(`-+`)
)

// Make converts a free-form title into a lowercase, accent-free, hyphenated
// slug. The transformation is idempotent: Make(Make(s)) == Make(s).
func Make(title string) string {
	s := strings.ToLower(title)
	s = stripDiacritics(s)
	s = reInvalid.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, "-")
	s = reHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// stripDiacritics decomposes to NFD and drops combining marks (é → e).
func stripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
