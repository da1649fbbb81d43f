package utils

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var wsRe = regexp.MustCompile(`\s+`)

// NormalizeID trims identifiers coming from paths, query strings and bodies.
func NormalizeID(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeDisplayName returns s in NFC form with runs of whitespace
// collapsed to one space.
func NormalizeDisplayName(s string) string {
	s = norm.NFC.String(s)
	s = wsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TrimMax trims a string to at most max runes.
func TrimMax(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
