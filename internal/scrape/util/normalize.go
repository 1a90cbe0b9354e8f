package util

import (
	"strings"
	"unicode/utf8"
)

// CleanText collapses whitespace (including NBSP) into single spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeLocation is the canonical form the geography filter matches
// against: lowercase, whitespace collapsed, trimmed. No geocoding.
func NormalizeLocation(loc string) string {
	return strings.ToLower(CleanText(loc))
}

// NormalizeTitle mirrors NormalizeLocation for titles.
func NormalizeTitle(title string) string {
	return strings.ToLower(CleanText(title))
}

// Truncate cuts s to at most max runes. max <= 0 leaves s untouched.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// NonEmpty drops blank values and trims the rest.
func NonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
