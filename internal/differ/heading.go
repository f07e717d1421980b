package differ

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var numberedHeadingRegex = regexp.MustCompile(`^\p{Nd}+\.[\s\p{Z}\x{85}]+[\p{L}\p{N}_]`)

// LooksLikeHeading reports whether a line reads like a section heading:
// all upper case and under 100 characters, a numbered "N. Title" under 120
// characters, or title case with at most 8 words.
func LooksLikeHeading(text string) bool {
	if text == "" {
		return false
	}
	length := utf8.RuneCountInString(text)
	if isUpper(text) && length < 100 {
		return true
	}
	if numberedHeadingRegex.MatchString(text) && length < 120 {
		return true
	}
	if isTitle(text) && len(strings.Fields(text)) <= 8 {
		return true
	}
	return false
}

// isUpper is true when text has at least one cased letter and none of them
// are lower or title case.
func isUpper(text string) bool {
	cased := false
	for _, r := range text {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// isTitle is true when every word starts with an upper or title case letter
// followed only by lower case letters, and text has at least one cased letter.
func isTitle(text string) bool {
	cased := false
	prevCased := false
	for _, r := range text {
		switch {
		case unicode.IsUpper(r), unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}
