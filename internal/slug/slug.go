// Package slug builds URL-friendly identifiers from article titles
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separatorRegex matches every run of characters that cannot appear in a slug
var separatorRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Make converts a title to a slug: accents removed, lowercase,
// every run of other characters replaced by a single hyphen, no leading or trailing hyphen.
// "Les Tendances 2024 : l'été" becomes "les-tendances-2024-l-ete".
func Make(title string) string {
	// Decompose accents and drop the combining marks
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, title)
	if err != nil {
		result = title
	}

	result = strings.ToLower(result)
	result = separatorRegex.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// WithSuffix returns the n-th candidate for a slug that is already taken.
// n <= 1 returns base unchanged, otherwise "base-n".
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// IsValid reports whether s is a well-formed slug
func IsValid(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return !strings.Contains(s, "--")
}
