package identity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Whitespace is spelled out: RE2's \s does not include \v.
var (
	slugInvalid   = regexp.MustCompile(`[^\w\t\n\v\f\r -]`)
	slugSeparator = regexp.MustCompile(`[-\t\n\v\f\r ]+`)
)

// Slugify folds a title to a lowercase ASCII slug: accents are decomposed
// and dropped, punctuation is removed, and runs of whitespace and hyphens
// become a single hyphen. "The Cat, Sat" and "the cat sat" both become
// "the-cat-sat".
//
// Leading and trailing hyphens produced by the input are kept; changing the
// rules changes every minted identifier.
func Slugify(s string) string {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(fold, s)
	if err != nil {
		ascii = s
	}
	ascii = strings.ToLower(strings.TrimSpace(slugInvalid.ReplaceAllString(ascii, "")))
	return slugSeparator.ReplaceAllString(ascii, "-")
}
