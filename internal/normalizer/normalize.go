// Package normalizer implements the §4.A canonical lookup-key
// transform used at both build time (over indexed names) and query
// time (over user tokens); only normalized strings are ever compared.
package normalizer

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// curlyApostrophes collapse to the ASCII apostrophe before comparison.
var curlyApostrophes = map[rune]rune{
	'’': '\'', // ’
	'ʼ': '\'', // ʼ
	'`': '\'', // `
}

// punctuationToSpace is the run of internal punctuation that collapses
// to a single space, per §4.A.4.
var punctuationToSpace = map[rune]bool{
	'-': true, '_': true, '.': true, ',': true,
}

// stripMn removes the Unicode Mn (combining mark) category left behind
// by NFKD decomposition — the same transform.Chain shape the teacher
// uses in its accent-stripping helper, generalized from Vietnamese
// tonal marks to every Unicode script's combining diacritics.
var stripMn = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize implements §4.A: NFKD-decompose, strip combining marks,
// lowercase, collapse whitespace/punctuation runs to a single space,
// fold curly apostrophes to ASCII, trim. Idempotent.
func Normalize(s string) string {
	decomposed, _, err := transform.String(stripMn, s)
	if err != nil {
		decomposed = s
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	lastWasSpace := false
	for _, r := range decomposed {
		if repl, ok := curlyApostrophes[r]; ok {
			r = repl
		}
		switch {
		case punctuationToSpace[r] || unicode.IsSpace(r):
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
		default:
			b.WriteRune(unicode.ToLower(r))
			lastWasSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}

// NormalizeAll normalizes a batch of names, deduplicating the result —
// used by the Name Expander (§4.B) to fold independently generated
// variants into a single name set.
func NormalizeAll(names ...string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		k := Normalize(n)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// ASCIIFold transliterates non-Latin scripts (CJK, Cyrillic, Greek, ...)
// to ASCII before normalization, for the asciiname field when NFKD +
// Mn-strip alone leaves the string un-Latinized — the go-unidecode
// fallback named in SPEC_FULL's domain stack table.
func ASCIIFold(s string) string {
	return unidecode.Unidecode(s)
}
