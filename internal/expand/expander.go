// Package expand implements the §4.B Name Expander: given a raw place
// name, derive the additional normalized names it should also be
// indexed under.
package expand

import (
	"regexp"
	"strings"

	"github.com/geonames/csc-resolver/internal/normalizer"
)

// ClashChecker answers whether a barename is already claimed by another
// city in the same (countryCode, admin1) at build time — the lookup
// named by §4.B rule 4. The expander takes this as an injected oracle
// rather than touching the Gazetteer Index itself, so it stays a pure
// function of its inputs.
type ClashChecker func(countryCode, admin1, barenameNormalized string) bool

var (
	onByPattern    = regexp.MustCompile(`(?i)^(.+?)[\s-](on|by)[\s-](the[\s-])?.+$`)
	bracketPattern = regexp.MustCompile(`^(.+?)\s*\(.+\)$`)
	apostropheOPattern = regexp.MustCompile(`(?i)^(.*\S)\s+O'(\S.*)$`)
)

// Expand implements §4.B: given (countryCode, admin1, primaryName),
// returns the set of additional normalized variant names to index. The
// seven rules are applied independently and their results unioned.
func Expand(countryCode, admin1, name string, clash ClashChecker) ([]string, error) {
	cfg, err := LoadRulesConfig()
	if err != nil {
		return nil, err
	}
	blacklist := toSet(cfg.BarenameBlacklist)
	suffixStripCC := toSet(cfg.SuffixStripCountries)
	onByClashCC := toSet(cfg.OnByClashCountries)

	var variants []string
	variants = append(variants, saintStVariants(name)...)
	variants = append(variants, suffixStripVariants(countryCode, name, suffixStripCC, cfg.StrippedSuffixes, blacklist)...)
	variants = append(variants, bracketedSuffixVariant(name)...)
	variants = append(variants, onByVariants(countryCode, admin1, name, onByClashCC, blacklist, clash)...)
	variants = append(variants, mcOPrefixVariants(name)...)
	variants = append(variants, apostropheOVariants(name)...)
	variants = append(variants, onByCasingVariants(name)...)

	return normalizer.NormalizeAll(variants...), nil
}

// Rule 1: Saint/St interchange on the first token only.
func saintStVariants(name string) []string {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return nil
	}
	rest := strings.Join(fields[1:], " ")
	switch strings.ToLower(fields[0]) {
	case "saint":
		return []string{"St " + rest}
	case "st":
		return []string{"Saint " + rest}
	}
	return nil
}

// Rule 2: suffix stripping for US/CA/AU populated places. Names ending
// in a stripped suffix (case-insensitive, token-final) yield the
// barename, unless blacklisted. The inverse direction named in spec.md
// ("conversely add <base> City as an alias" when "City" was the
// suffix stripped) is a no-op here: the barename-with-"City" form is
// already the original input, so nothing further needs generating.
func suffixStripVariants(cc, name string, stripCountries map[string]struct{}, suffixes []string, blacklist map[string]struct{}) []string {
	if _, ok := stripCountries[cc]; !ok {
		return nil
	}
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return nil
	}
	last := fields[len(fields)-1]
	for _, suffix := range suffixes {
		if strings.EqualFold(last, suffix) {
			barename := strings.TrimSpace(strings.Join(fields[:len(fields)-1], " "))
			if _, blacklisted := blacklist[strings.ToLower(barename)]; blacklisted {
				return nil
			}
			return []string{barename}
		}
	}
	return nil
}

// Rule 3: bracketed suffix removal, e.g. "Springfield (Clark County)".
func bracketedSuffixVariant(name string) []string {
	m := bracketPattern.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	barename := strings.TrimSpace(m[1])
	if barename == "" {
		return nil
	}
	return []string{barename}
}

// Rule 4: "X on Y" / "X by (the) Y" barename extraction, gated by the
// build-time clash check against other cities already indexed in the
// same (countryCode, admin1).
func onByVariants(cc, admin1, name string, clashCountries map[string]struct{}, blacklist map[string]struct{}, clash ClashChecker) []string {
	if _, ok := clashCountries[cc]; !ok {
		return nil
	}
	m := onByPattern.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	barename := strings.TrimSpace(m[1])
	if barename == "" {
		return nil
	}
	if _, blacklisted := blacklist[strings.ToLower(barename)]; blacklisted {
		return nil
	}
	if strings.HasSuffix(strings.ToLower(barename), "park") {
		return nil
	}
	normalized := normalizer.Normalize(barename)
	if clash != nil && clash(cc, admin1, normalized) {
		return nil
	}
	return []string{barename}
}

// Rule 5: Mc/O' space cleanup, token-initial only.
func mcOPrefixVariants(name string) []string {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return nil
	}
	switch fields[0] {
	case "Mc":
		return []string{"Mc" + fields[1] + tail(fields, 2)}
	case "O":
		return []string{"O'" + fields[1] + tail(fields, 2)}
	}
	return nil
}

func tail(fields []string, from int) string {
	if from >= len(fields) {
		return ""
	}
	return " " + strings.Join(fields[from:], " ")
}

// Rule 6: apostrophe variants for "X O' Y" names — also emit the
// stripped ("X O Y") and spelled-out ("X Of Y") forms.
func apostropheOVariants(name string) []string {
	m := apostropheOPattern.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	prefix, suffix := m[1], m[2]
	return []string{
		prefix + " O " + suffix,
		prefix + " Of " + suffix,
	}
}

// Rule 7: "-on-the-"/"-by-the-" casing — emit both the hyphenated
// lowercase form and the space-separated mixed-case form.
func onByCasingVariants(name string) []string {
	lower := strings.ToLower(name)
	if !strings.Contains(lower, "-on-the-") && !strings.Contains(lower, "-by-the-") &&
		!strings.Contains(lower, " on the ") && !strings.Contains(lower, " by the ") {
		return nil
	}
	hyphenated := strings.ReplaceAll(lower, " ", "-")
	spaced := strings.ReplaceAll(name, "-", " ")
	return []string{hyphenated, spaced}
}
