// Package patch implements the declarative per-country patch-rule
// mechanism named in spec.md §9 Design Notes: a handful of worked-out
// corrections to GeoNames' own country-level alias data (a wrongly
// inherited admin1 name, a colloquial alias GeoNames omits) that are
// reproduced as data rather than hardcoded special cases, grounded on
// the teacher's go:embed + YAML rule-loading pattern
// (internal/normalizer/rules_embed.go).
package patch

import (
	_ "embed"
	"sync"

	"github.com/geonames/csc-resolver/app/models"
	"github.com/geonames/csc-resolver/internal/normalizer"
	"gopkg.in/yaml.v3"
)

//go:embed data/patches.yaml
var patchData []byte

type patchFixture struct {
	CountryCode string   `yaml:"country_code"`
	AddNames    []string `yaml:"add_names"`
	RemoveNames []string `yaml:"remove_names"`
}

// PatchRule is one declarative correction, scoped to a single country
// by ISO2 code.
type PatchRule struct {
	CountryCode string
	Apply       func(*models.Country)
}

var (
	loadOnce  sync.Once
	loadRules []PatchRule
	loadErr   error
)

// LoadPatchRules parses the embedded fixture data into PatchRule
// values. The result is memoized, same as LoadRulesConfig in
// internal/expand.
func LoadPatchRules() ([]PatchRule, error) {
	loadOnce.Do(func() {
		var fixtures []patchFixture
		if err := yaml.Unmarshal(patchData, &fixtures); err != nil {
			loadErr = err
			return
		}
		rules := make([]PatchRule, 0, len(fixtures))
		for _, f := range fixtures {
			f := f
			rules = append(rules, PatchRule{
				CountryCode: f.CountryCode,
				Apply: func(c *models.Country) {
					for _, n := range f.AddNames {
						c.AddName(normalizer.Normalize(n))
					}
					for _, n := range f.RemoveNames {
						delete(c.Names, normalizer.Normalize(n))
					}
				},
			})
		}
		loadRules = rules
	})
	return loadRules, loadErr
}

// ApplyAll runs every rule whose CountryCode matches c.Iso, in the
// order they appear in the fixture data.
func ApplyAll(rules []PatchRule, c *models.Country) {
	for _, r := range rules {
		if r.CountryCode == c.Iso {
			r.Apply(c)
		}
	}
}
