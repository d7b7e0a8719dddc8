package expand

import (
	"embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/rules.yaml
var rulesYAML []byte

var _embedDummy = embed.FS{}

// RulesConfig is the declarative table backing the Name Expander's
// blacklist and clash-country checks — loaded once from the embedded
// YAML file the way the teacher loads its normalizer rule tables.
type RulesConfig struct {
	BarenameBlacklist    []string `yaml:"barename_blacklist"`
	SuffixStripCountries []string `yaml:"suffix_strip_countries"`
	StrippedSuffixes     []string `yaml:"stripped_suffixes"`
	OnByClashCountries   []string `yaml:"on_by_clash_countries"`
}

var (
	rulesOnce   sync.Once
	rulesConfig *RulesConfig
	rulesErr    error
)

// LoadRulesConfig parses the embedded rule table, memoizing the result.
func LoadRulesConfig() (*RulesConfig, error) {
	rulesOnce.Do(func() {
		cfg := &RulesConfig{}
		if err := yaml.Unmarshal(rulesYAML, cfg); err != nil {
			rulesErr = err
			return
		}
		rulesConfig = cfg
	})
	return rulesConfig, rulesErr
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
