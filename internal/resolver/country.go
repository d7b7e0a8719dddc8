// Package resolver implements the §4.D/E/F Country/State/City
// resolvers: each a pure function of (token, Index) that the Scrubber
// (internal/scrub) orchestrates in the §4.G step order.
package resolver

import (
	"context"
	"strings"

	"github.com/geonames/csc-resolver/app/models"
	"github.com/geonames/csc-resolver/internal/gazetteer"
	"github.com/geonames/csc-resolver/internal/normalizer"
	"go.uber.org/zap"
)

// Ambiguity is set on a resolved value when a resolution step found
// more than one candidate and picked a winner by population — the
// "emit a diagnostic flag" behavior of §4.D.
type Ambiguity struct {
	CandidateCount int
}

// CountryResolver implements §4.D.
type CountryResolver struct {
	idx    gazetteer.Index
	logger *zap.Logger
}

func NewCountryResolver(idx gazetteer.Index, logger *zap.Logger) *CountryResolver {
	return &CountryResolver{idx: idx, logger: logger}
}

// Resolve implements resolve_country(token) → Option<Country>, §4.D
// steps 1–7 in order, breaking ties by population then returning the
// first match found at whichever step succeeds.
func (r *CountryResolver) Resolve(ctx context.Context, token string) (*models.Country, *Ambiguity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil, nil
	}
	upper := strings.ToUpper(strings.TrimSpace(token))
	k := normalizer.Normalize(token)

	steps := []func(context.Context) ([]models.Record, error){
		func(ctx context.Context) ([]models.Record, error) {
			return r.idx.Find(ctx, models.CollCountries, gazetteer.Query{ISO: upper})
		},
		func(ctx context.Context) ([]models.Record, error) {
			return r.idx.Find(ctx, models.CollCountries, gazetteer.Query{ISO3: upper})
		},
		func(ctx context.Context) ([]models.Record, error) {
			return r.idx.Find(ctx, models.CollCountries, gazetteer.Query{Names: k})
		},
		func(ctx context.Context) ([]models.Record, error) {
			return r.idx.Find(ctx, models.CollCountries, gazetteer.Query{NamesLang: k})
		},
	}

	for _, step := range steps {
		candidates, err := step(ctx)
		if err != nil {
			return nil, nil, err
		}
		if len(candidates) == 0 {
			continue
		}
		country := candidates[0].(*models.Country)
		var amb *Ambiguity
		if len(candidates) > 1 {
			amb = &Ambiguity{CandidateCount: len(candidates)}
			if r.logger != nil {
				r.logger.Warn("country resolution ambiguous",
					zap.String("token", token),
					zap.Int("candidates", len(candidates)),
					zap.String("winner_iso", country.Iso))
			}
		}
		return country, amb, nil
	}
	return nil, nil, nil
}

// USOutlyingAreas are the US-territory ISO2 codes named by §4.E's
// special case — a state token that actually resolves to one of these
// as a Country record should be treated as the effective country code.
var USOutlyingAreas = map[string]bool{
	"PR": true, "GU": true, "VI": true, "AS": true, "MP": true,
}
