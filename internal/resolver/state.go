package resolver

import (
	"context"
	"strings"

	"github.com/geonames/csc-resolver/app/models"
	"github.com/geonames/csc-resolver/internal/gazetteer"
	"github.com/geonames/csc-resolver/internal/normalizer"
	"go.uber.org/zap"
)

// NonEnglishSpeaking is the set of country codes for which state/city
// resolution falls back to ADM2 (§4.E step 3) and ADMD/ADM2 (§4.F step
// 3) — conventionally, countries where GeoNames alternate-name
// coverage in English is sparse enough that ADM1-level lookups alone
// miss common local terms. This is the same sort of small declarative
// table the teacher drives its admin-subtype classification from
// (app/models/admin_unit.go's AdminSubtype constants), generalized
// here from Vietnamese admin levels to a country-code set.
var NonEnglishSpeaking = map[string]bool{
	"JP": true, "CN": true, "KR": true, "RU": true, "TH": true,
	"VN": true, "TW": true, "IR": true, "SA": true, "EG": true,
}

// StateOrDivision wraps the Admin1|Admin2 return union of §4.E.
type StateOrDivision struct {
	Admin1 *models.Admin1
	Admin2 *models.Admin2
}

func (s *StateOrDivision) AdminCode() string {
	if s == nil {
		return ""
	}
	if s.Admin1 != nil {
		return s.Admin1.Admin1Code
	}
	if s.Admin2 != nil {
		return s.Admin2.Admin1Code
	}
	return ""
}

// StateResolver implements §4.E.
type StateResolver struct {
	idx    gazetteer.Index
	logger *zap.Logger
}

func NewStateResolver(idx gazetteer.Index, logger *zap.Logger) *StateResolver {
	return &StateResolver{idx: idx, logger: logger}
}

// Resolve implements resolve_state(token, countryCode) → Option<Admin1|Admin2>.
// countryCode may be empty per §4.E step 5, in which case the search
// runs without a country filter.
func (r *StateResolver) Resolve(ctx context.Context, token, countryCode string) (*StateOrDivision, *Ambiguity, error) {
	if token == "" {
		return nil, nil, nil
	}
	k := normalizer.Normalize(token)

	admin1s, err := r.idx.Find(ctx, models.CollAdmin1, gazetteer.Query{CountryCode: countryCode, Names: k})
	if err != nil {
		return nil, nil, err
	}
	if len(admin1s) == 0 {
		admin1s, err = r.idx.Find(ctx, models.CollAdmin1, gazetteer.Query{CountryCode: countryCode, Abbr: k})
		if err != nil {
			return nil, nil, err
		}
	}
	if len(admin1s) > 0 {
		return r.winner(admin1s)
	}

	if countryCode != "" && NonEnglishSpeaking[countryCode] {
		admin2s, err := r.idx.Find(ctx, models.CollAdmin2, gazetteer.Query{CountryCode: countryCode, Names: k})
		if err != nil {
			return nil, nil, err
		}
		if len(admin2s) > 0 {
			return r.winner(admin2s)
		}
	}

	return nil, nil, nil
}

func (r *StateResolver) winner(candidates []models.Record) (*StateOrDivision, *Ambiguity, error) {
	var amb *Ambiguity
	if len(candidates) > 1 {
		amb = &Ambiguity{CandidateCount: len(candidates)}
	}
	switch top := candidates[0].(type) {
	case *models.Admin1:
		return &StateOrDivision{Admin1: top}, amb, nil
	case *models.Admin2:
		return &StateOrDivision{Admin2: top}, amb, nil
	}
	return nil, nil, nil
}

// ResolveUSTerritory implements §4.E's special case: a state token
// that itself resolves to a Country record whose ISO2 is a US
// outlying-area code should yield that country as the effective cc.
func ResolveUSTerritory(ctx context.Context, idx gazetteer.Index, token string) (*models.Country, error) {
	k := normalizer.Normalize(token)
	upper := strings.ToUpper(strings.TrimSpace(token))
	candidates, err := idx.Find(ctx, models.CollCountries, gazetteer.Query{ISO: upper})
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		candidates, err = idx.Find(ctx, models.CollCountries, gazetteer.Query{Names: k})
		if err != nil {
			return nil, err
		}
	}
	for _, rec := range candidates {
		if c, ok := rec.(*models.Country); ok && USOutlyingAreas[c.Iso] {
			return c, nil
		}
	}
	return nil, nil
}
